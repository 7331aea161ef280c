package bootstrap

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort       string        `mapstructure:"SERVER_PORT"`
	GrpcPort         string        `mapstructure:"GRPC_PORT"`
	RedisUrl         string        `mapstructure:"REDIS_URL"`
	MongoUri         string        `mapstructure:"MONGO_URI"`
	MongoDatabase    string        `mapstructure:"MONGO_DATABASE"`
	CacheTTL         time.Duration `mapstructure:"CACHE_TTL"`
	CollapseOnParse  bool          `mapstructure:"COLLAPSE_ON_PARSE"`
	PageLimitRecords int           `mapstructure:"PAGE_LIMIT_RECORDS"`
	IsLocalCors      bool          `mapstructure:"LOCAL_CORS"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GRPC_PORT", "8082")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "sgfgrove")
	v.SetDefault("CACHE_TTL", "1h")
	v.SetDefault("COLLAPSE_ON_PARSE", false)
	v.SetDefault("PAGE_LIMIT_RECORDS", 20)
	v.SetDefault("LOCAL_CORS", false)
}

// Setup reads cfgPath (an env style file by default) on top of the defaults.
// Environment variables of the same name win over the file.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(cfgPath)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is available.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}
