package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sgfgrove/internal/adapters"
	"sgfgrove/internal/bootstrap"
	"sgfgrove/internal/domain/sgf"
	"sgfgrove/internal/repository"
	"sgfgrove/internal/sgf/property"
	"sgfgrove/internal/sgf/serializer"
	recordUseCase "sgfgrove/internal/usecase/record"
	sgfUseCase "sgfgrove/internal/usecase/sgf"
)

var (
	outputFormat string   // json or yaml
	collapse     bool     // fold single variations while parsing
	fromJSON     bool     // fmt input is the JSON shape
	include      []string // identifiers kept by fmt
	configPath   string   // configuration for import
	tableFF      int      // file format listed by tables
	tableGM      int      // game listed by tables
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Print a collection in its JSON or YAML shape",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		c, err := sgfUseCase.NewSgfUseCase(logger, collapse).Convert(text)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), c)
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Rewrite SGF in canonical form",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		var c sgf.Collection
		if fromJSON {
			c, err = sgf.DecodeJSON(strings.NewReader(text))
		} else {
			c, err = sgfUseCase.NewSgfUseCase(logger, false).Convert(text)
		}
		if err != nil {
			return err
		}

		s := serializer.Serializer{Include: include}
		out, err := s.Stringify(c)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Summarise the first game tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		info, err := sgfUseCase.NewSgfUseCase(logger, false).Info(text)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), info)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Store every .sgf file below a directory",
	Long: `Walks the directory and stores each .sgf file as a record. Files inside
a "Chapter N" directory are filed under chapter N.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap.Setup(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		ctx := cmd.Context()

		mongoAdapter := adapters.NewAdapterMongo(cfg, logger)
		if err := mongoAdapter.Init(ctx); err != nil {
			return err
		}
		defer mongoAdapter.Close(ctx)
		redisAdapter := adapters.NewAdapterRedis(cfg, logger)
		if err := redisAdapter.Init(ctx); err != nil {
			return err
		}
		defer redisAdapter.Close(ctx)

		store := repository.NewRecordStorage(cfg, logger, mongoAdapter.Database, redisAdapter.GetClient())
		records := recordUseCase.NewRecordUseCase(store, sgfUseCase.NewSgfUseCase(logger, cfg.CollapseOnParse), logger)

		keys, err := records.ImportDirectory(ctx, args[0])
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return err
	},
}

// tableEntry is one line of the tables listing.
type tableEntry struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Type       string `json:"type" yaml:"type"`
	Known      bool   `json:"known" yaml:"known"`
}

var tablesCmd = &cobra.Command{
	Use:   "tables [IDENT...]",
	Short: "List the property types of a file format",
	Long: `Lists every identifier with a dedicated type for the given FF and GM, or
only the named identifiers. Identifiers without a dedicated type are Unknown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := property.Resolve(tableFF, tableGM)
		if err != nil {
			return err
		}

		idents := args
		if len(idents) == 0 {
			idents = table.Identifiers()
		}
		entries := make([]tableEntry, 0, len(idents))
		for _, ident := range idents {
			ident = table.Fold(ident)
			if !table.ValidIdentifier(ident) {
				return fmt.Errorf("%q is not an identifier in FF[%d]", ident, table.FF())
			}
			entries = append(entries, tableEntry{
				Identifier: ident,
				Type:       table.Describe(ident),
				Known:      table.Known(ident),
			})
		}
		return writeOutput(cmd.OutOrStdout(), entries)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
	parseCmd.Flags().BoolVar(&collapse, "collapse", false, "fold variations holding a single tree")
	infoCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
	fmtCmd.Flags().BoolVar(&fromJSON, "from-json", false, "read the JSON shape instead of SGF")
	fmtCmd.Flags().StringSliceVar(&include, "include", nil, "only write these property identifiers")
	importCmd.Flags().StringVar(&configPath, "config", ".env", "path to the configuration file")
	tablesCmd.Flags().IntVar(&tableFF, "ff", 4, "file format, 1 to 4")
	tablesCmd.Flags().IntVar(&tableGM, "gm", 1, "game type, 1 is Go")
	tablesCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
}

// readInput reads the named file, or stdin when no file is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeOutput(w io.Writer, v any) error {
	switch outputFormat {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}
