package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"sgfgrove/internal/bootstrap"
	"sgfgrove/internal/domain/record"
	sgferrors "sgfgrove/internal/errors"
)

const (
	recordsCollection = "records"
	cachePrefix       = "sgf:"
	queryTimeout      = 5 * time.Second
)

var chapterPattern = regexp.MustCompile(`(?i)^Chapter (\d+)$`)

type RecordStorage struct {
	cfg   *bootstrap.Config
	log   *zap.SugaredLogger
	mongo *mongo.Database
	redis *redis.Client
}

func NewRecordStorage(cfg *bootstrap.Config, log *zap.SugaredLogger, mongo *mongo.Database, redis *redis.Client) *RecordStorage {
	return &RecordStorage{
		cfg:   cfg,
		log:   log,
		mongo: mongo,
		redis: redis,
	}
}

func (s *RecordStorage) GenerateKey() string {
	return uuid.New().String()
}

func (s *RecordStorage) PutRecord(ctx context.Context, rec record.Record) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.mongo.Collection(recordsCollection).InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert record %s: %w", rec.Key, err)
	}
	s.log.Infof("record %s stored (%s)", rec.Key, rec.Name)
	return nil
}

func (s *RecordStorage) GetRecord(ctx context.Context, key string) (record.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rec record.Record
	err := s.mongo.Collection(recordsCollection).FindOne(ctx, bson.M{"key": key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, sgferrors.ErrRecordNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("find record %s: %w", key, err)
	}
	return rec, nil
}

// UpdateRecord replaces the SGF text and the derived counters of a record.
func (s *RecordStorage) UpdateRecord(ctx context.Context, rec record.Record) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"sgf":        rec.SGF,
			"nodes":      rec.Nodes,
			"height":     rec.Height,
			"leaves":     rec.Leaves,
			"updated_at": rec.UpdatedAt,
		},
	}
	res, err := s.mongo.Collection(recordsCollection).UpdateOne(ctx, bson.M{"key": rec.Key}, update, options.Update().SetUpsert(false))
	if err != nil {
		return fmt.Errorf("update record %s: %w", rec.Key, err)
	}
	if res.MatchedCount == 0 {
		return sgferrors.ErrRecordNotFound
	}
	return nil
}

func (s *RecordStorage) DeleteRecord(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.mongo.Collection(recordsCollection).DeleteOne(ctx, bson.M{"key": key})
	if err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	if res.DeletedCount == 0 {
		return sgferrors.ErrRecordNotFound
	}
	if err := s.redis.Del(ctx, cachePrefix+key).Err(); err != nil {
		s.log.Warnf("drop cached sgf %s: %v", key, err)
	}
	return nil
}

// ListRecords returns one page of records, newest first. chapter 0 lists
// every chapter.
func (s *RecordStorage) ListRecords(ctx context.Context, chapter int, pageNum int) (*record.ListResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if chapter > 0 {
		filter["chapter"] = chapter
	}
	collection := s.mongo.Collection(recordsCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	pageLimit := s.cfg.PageLimitRecords
	if pageLimit <= 0 {
		pageLimit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((pageNum - 1) * pageLimit)).
		SetLimit(int64(pageLimit)).
		SetProjection(bson.M{"sgf": 0})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]record.Record, 0, pageLimit)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	return &record.ListResponse{
		PageNum:    pageNum,
		TotalPages: (int(total) + pageLimit - 1) / pageLimit,
		Records:    records,
	}, nil
}

func (s *RecordStorage) SaveSGFToCache(ctx context.Context, key string, text string) error {
	return s.redis.Set(ctx, cachePrefix+key, text, s.cfg.CacheTTL).Err()
}

// LoadSGFFromCache reports false when key is not cached.
func (s *RecordStorage) LoadSGFFromCache(ctx context.Context, key string) (string, bool, error) {
	text, err := s.redis.Get(ctx, cachePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// WalkSgfFiles calls fn for every .sgf file below root, with the chapter
// number taken from the closest "Chapter N" directory (0 if none).
func (s *RecordStorage) WalkSgfFiles(root string, fn func(path string, chapter int, data []byte) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".sgf") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		chapter, _ := ExtractChapterIndex(path)
		return fn(path, chapter, data)
	})
}

// ExtractChapterIndex finds the innermost "Chapter N" directory of path.
func ExtractChapterIndex(path string) (int, bool) {
	dirs := strings.Split(filepath.ToSlash(filepath.Dir(path)), "/")
	for i := len(dirs) - 1; i >= 0; i-- {
		match := chapterPattern.FindStringSubmatch(dirs[i])
		if len(match) != 2 {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
