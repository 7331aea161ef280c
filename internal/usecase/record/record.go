package record

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"sgfgrove/internal/domain/record"
	"sgfgrove/internal/domain/sgf"
	sgferrors "sgfgrove/internal/errors"
	"sgfgrove/internal/sgf/gametree"
	"sgfgrove/internal/sgf/property"
	sgfuc "sgfgrove/internal/usecase/sgf"
)

type RecordStore interface {
	GenerateKey() string
	PutRecord(ctx context.Context, rec record.Record) error
	GetRecord(ctx context.Context, key string) (record.Record, error)
	UpdateRecord(ctx context.Context, rec record.Record) error
	DeleteRecord(ctx context.Context, key string) error
	ListRecords(ctx context.Context, chapter int, pageNum int) (*record.ListResponse, error)
	SaveSGFToCache(ctx context.Context, key string, text string) error
	LoadSGFFromCache(ctx context.Context, key string) (string, bool, error)
	WalkSgfFiles(root string, fn func(path string, chapter int, data []byte) error) error
}

type RecordUseCase struct {
	store RecordStore
	sgf   *sgfuc.SgfUseCase
	log   *zap.SugaredLogger
	now   func() time.Time

	// mu serialises read-modify-write cycles on stored SGF.
	mu sync.Mutex
}

func NewRecordUseCase(store RecordStore, converter *sgfuc.SgfUseCase, log *zap.SugaredLogger) *RecordUseCase {
	return &RecordUseCase{
		store: store,
		sgf:   converter,
		log:   log,
		now:   time.Now,
	}
}

// Import parses text, stores it in canonical form and returns the new key.
func (r *RecordUseCase) Import(ctx context.Context, req record.ImportRequest) (string, error) {
	c, err := r.sgf.Convert(req.SGF)
	if err != nil {
		return "", err
	}
	canonical, err := r.sgf.Render(c)
	if err != nil {
		return "", err
	}
	info, err := sgfuc.Summarize(c)
	if err != nil {
		return "", err
	}

	now := r.now().UTC()
	rec := record.Record{
		Key:       r.store.GenerateKey(),
		Name:      req.Name,
		Chapter:   req.Chapter,
		FF:        info.FF,
		GM:        info.GM,
		SGF:       canonical,
		Nodes:     info.Nodes,
		Height:    info.Height,
		Leaves:    info.Leaves,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.PutRecord(ctx, rec); err != nil {
		return "", fmt.Errorf("%w: %w", sgferrors.ErrRecordImportFail, err)
	}
	r.cache(ctx, rec.Key, canonical)
	return rec.Key, nil
}

// ImportDirectory imports every .sgf file below root. It stops at the first
// file that fails and returns the keys stored so far.
func (r *RecordUseCase) ImportDirectory(ctx context.Context, root string) ([]string, error) {
	var keys []string
	err := r.store.WalkSgfFiles(root, func(path string, chapter int, data []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		key, err := r.Import(ctx, record.ImportRequest{Name: name, Chapter: chapter, SGF: string(data)})
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return keys, err
	}
	r.log.Infof("imported %d records from %s", len(keys), root)
	return keys, nil
}

func (r *RecordUseCase) Get(ctx context.Context, key string) (record.Record, error) {
	return r.store.GetRecord(ctx, key)
}

func (r *RecordUseCase) List(ctx context.Context, chapter int, pageNum int) (*record.ListResponse, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	return r.store.ListRecords(ctx, chapter, pageNum)
}

func (r *RecordUseCase) Delete(ctx context.Context, key string) error {
	return r.store.DeleteRecord(ctx, key)
}

func (r *RecordUseCase) Info(ctx context.Context, key string) (record.Info, error) {
	text, err := r.loadSGF(ctx, key)
	if err != nil {
		return record.Info{}, err
	}
	return r.sgf.Info(text)
}

// AppendMove plays move at the end of the main line of the first game tree.
// Colors must alternate with the last move of that line.
func (r *RecordUseCase) AppendMove(ctx context.Context, key string, move record.Move) (record.MoveResponse, error) {
	if move.Color != "B" && move.Color != "W" {
		return record.MoveResponse{}, fmt.Errorf("%w: color %q", sgferrors.ErrInvalidMove, move.Color)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.store.GetRecord(ctx, key)
	if err != nil {
		return record.MoveResponse{}, err
	}
	text, err := r.loadSGF(ctx, key)
	if err != nil {
		return record.MoveResponse{}, err
	}
	c, err := r.sgf.Convert(text)
	if err != nil {
		return record.MoveResponse{}, err
	}

	root, err := gametree.FromGameTree(c[0])
	if err != nil {
		return record.MoveResponse{}, err
	}
	value, err := moveValue(root.Properties, move)
	if err != nil {
		return record.MoveResponse{}, err
	}

	cursor := gametree.NewCursor(root)
	lastColor := ""
	for {
		if color := moveColor(cursor.Current().Properties); color != "" {
			lastColor = color
		}
		if cursor.Current().IsLeaf() {
			break
		}
		cursor.Next()
	}
	if lastColor == move.Color {
		return record.MoveResponse{}, fmt.Errorf("%w: %s played last", sgferrors.ErrInvalidMove, move.Color)
	}
	if err := cursor.Current().Append(gametree.New(sgf.Node{move.Color: value})); err != nil {
		return record.MoveResponse{}, err
	}

	c[0] = root.GameTree()
	canonical, err := r.sgf.Render(c)
	if err != nil {
		return record.MoveResponse{}, fmt.Errorf("%w: %w", sgferrors.ErrInvalidMove, err)
	}

	rec.SGF = canonical
	rec.Nodes++
	rec.Height = root.Height()
	rec.Leaves = root.LeafCount()
	rec.UpdatedAt = r.now().UTC()
	if err := r.store.UpdateRecord(ctx, rec); err != nil {
		return record.MoveResponse{}, err
	}
	r.cache(ctx, key, canonical)

	return record.MoveResponse{Key: key, Move: move, SGF: canonical}, nil
}

// loadSGF prefers the cache and warms it on a miss.
func (r *RecordUseCase) loadSGF(ctx context.Context, key string) (string, error) {
	text, ok, err := r.store.LoadSGFFromCache(ctx, key)
	if err != nil {
		r.log.Warnf("cache lookup %s: %v", key, err)
	}
	if ok {
		return text, nil
	}
	rec, err := r.store.GetRecord(ctx, key)
	if err != nil {
		return "", err
	}
	r.cache(ctx, key, rec.SGF)
	return rec.SGF, nil
}

func (r *RecordUseCase) cache(ctx context.Context, key, text string) {
	if err := r.store.SaveSGFToCache(ctx, key, text); err != nil {
		r.log.Warnf("cache sgf %s: %v", key, err)
	}
}

func moveColor(n sgf.Node) string {
	if _, ok := n["B"]; ok {
		return "B"
	}
	if _, ok := n["W"]; ok {
		return "W"
	}
	return ""
}

// moveValue types the coordinates of move with the table of the tree. An
// empty coordinate is a pass. Go moves must also lie on the board.
func moveValue(root sgf.Node, move record.Move) (any, error) {
	ff, _ := root["FF"].(int)
	if ff == 0 {
		ff = 1
	}
	gm, _ := root["GM"].(int)
	if gm == 0 {
		gm = 1
	}
	table, err := property.Resolve(ff, gm)
	if err != nil {
		return nil, err
	}

	raw := move.Coordinates
	if raw == "" && ff < 4 && table.GM() == 1 {
		raw = "tt"
	}
	value, err := table.Type(move.Color).Parse([]string{raw})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sgferrors.ErrInvalidMove, err)
	}

	point, isPoint := value.(string)
	if table.GM() != 1 || !isPoint {
		return value, nil
	}
	cols, rows := boardSize(root["SZ"])
	x, y := property.Coordinate(point[0]), property.Coordinate(point[1])
	if x >= cols || y >= rows {
		return nil, fmt.Errorf("%w: %s is off a %dx%d board", sgferrors.ErrInvalidMove, point, cols, rows)
	}
	return value, nil
}

func boardSize(v any) (int, int) {
	switch sz := v.(type) {
	case int:
		return sz, sz
	case []any:
		if len(sz) == 2 {
			cols, _ := sz[0].(int)
			rows, _ := sz[1].(int)
			if cols > 0 && rows > 0 {
				return cols, rows
			}
		}
	}
	return 19, 19
}
