package sgf

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"sgfgrove/internal/domain/record"
	"sgfgrove/internal/domain/sgf"
	"sgfgrove/internal/metrics"
	"sgfgrove/internal/sgf/gametree"
	"sgfgrove/internal/sgf/parser"
	"sgfgrove/internal/sgf/serializer"
)

// gameInfoIdents are the root properties copied into Info.GameInfo.
var gameInfoIdents = []string{
	"GN", "PB", "PW", "BR", "WR", "BT", "WT", "DT", "EV", "RO", "PC", "RE", "RU", "SO", "US", "AN", "CP", "ON", "OT",
}

// SgfUseCase converts between SGF text and collections without storage.
type SgfUseCase struct {
	log    *zap.SugaredLogger
	parser parser.Parser
}

func NewSgfUseCase(log *zap.SugaredLogger, collapse bool) *SgfUseCase {
	return &SgfUseCase{
		log:    log,
		parser: parser.Parser{CollapseVariations: collapse},
	}
}

func (s *SgfUseCase) Convert(text string) (sgf.Collection, error) {
	metrics.ObserveInput(len(text))
	start := time.Now()
	c, err := s.parser.Parse(text)
	metrics.Observe(metrics.OpParse, start, err)
	if err != nil {
		s.log.Debugf("parse failed: %v", err)
		return nil, err
	}
	return c, nil
}

func (s *SgfUseCase) Render(c sgf.Collection) (string, error) {
	start := time.Now()
	text, err := serializer.Stringify(c)
	metrics.Observe(metrics.OpStringify, start, err)
	if err != nil {
		s.log.Debugf("stringify failed: %v", err)
		return "", err
	}
	return text, nil
}

// Normalize rewrites text in canonical form: collapsed variations, fixed
// property order, minimal escapes.
func (s *SgfUseCase) Normalize(text string) (string, error) {
	start := time.Now()
	c, err := s.Convert(text)
	if err == nil {
		text, err = s.Render(c)
	}
	metrics.Observe(metrics.OpNormalize, start, err)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (s *SgfUseCase) Info(text string) (record.Info, error) {
	c, err := s.Convert(text)
	if err != nil {
		return record.Info{}, err
	}
	return Summarize(c)
}

// Summarize describes the first game tree of c.
func Summarize(c sgf.Collection) (record.Info, error) {
	info := record.Info{Trees: len(c)}
	if len(c) == 0 {
		return info, nil
	}
	root, err := gametree.FromGameTree(c[0])
	if err != nil {
		return info, err
	}

	props := root.Properties
	info.FF = intProperty(props, "FF", 1)
	info.GM = intProperty(props, "GM", 1)
	info.Height = root.Height()
	info.Leaves = root.LeafCount()

	seen := make(map[string]struct{})
	root.Walk(func(n *gametree.Node) bool {
		info.Nodes++
		if _, ok := n.Properties["B"]; ok {
			info.Moves++
		} else if _, ok := n.Properties["W"]; ok {
			info.Moves++
		}
		for ident := range n.Properties {
			seen[ident] = struct{}{}
		}
		return true
	})
	info.Identifiers = make([]string, 0, len(seen))
	for ident := range seen {
		info.Identifiers = append(info.Identifiers, ident)
	}
	sort.Strings(info.Identifiers)

	for _, ident := range gameInfoIdents {
		if v, ok := props[ident].(string); ok {
			if info.GameInfo == nil {
				info.GameInfo = make(map[string]string)
			}
			info.GameInfo[ident] = v
		}
	}
	return info, nil
}

func intProperty(n sgf.Node, ident string, def int) int {
	if v, ok := n[ident].(int); ok {
		return v
	}
	return def
}
