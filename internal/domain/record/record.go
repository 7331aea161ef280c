package record

import (
	"time"

	"sgfgrove/internal/domain/sgf"
)

// Record is a stored game collection in its canonical text form.
type Record struct {
	Key       string    `json:"key" bson:"key"`
	Name      string    `json:"name" bson:"name"`
	Chapter   int       `json:"chapter" bson:"chapter"`
	FF        int       `json:"ff" bson:"ff"`
	GM        int       `json:"gm" bson:"gm"`
	SGF       string    `json:"sgf" bson:"sgf"`
	Nodes     int       `json:"nodes" bson:"nodes"`
	Height    int       `json:"height" bson:"height"`
	Leaves    int       `json:"leaves" bson:"leaves"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Info summarises the first game tree of a collection.
type Info struct {
	Trees       int               `json:"trees" yaml:"trees"`
	FF          int               `json:"ff" yaml:"ff"`
	GM          int               `json:"gm" yaml:"gm"`
	Nodes       int               `json:"nodes" yaml:"nodes"`
	Height      int               `json:"height" yaml:"height"`
	Leaves      int               `json:"leaves" yaml:"leaves"`
	Moves       int               `json:"moves" yaml:"moves"`
	GameInfo    map[string]string `json:"game_info,omitempty" yaml:"game_info,omitempty"`
	Identifiers []string          `json:"identifiers" yaml:"identifiers"`
}

type Move struct {
	Color       string `json:"color"`
	Coordinates string `json:"coordinates"`
}

// MoveResponse is pushed to live subscribers after a move is stored.
type MoveResponse struct {
	Key  string `json:"key"`
	Move Move   `json:"move"`
	SGF  string `json:"sgf"`
}

type ImportRequest struct {
	Name    string `json:"name"`
	Chapter int    `json:"chapter"`
	SGF     string `json:"sgf"`
}

type ImportResponse struct {
	Key string `json:"key"`
}

type ListResponse struct {
	PageNum    int      `json:"page_num"`
	TotalPages int      `json:"total_pages"`
	Records    []Record `json:"records"`
}

// TextRequest carries raw SGF for the stateless endpoints.
type TextRequest struct {
	SGF string `json:"sgf"`
}

type TextResponse struct {
	SGF string `json:"sgf"`
}

// CollectionResponse carries a parsed collection.
type CollectionResponse struct {
	Collection sgf.Collection `json:"collection"`
}
