package core

import (
	"context"
	"fmt"
)

const (
	MetaSource     = "source"
	MetaChunkIndex = "chunk_index"
)

// Record is one stored document with flat metadata.
type Record struct {
	ID       string         `json:"id"`
	Document string         `json:"document"`
	Metadata map[string]any `json:"metadata"`
}

// Hit is a Record returned by a nearest-neighbour query. Lower Distance is closer.
type Hit struct {
	Record
	Distance float64 `json:"distance"`
}

// Source returns the "source" metadata value, or "Unknown".
func (r Record) Source() string {
	if s, ok := r.Metadata[MetaSource].(string); ok && s != "" {
		return s
	}
	return "Unknown"
}

// ChunkIndex returns the "chunk_index" metadata value as text, or "N/A".
func (r Record) ChunkIndex() string {
	v, ok := r.Metadata[MetaChunkIndex]
	if !ok || v == nil {
		return "N/A"
	}
	return fmt.Sprint(v)
}

// Collection is a named set of embedded records. Add overwrites records whose
// ID already exists. Query returns at most n hits ordered by ascending distance.
type Collection interface {
	Add(ctx context.Context, records ...Record) error
	Query(ctx context.Context, text string, n int) ([]Hit, error)
	Get(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int, error)
}
