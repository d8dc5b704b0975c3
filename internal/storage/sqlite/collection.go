package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/sandevgo/studybuddy/internal/core"
)

var (
	ErrEmptyEmbedding    = errors.New("embedder returned an empty vector")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Collection is a named vector collection stored in the records table.
// Similarity search is a full scan ranked by squared L2 distance between
// unit-normalised embeddings.
type Collection struct {
	db       *sql.DB
	name     string
	embedder core.Embedder
}

func NewCollection(db *sql.DB, name string, embedder core.Embedder) *Collection {
	return &Collection{db: db, name: name, embedder: embedder}
}

func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) Add(ctx context.Context, records ...core.Record) error {
	if len(records) == 0 {
		return nil
	}

	type row struct {
		rec  core.Record
		meta []byte
		vec  []byte
		dim  int
	}

	// Embed everything first; the transaction only covers the writes.
	rows := make([]row, 0, len(records))
	for _, rec := range records {
		emb, err := c.embed(ctx, rec.Document)
		if err != nil {
			return fmt.Errorf("embed record %q: %w", rec.ID, err)
		}
		blob, err := serializeVector(emb)
		if err != nil {
			return err
		}
		meta := rec.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal metadata for %q: %w", rec.ID, err)
		}
		rows = append(rows, row{rec: rec, meta: metaJSON, vec: blob, dim: len(emb)})
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, document, metadata, embedding, dim)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			document   = excluded.document,
			metadata   = excluded.metadata,
			embedding  = excluded.embedding,
			dim        = excluded.dim,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, c.name, r.rec.ID, r.rec.Document, string(r.meta), r.vec, r.dim); err != nil {
			return fmt.Errorf("failed to insert record %q: %w", r.rec.ID, err)
		}
	}

	return tx.Commit()
}

func (c *Collection) Query(ctx context.Context, text string, n int) ([]core.Hit, error) {
	if n <= 0 {
		return nil, nil
	}

	query, err := c.embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT id, document, metadata, embedding FROM records WHERE collection = ? ORDER BY seq`,
		c.name,
	)
	if err != nil {
		return nil, fmt.Errorf("%s search failed: %w", c.name, err)
	}
	defer rows.Close()

	var hits []core.Hit
	for rows.Next() {
		var (
			hit  core.Hit
			meta string
			blob []byte
		)
		if err := rows.Scan(&hit.ID, &hit.Document, &meta, &blob); err != nil {
			return nil, err
		}
		vec, err := deserializeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", hit.ID, err)
		}
		if len(vec) != len(query) {
			return nil, fmt.Errorf("record %q has %d dims, query has %d: %w", hit.ID, len(vec), len(query), ErrDimensionMismatch)
		}
		if hit.Metadata, err = decodeMetadata(meta); err != nil {
			return nil, fmt.Errorf("record %q: %w", hit.ID, err)
		}
		hit.Distance = squaredL2(query, vec)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	return hits, nil
}

// Get returns every record in insertion order.
func (c *Collection) Get(ctx context.Context) ([]core.Record, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, document, metadata FROM records WHERE collection = ? ORDER BY seq`,
		c.name,
	)
	if err != nil {
		return nil, fmt.Errorf("%s get failed: %w", c.name, err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			rec  core.Record
			meta string
		)
		if err := rows.Scan(&rec.ID, &rec.Document, &meta); err != nil {
			return nil, err
		}
		if rec.Metadata, err = decodeMetadata(meta); err != nil {
			return nil, fmt.Errorf("record %q: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (c *Collection) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE collection = ?`, c.name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s count failed: %w", c.name, err)
	}
	return n, nil
}

// DeleteBySource removes every record whose metadata "source" equals source.
func (c *Collection) DeleteBySource(ctx context.Context, source string) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND json_extract(metadata, '$.source') = ?`,
		c.name, source,
	)
	if err != nil {
		return 0, fmt.Errorf("delete %s records for %q: %w", c.name, source, err)
	}
	return res.RowsAffected()
}

func (c *Collection) embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return normalize(vec), nil
}

func decodeMetadata(raw string) (map[string]any, error) {
	meta := map[string]any{}
	if raw == "" {
		return meta, nil
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return meta, nil
}
