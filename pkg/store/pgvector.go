package store

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/xhad/kbase/internal/models"
)

// ErrInvalidContent is returned by Upsert for content that is not valid
// UTF-8. Content is the conflict key and is stored unchanged.
var ErrInvalidContent = errors.New("content is not valid UTF-8")

type VectorStoreConfig struct {
	ConnString string
	// ServiceKey is the service role credential; it replaces any password
	// in ConnString.
	ServiceKey  string
	TableName   string
	VectorDim   int
	SearchLimit int
}

// VectorStore keeps knowledge base rows in a pgvector table. Content is
// the conflict key.
type VectorStore struct {
	config VectorStoreConfig
	pool   *pgxpool.Pool
	table  string
}

// Connect opens a pool with the service credential applied.
func Connect(ctx context.Context, connString, serviceKey string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if serviceKey != "" {
		poolConfig.ConnConfig.Password = serviceKey
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

func NewWithConfig(ctx context.Context, config VectorStoreConfig) (*VectorStore, error) {
	pool, err := Connect(ctx, config.ConnString, config.ServiceKey)
	if err != nil {
		return nil, err
	}

	vs, err := NewWithPool(ctx, pool, config)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return vs, nil
}

// NewWithPool uses an existing pool and makes sure the table exists.
func NewWithPool(ctx context.Context, pool *pgxpool.Pool, config VectorStoreConfig) (*VectorStore, error) {
	if config.TableName == "" {
		config.TableName = "knowledge_base"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 384 // all-MiniLM-L6-v2
	}
	if config.SearchLimit == 0 {
		config.SearchLimit = 3
	}

	vs := &VectorStore{
		config: config,
		pool:   pool,
		table:  pgx.Identifier{config.TableName}.Sanitize(),
	}

	if err := vs.initialize(ctx); err != nil {
		return nil, err
	}

	return vs, nil
}

func (vs *VectorStore) initialize(ctx context.Context) error {
	// Enable pgvector extension
	_, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			content TEXT NOT NULL UNIQUE,
			embedding vector(%d),
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb
		)`, vs.table, vs.config.VectorDim)

	_, err = vs.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// Pool exposes the connection pool so table readers can share it.
func (vs *VectorStore) Pool() *pgxpool.Pool {
	return vs.pool
}

// Upsert inserts the record, or replaces the embedding and metadata of the
// row with identical content.
func (vs *VectorStore) Upsert(ctx context.Context, record models.Record) error {
	if !utf8.ValidString(record.Content) {
		return ErrInvalidContent
	}
	if len(record.Embedding) != vs.config.VectorDim {
		return fmt.Errorf("embedding has %d dimensions, table expects %d", len(record.Embedding), vs.config.VectorDim)
	}

	metadata := map[string]interface{}(record.Metadata)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (content, embedding, metadata)
		VALUES ($1, $2, $3)
		ON CONFLICT (content) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata`,
		vs.table)

	_, err := vs.pool.Exec(ctx, stmt,
		record.Content,
		pgvector.NewVector(record.Embedding),
		metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

// List returns every stored row in insertion order.
func (vs *VectorStore) List(ctx context.Context) ([]models.Row, error) {
	query := fmt.Sprintf(`SELECT content, metadata FROM %s ORDER BY id`, vs.table)

	rows, err := vs.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge base: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Row, error) {
		var r models.Row
		err := row.Scan(&r.Content, &r.Metadata)
		return r, err
	})
}

// Match returns the rows closest to the embedding by cosine distance.
func (vs *VectorStore) Match(ctx context.Context, embedding []float32, limit int) ([]models.Match, error) {
	if limit <= 0 {
		limit = vs.config.SearchLimit
	}

	query := fmt.Sprintf(`
		SELECT content, metadata, 1 - (embedding <=> $1) AS similarity
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`,
		vs.table)

	rows, err := vs.pool.Query(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Match, error) {
		var m models.Match
		err := row.Scan(&m.Content, &m.Metadata, &m.Similarity)
		return m, err
	})
}

// Count returns the number of stored rows.
func (vs *VectorStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := vs.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, vs.table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

func (vs *VectorStore) Close() {
	if vs.pool != nil {
		vs.pool.Close()
	}
}
