package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mirrorloop/mirrorloop/internal/schema"
)

// Postgres is the durable CaseStore backend, selected when DATABASE_URL is
// configured.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cases (
			case_id    TEXT PRIMARY KEY,
			result     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("ensure cases table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) Put(ctx context.Context, caseID string, result schema.ApiResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal case: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO cases (case_id, result) VALUES ($1, $2)
		ON CONFLICT (case_id) DO UPDATE SET result = EXCLUDED.result`,
		caseID, body)
	if err != nil {
		return fmt.Errorf("store case %s: %w", caseID, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, caseID string) (*schema.ApiResult, error) {
	var body []byte
	err := p.pool.QueryRow(ctx, `SELECT result FROM cases WHERE case_id = $1`, caseID).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load case %s: %w", caseID, err)
	}

	var result schema.ApiResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal case %s: %w", caseID, err)
	}
	return &result, nil
}

func (p *Postgres) NewCaseID() string {
	return NewCaseID()
}
