package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"wizkid-challenge/internal/catalog"
	"wizkid-challenge/internal/domain"
)

// CatalogLoader loads the question bank from the questions table, one JSONB document per row.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM questions ORDER BY subject, id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: questions table is empty", domain.ErrCatalogNotFound)
	}

	c := catalog.FromQuestions(questions)
	if err := catalog.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Seed upserts every question of c into the questions table in one batch.
func (l *CatalogLoader) Seed(ctx context.Context, c domain.Catalog) (int, error) {
	if err := catalog.Validate(c); err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, questions := range c {
		for _, q := range questions {
			raw, err := json.Marshal(q)
			if err != nil {
				return 0, fmt.Errorf("marshal question %s: %w", q.ID, err)
			}
			batch.Queue(`
				INSERT INTO questions (id, subject, data) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET subject = EXCLUDED.subject, data = EXCLUDED.data`,
				q.ID, string(q.Subject), raw)
		}
	}

	results := l.pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("seed questions: %w", err)
		}
	}
	return batch.Len(), nil
}
