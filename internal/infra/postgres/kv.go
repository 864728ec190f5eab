package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

type kvRow struct {
	bun.BaseModel `bun:"table:progress,alias:p"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,type:jsonb,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// KV stores progress documents in the progress table through bun.
type KV struct {
	db *bun.DB
}

func NewKV(db *bun.DB) *KV {
	return &KV{db: db}
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row kvRow
	err := s.db.NewSelect().Model(&row).Where("key = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(row.Value), true, nil
}

func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	row := kvRow{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
