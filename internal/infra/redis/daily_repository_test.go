package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/catalog"
	"wizkid-challenge/internal/domain"
	"wizkid-challenge/internal/infra/memory"
)

func TestDailyRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		CatalogLoader: memory.NewStaticCatalogLoader(catalog.Builtin()),
	}
	repo := NewDailyRepository(client, loader, app.DefaultSelector(), time.Hour, zerolog.Nop())
	day := domain.Day{Year: 2025, Month: time.March, Day: 10}

	first, err := repo.GetDaily(context.Background(), day)
	if err != nil {
		t.Fatalf("get daily: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("wizkid:daily:2025-03-10") {
		t.Fatalf("expected redis key to be set")
	}

	// Second call should hit cache, loader not incremented.
	second, err := repo.GetDaily(context.Background(), day)
	if err != nil {
		t.Fatalf("get daily 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	a, b := first.Flatten(), second.Flatten()
	if len(a) != len(b) {
		t.Fatalf("cached set size mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].CorrectIndex != b[i].CorrectIndex {
			t.Fatalf("cached set differs at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
	if second.Date != day {
		t.Fatalf("expected cached date %s, got %s", day, second.Date)
	}
}

func TestDailyRepositoryFallsBackWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	repo := NewDailyRepository(client, memory.NewStaticCatalogLoader(catalog.Builtin()), app.DefaultSelector(), time.Hour, zerolog.Nop())
	set, err := repo.GetDaily(context.Background(), domain.Day{Year: 2025, Month: time.March, Day: 10})
	if err != nil {
		t.Fatalf("expected selection without cache, got %v", err)
	}
	if len(set.Flatten()) != 9 {
		t.Fatalf("expected 9 questions, got %d", len(set.Flatten()))
	}
}

type countingLoader struct {
	memory.CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
