package memory

import (
	"context"
	"testing"
	"time"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/catalog"
	"wizkid-challenge/internal/domain"
)

func TestDailyRepositoryCaches(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(catalog.Builtin())}
	repo := NewDailyRepository(loader, app.DefaultSelector(), time.Minute)
	day := domain.Day{Year: 2025, Month: time.March, Day: 10}

	first, err := repo.GetDaily(context.Background(), day)
	if err != nil {
		t.Fatalf("get daily: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	second, err := repo.GetDaily(context.Background(), day)
	if err != nil {
		t.Fatalf("get daily 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(first.Flatten()) != 9 || first.Flatten()[0].ID != second.Flatten()[0].ID {
		t.Fatalf("expected identical cached set, got %+v vs %+v", first, second)
	}

	if _, err := repo.GetDaily(context.Background(), day.AddDays(1)); err != nil {
		t.Fatalf("get next day: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected a new day to load again, loader calls %d", loader.calls)
	}
}

func TestDailyRepositoryExpires(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(catalog.Builtin())}
	repo := NewDailyRepository(loader, app.DefaultSelector(), time.Minute)
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }
	day := domain.DayOf(now)

	if _, err := repo.GetDaily(context.Background(), day); err != nil {
		t.Fatalf("get daily: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetDaily(context.Background(), day); err != nil {
		t.Fatalf("get daily after ttl: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderEmpty(t *testing.T) {
	if _, err := NewStaticCatalogLoader(nil).LoadCatalog(context.Background()); err != domain.ErrCatalogNotFound {
		t.Fatalf("expected catalog not found, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}
