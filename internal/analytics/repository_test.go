package analytics

import (
	"context"
	"testing"
	"time"
)

func TestRecordAndAggregate(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	ctx := context.Background()

	searches := []struct {
		query string
		count int
	}{
		{query: "nitrile gloves", count: 3},
		{query: "face mask", count: 2},
		{query: "syringe", count: 1},
	}
	for _, s := range searches {
		for i := 0; i < s.count; i++ {
			if err := repo.Record(ctx, s.query, 12, 85*time.Millisecond); err != nil {
				t.Fatalf("record %q: %v", s.query, err)
			}
		}
	}

	popular, err := repo.PopularQueries(ctx, 2)
	if err != nil {
		t.Fatalf("popular queries: %v", err)
	}
	if len(popular) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(popular))
	}
	if popular[0].Query != "nitrile gloves" || popular[0].Count != 3 {
		t.Fatalf("unexpected top query %+v", popular[0])
	}
	if popular[1].Query != "face mask" || popular[1].Count != 2 {
		t.Fatalf("unexpected second query %+v", popular[1])
	}

	history, err := repo.HistoryByQuery(ctx, "face mask", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	for _, row := range history {
		if row.Query != "face mask" {
			t.Fatalf("history row for wrong query: %+v", row)
		}
		if row.DurationMS != 85 {
			t.Fatalf("expected duration 85ms, got %d", row.DurationMS)
		}
		if row.UserID != nil || row.ClickedProductID != nil {
			t.Fatalf("expected anonymous row without click, got %+v", row)
		}
	}
}
