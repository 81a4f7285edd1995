package resolve

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/testutil"
)

func TestPageUID_ByTitle(t *testing.T) {
	fake := testutil.NewFakeStore()
	fake.QueryFunc = func(query string, inputs ...any) ([][]any, error) {
		if strings.Contains(query, ":node/title ?title") && inputs[0] == "Projects" {
			return [][]any{{"page-1"}}, nil
		}
		return nil, nil
	}

	r := New(fake)
	uid, err := r.PageUID(context.Background(), "Projects")
	if err != nil {
		t.Fatalf("PageUID: %v", err)
	}
	if uid != "page-1" {
		t.Errorf("uid = %q, want page-1", uid)
	}
}

func TestPageUID_ByUIDFallback(t *testing.T) {
	fake := testutil.NewFakeStore()
	fake.QueryFunc = func(query string, inputs ...any) ([][]any, error) {
		// No page has this title, but a page with this UID exists.
		if strings.Contains(query, ":in $ ?uid") && inputs[0] == "abc123xyz" {
			return [][]any{{"abc123xyz"}}, nil
		}
		return nil, nil
	}

	r := New(fake)
	uid, err := r.PageUID(context.Background(), "abc123xyz")
	if err != nil {
		t.Fatalf("PageUID: %v", err)
	}
	if uid != "abc123xyz" {
		t.Errorf("uid = %q, want abc123xyz", uid)
	}
}

func TestPageUID_NotFound(t *testing.T) {
	r := New(testutil.NewFakeStore())
	_, err := r.PageUID(context.Background(), "Nope")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestPageUID_EmptyRef(t *testing.T) {
	r := New(testutil.NewFakeStore())
	_, err := r.PageUID(context.Background(), "")
	if !apperr.IsKind(err, apperr.KindInvalidRequest) {
		t.Fatalf("err = %v, want InvalidRequest", err)
	}
}

func TestPageUIDOrCreate_Idempotent(t *testing.T) {
	fake := testutil.NewFakeStore()
	// Title lookups consult the fake's page table, so a created page
	// resolves on the second call.
	fake.QueryFunc = func(query string, inputs ...any) ([][]any, error) {
		if !strings.Contains(query, ":node/title ?title") {
			return nil, nil
		}
		title, _ := inputs[0].(string)
		if uid, exists := fake.Pages[title]; exists {
			return [][]any{{uid}}, nil
		}
		return nil, nil
	}

	r := New(fake)
	first, err := r.PageUIDOrCreate(context.Background(), "Fresh Page")
	if err != nil {
		t.Fatalf("first resolution: %v", err)
	}
	if first == "" {
		t.Fatal("first resolution returned empty uid")
	}

	second, err := r.PageUIDOrCreate(context.Background(), "Fresh Page")
	if err != nil {
		t.Fatalf("second resolution: %v", err)
	}
	if second != first {
		t.Errorf("second resolution = %q, want %q (same page)", second, first)
	}
}

func TestBlockUID_FirstMatchByOrder(t *testing.T) {
	fake := testutil.NewFakeStore()
	fake.QueryFunc = func(query string, inputs ...any) ([][]any, error) {
		if strings.Contains(query, ":block/string ?text") {
			// Deliberately out of order; resolution must pick order 0.
			return [][]any{
				{"blk-late", float64(3)},
				{"blk-first", float64(0)},
				{"blk-mid", float64(1)},
			}, nil
		}
		return nil, nil
	}

	r := New(fake)
	uid, err := r.BlockUID(context.Background(), "duplicated text", "")
	if err != nil {
		t.Fatalf("BlockUID: %v", err)
	}
	if uid != "blk-first" {
		t.Errorf("uid = %q, want blk-first (lowest order wins)", uid)
	}
}

func TestBlockUID_UIDPreferred(t *testing.T) {
	fake := testutil.NewFakeStore()
	fake.QueryFunc = func(query string, inputs ...any) ([][]any, error) {
		if strings.Contains(query, ":in $ ?uid") {
			return [][]any{{"blk-9"}}, nil
		}
		t.Errorf("unexpected text lookup after UID matched: %s", query)
		return nil, nil
	}

	r := New(fake)
	uid, err := r.BlockUID(context.Background(), "blk-9", "")
	if err != nil {
		t.Fatalf("BlockUID: %v", err)
	}
	if uid != "blk-9" {
		t.Errorf("uid = %q, want blk-9", uid)
	}
}

func TestBlockUID_NotFound(t *testing.T) {
	r := New(testutil.NewFakeStore())
	_, err := r.BlockUID(context.Background(), "no such block", "")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestDailyPageUID_CreatesToday(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	fake := testutil.NewFakeStore()
	r := New(fake)
	uid, err := r.DailyPageUID(context.Background())
	if err != nil {
		t.Fatalf("DailyPageUID: %v", err)
	}
	if uid == "" {
		t.Fatal("empty uid")
	}
	if _, exists := fake.Pages["March 3rd, 2024"]; !exists {
		t.Errorf("daily page not created, pages = %v", fake.Pages)
	}
}
