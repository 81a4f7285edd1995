package search

import (
	"context"
	"testing"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/resolve"
	"github.com/ethanf/roam-research-mcp/internal/testutil"
)

func newTestDispatcher(fake *testutil.FakeStore) *Dispatcher {
	return NewDispatcher(fake, resolve.New(fake))
}

// taggedRow builds a row in the taggedBlocksQuery shape.
func taggedRow(uid, content, pageUID, pageTitle, parentUID string) []any {
	return []any{uid, content, pageUID, pageTitle, parentUID}
}

func tagFixture() map[string][][]any {
	// Page p1 layout:
	//   blk-parent
	//     blk-a  #projectA #urgent
	//     blk-b  #projectA
	//   blk-c    #projectA (parent blk-other)
	return map[string][][]any{
		"projectA": {
			taggedRow("blk-a", "task one #projectA #urgent", "p1", "Page One", "blk-parent"),
			taggedRow("blk-b", "task two #projectA", "p1", "Page One", "blk-parent"),
			taggedRow("blk-c", "task three #projectA", "p1", "Page One", "blk-other"),
		},
		"urgent": {
			taggedRow("blk-a", "task one #projectA #urgent", "p1", "Page One", "blk-parent"),
		},
	}
}

func TestTagSearch_RequiresPrimaryTag(t *testing.T) {
	d := newTestDispatcher(testutil.NewFakeStore())
	_, err := d.Execute(context.Background(), TagSearch{})
	if !apperr.IsKind(err, apperr.KindInvalidRequest) {
		t.Fatalf("err = %v, want InvalidRequest", err)
	}
}

func TestTagSearch_PlainTag(t *testing.T) {
	fake := testutil.NewFakeStore()
	fixture := tagFixture()
	fake.QueryFunc = func(_ string, inputs ...any) ([][]any, error) {
		tag, _ := inputs[0].(string)
		return fixture[tag], nil
	}

	d := newTestDispatcher(fake)
	result, err := d.Execute(context.Background(), TagSearch{PrimaryTag: "projectA"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if len(result.Matches) != 3 {
		t.Fatalf("matches = %d, want 3", len(result.Matches))
	}
}

func TestTagSearch_NearTagOnlyNarrows(t *testing.T) {
	fake := testutil.NewFakeStore()
	fixture := tagFixture()
	fake.QueryFunc = func(_ string, inputs ...any) ([][]any, error) {
		tag, _ := inputs[0].(string)
		return fixture[tag], nil
	}

	d := newTestDispatcher(fake)
	plain, err := d.Execute(context.Background(), TagSearch{PrimaryTag: "projectA"})
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	near, err := d.Execute(context.Background(), TagSearch{PrimaryTag: "projectA", NearTag: "urgent"})
	if err != nil {
		t.Fatalf("near: %v", err)
	}

	if len(near.Matches) > len(plain.Matches) {
		t.Errorf("near_tag grew the result set: %d > %d", len(near.Matches), len(plain.Matches))
	}
	// blk-a carries both tags; blk-b is its sibling. blk-c is neither near
	// nor related and must be filtered out.
	got := map[string]bool{}
	for _, m := range near.Matches {
		got[m.UID] = true
	}
	if !got["blk-a"] || !got["blk-b"] || got["blk-c"] {
		t.Errorf("near matches = %v, want blk-a and blk-b only", got)
	}
}

func TestTagSearch_NoMatchesIsCleanMiss(t *testing.T) {
	d := newTestDispatcher(testutil.NewFakeStore())
	result, err := d.Execute(context.Background(), TagSearch{PrimaryTag: "ghost"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Success {
		t.Error("no matches should not claim success")
	}
	if result.Matches == nil || len(result.Matches) != 0 {
		t.Errorf("matches = %v, want empty non-nil slice", result.Matches)
	}
}

func TestFilterNear(t *testing.T) {
	candidates := []block{
		{uid: "same", parentUID: "p"},
		{uid: "sibling", parentUID: "shared"},
		{uid: "parent-of-near", parentUID: "p"},
		{uid: "child-of-near", parentUID: "near-1"},
		{uid: "far", parentUID: "elsewhere"},
	}
	near := []block{
		{uid: "same", parentUID: "p"},
		{uid: "near-1", parentUID: "shared"},
		{uid: "near-2", parentUID: "parent-of-near"},
	}

	kept := filterNear(candidates, near)
	got := map[string]bool{}
	for _, b := range kept {
		got[b.uid] = true
	}

	for _, want := range []string{"same", "sibling", "parent-of-near", "child-of-near"} {
		if !got[want] {
			t.Errorf("%s missing from filtered set", want)
		}
	}
	if got["far"] {
		t.Error("far should be filtered out")
	}
}
