package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/edit"
	"github.com/ethanf/roam-research-mcp/internal/search"
	"github.com/ethanf/roam-research-mcp/internal/testutil"
)

func TestCall_UnknownOperation(t *testing.T) {
	svc := NewService(testutil.NewFakeStore())
	_, err := svc.Call(context.Background(), "roam_delete_everything", nil)
	if !apperr.IsKind(err, apperr.KindMethodNotFound) {
		t.Fatalf("err = %v, want MethodNotFound", err)
	}
}

func TestCall_NilArgs(t *testing.T) {
	svc := NewService(testutil.NewFakeStore())
	_, err := svc.Call(context.Background(), "roam_create_page", nil)
	if !apperr.IsKind(err, apperr.KindInvalidRequest) {
		t.Fatalf("err = %v, want InvalidRequest for missing title", err)
	}
}

func TestOperations_CoversRegisteredNames(t *testing.T) {
	svc := NewService(testutil.NewFakeStore())
	names := svc.Operations()
	if len(names) != 18 {
		t.Fatalf("got %d operations, want 18", len(names))
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"roam_create_page", "roam_datomic_query", "find_pages_modified_today"} {
		if !seen[want] {
			t.Errorf("missing operation %s", want)
		}
	}
}

func TestCreatePage_WithContent(t *testing.T) {
	fake := testutil.NewFakeStore()
	svc := NewService(fake)

	resp, err := svc.Call(context.Background(), "roam_create_page", map[string]any{
		"title":   "Project Plan",
		"content": "- goal\n  - detail",
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !resp.Success {
		t.Errorf("response = %+v", resp)
	}

	pageUID, exists := fake.Pages["Project Plan"]
	if !exists {
		t.Fatal("page was not created")
	}
	top := fake.ChildUIDs(pageUID)
	if len(top) != 1 || fake.Blocks[top[0]].Content != "goal" {
		t.Fatalf("top blocks = %v", top)
	}
	nested := fake.ChildUIDs(top[0])
	if len(nested) != 1 || fake.Blocks[nested[0]].Content != "detail" {
		t.Fatalf("nested blocks = %v", nested)
	}
}

func TestCreateBlock_FallsBackToDailyNote(t *testing.T) {
	fake := testutil.NewFakeStore()
	svc := NewService(fake)

	resp, err := svc.Call(context.Background(), "roam_create_block", map[string]any{
		"content": "quick thought",
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(fake.Pages) != 1 {
		t.Fatalf("pages = %v, want the daily note", fake.Pages)
	}
	data := resp.Data.(map[string]string)
	if fake.Blocks[data["block_uid"]].Content != "quick thought" {
		t.Errorf("block content = %q", fake.Blocks[data["block_uid"]].Content)
	}
}

func TestFetchPageByTitle_RendersTree(t *testing.T) {
	fake := testutil.NewFakeStore()
	fake.QueryFunc = func(query string, inputs ...any) ([][]any, error) {
		if strings.Contains(query, ":node/title ?title") {
			return [][]any{{"p1"}}, nil
		}
		// uid, string, order, parent-uid
		return [][]any{
			{"b2", "second", float64(1), "p1"},
			{"b1", "first", float64(0), "p1"},
			{"b1a", "nested", float64(0), "b1"},
		}, nil
	}
	svc := NewService(fake)

	resp, err := svc.Call(context.Background(), "roam_fetch_page_by_title", map[string]any{
		"title": "Notes",
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	want := "# Notes\n- first\n  - nested\n- second\n"
	if resp.Data != want {
		t.Errorf("rendered:\n%q\nwant:\n%q", resp.Data, want)
	}
}

func TestUpdateBlocks_MalformedItemKeepsAlignment(t *testing.T) {
	fake := testutil.NewFakeStore()
	fake.Blocks["b1"] = &testutil.FakeBlock{Content: "one"}
	fake.Blocks["b3"] = &testutil.FakeBlock{Content: "three"}
	svc := NewService(fake)

	resp, err := svc.Call(context.Background(), "roam_update_blocks", map[string]any{
		"updates": []any{
			map[string]any{"block_uid": "b1", "content": "ONE"},
			"not an object",
			map[string]any{"block_uid": "b3", "content": "THREE"},
		},
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if resp.Success {
		t.Error("batch with a malformed item must not report success")
	}

	batch := resp.Data.(*edit.BatchResult)
	if len(batch.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(batch.Results))
	}
	if !batch.Results[0].Success || batch.Results[1].Success || !batch.Results[2].Success {
		t.Errorf("results = %+v", batch.Results)
	}
	if fake.Blocks["b3"].Content != "THREE" {
		t.Error("later updates must run despite the malformed item")
	}
}

func TestSearchHierarchy_AcceptsPageScope(t *testing.T) {
	fake := testutil.NewFakeStore()
	fake.QueryFunc = func(query string, inputs ...any) ([][]any, error) {
		if strings.Contains(query, ":node/title ?title") {
			return [][]any{{"p1"}}, nil
		}
		return [][]any{
			{"in-scope", "child", float64(0), "p1", "Alpha"},
			{"off-page", "child", float64(1), "p2", "Beta"},
		}, nil
	}
	svc := NewService(fake)

	resp, err := svc.Call(context.Background(), "roam_search_hierarchy", map[string]any{
		"parent_uid":     "root",
		"page_title_uid": "Alpha",
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	matches := resp.Data.([]search.Match)
	if len(matches) != 1 || matches[0].UID != "in-scope" {
		t.Errorf("matches = %v, want only in-scope", matches)
	}
}

func TestDatomicQuery_Passthrough(t *testing.T) {
	fake := testutil.NewFakeStore()
	const raw = `[:find ?t :where [?p :node/title ?t]]`
	fake.QueryFunc = func(query string, inputs ...any) ([][]any, error) {
		if query != raw {
			t.Errorf("query = %q, want it passed through unmodified", query)
		}
		if len(inputs) != 1 || inputs[0] != "x" {
			t.Errorf("inputs = %v, want [x]", inputs)
		}
		return [][]any{{"Alpha"}, {"Beta"}}, nil
	}
	svc := NewService(fake)

	resp, err := svc.Call(context.Background(), "roam_datomic_query", map[string]any{
		"query":  raw,
		"inputs": []any{"x"},
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	rows := resp.Data.([][]any)
	if len(rows) != 2 {
		t.Errorf("rows = %v", rows)
	}
}

func TestRecall_ReturnsContents(t *testing.T) {
	fake := testutil.NewFakeStore()
	fake.QueryFunc = func(query string, inputs ...any) ([][]any, error) {
		if len(inputs) > 0 && inputs[0] == edit.MemoriesTag {
			return [][]any{
				{"m1", "prefers dark mode #[[LLM/Memories]]", "p1", "August 29th, 2026", ""},
			}, nil
		}
		return nil, nil
	}
	svc := NewService(fake)

	resp, err := svc.Call(context.Background(), "roam_recall", nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !resp.Success {
		t.Error("recall always reports success")
	}
	memories := resp.Data.([]string)
	if len(memories) != 1 || !strings.Contains(memories[0], "dark mode") {
		t.Errorf("memories = %v", memories)
	}
}

func TestRecall_EmptyIsStillSuccess(t *testing.T) {
	svc := NewService(testutil.NewFakeStore())
	resp, err := svc.Call(context.Background(), "roam_recall", nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !resp.Success {
		t.Error("empty recall still succeeds")
	}
	if memories := resp.Data.([]string); len(memories) != 0 {
		t.Errorf("memories = %v, want none", memories)
	}
}

func TestImportMarkdown_RequiresContent(t *testing.T) {
	svc := NewService(testutil.NewFakeStore())
	_, err := svc.Call(context.Background(), "roam_import_markdown", map[string]any{})
	if !apperr.IsKind(err, apperr.KindInvalidRequest) {
		t.Fatalf("err = %v, want InvalidRequest", err)
	}
}

func TestCreateOutline_BuildsUnderPage(t *testing.T) {
	fake := testutil.NewFakeStore()
	svc := NewService(fake)

	resp, err := svc.Call(context.Background(), "roam_create_outline", map[string]any{
		"page_title_uid": "Ideas",
		"outline": []any{
			map[string]any{"text": "theme", "level": float64(1)},
			map[string]any{"text": "idea", "level": float64(2)},
		},
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	data := resp.Data.(map[string]any)
	created := data["created_uids"].([]string)
	if len(created) != 2 {
		t.Fatalf("created = %v", created)
	}
	if fake.Blocks[created[1]].ParentUID != created[0] {
		t.Error("second item should nest under the first")
	}
}
