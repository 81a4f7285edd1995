package edit

import (
	"context"
	"fmt"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

// Placement hints for where a new top-level run of blocks goes among the
// anchor's existing children. Deeper levels always append under their
// parent, which was itself just created.
const (
	OrderFirst = "first"
	OrderLast  = "last"
)

// Item is one outline entry. Level encodes nesting depth relative to the
// first item; level 1 is top.
type Item struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Import creates the outline as a block tree under anchorUID, returning the
// created UIDs in input order.
//
// The ancestor chain is kept as a stack of (level, uid): each item pops
// until the top is shallower than itself, then attaches there. A level jump
// greater than +1 is accepted as if the intermediate levels were skipped.
//
// Unlike block-update batches, a failed create aborts the remaining items:
// later parents depend on earlier creates having succeeded. Already-created
// blocks stay in place.
func (e *Engine) Import(ctx context.Context, anchorUID string, items []Item, order string) ([]string, error) {
	if anchorUID == "" {
		return nil, apperr.InvalidRequest("anchor is required")
	}
	if len(items) == 0 {
		return nil, apperr.InvalidRequest("outline must not be empty")
	}
	if order == "" {
		order = OrderFirst
	}
	if order != OrderFirst && order != OrderLast {
		return nil, apperr.InvalidRequest("order must be %q or %q", OrderFirst, OrderLast)
	}
	for i, item := range items {
		if item.Level < 1 {
			return nil, apperr.InvalidRequest("outline item %d has level %d; levels start at 1", i, item.Level)
		}
		if item.Text == "" {
			return nil, apperr.InvalidRequest("outline item %d has empty text", i)
		}
	}

	type frame struct {
		level int
		uid   string
	}
	var stack []frame
	var created []string
	topLevelCount := 0

	for i, item := range items {
		for len(stack) > 0 && stack[len(stack)-1].level >= item.Level {
			stack = stack[:len(stack)-1]
		}

		parent := anchorUID
		position := store.OrderLast
		if len(stack) > 0 {
			parent = stack[len(stack)-1].uid
		} else if order == OrderFirst {
			// Keep the run's input order while placing it at the top.
			position = topLevelCount
		}

		uid, err := e.store.CreateBlock(ctx, parent, item.Text, position)
		if err != nil {
			return created, fmt.Errorf("outline item %d (%q): %w", i, item.Text, err)
		}
		created = append(created, uid)
		if len(stack) == 0 {
			topLevelCount++
		}
		stack = append(stack, frame{level: item.Level, uid: uid})
	}

	return created, nil
}

// ImportUnder resolves an anchor (page by title or UID, optionally a parent
// block by text or UID within it) and imports the outline there. A missing
// page is created; a named parent block must already exist.
func (e *Engine) ImportUnder(ctx context.Context, pageTitleOrUID, blockTextOrUID string, items []Item, order string) ([]string, error) {
	if pageTitleOrUID == "" && blockTextOrUID == "" {
		return nil, apperr.InvalidRequest("either page_title_uid or block_text_uid is required")
	}

	anchor := ""
	if pageTitleOrUID != "" {
		pageUID, err := e.resolver.PageUIDOrCreate(ctx, pageTitleOrUID)
		if err != nil {
			return nil, err
		}
		anchor = pageUID
	}
	if blockTextOrUID != "" {
		blockUID, err := e.resolver.BlockUID(ctx, blockTextOrUID, anchor)
		if err != nil {
			return nil, err
		}
		anchor = blockUID
	}

	return e.Import(ctx, anchor, items, order)
}
