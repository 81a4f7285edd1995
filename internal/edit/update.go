// Package edit applies content mutations to the graph: single and batched
// block updates, outline imports, and daily-note conveniences built on them.
package edit

import (
	"context"
	"regexp"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/resolve"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

// Engine applies mutations through the Store.
type Engine struct {
	store    store.Store
	resolver *resolve.Resolver
}

// NewEngine creates a mutation Engine.
func NewEngine(st store.Store, res *resolve.Resolver) *Engine {
	return &Engine{store: st, resolver: res}
}

// Transform describes a find/replace rewrite of a block's content. Find is
// compiled as a regular expression; Global controls whether all occurrences
// are replaced or only the first.
type Transform struct {
	Find    string `json:"find"`
	Replace string `json:"replace"`
	Global  bool   `json:"global"`
}

// BlockUpdate is one requested change: either literal Content or a
// Transform, never both.
type BlockUpdate struct {
	UID       string
	Content   string
	Transform *Transform
}

// UpdateResult reports the outcome of one block update.
type UpdateResult struct {
	UID     string `json:"block_uid"`
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchResult reports a batch of independent updates. Success is true only
// when every item succeeded; Results always has one entry per input item.
type BatchResult struct {
	Success bool           `json:"success"`
	Results []UpdateResult `json:"results"`
}

// UpdateBlock applies a single update. Transform updates read the current
// content, rewrite it, and write it back; that read-modify-write is not
// atomic against concurrent external edits and resolves last-writer-wins,
// since the Store offers no compare-and-swap.
func (e *Engine) UpdateBlock(ctx context.Context, u BlockUpdate) (*UpdateResult, error) {
	if u.UID == "" {
		return nil, apperr.InvalidRequest("block_uid is required")
	}
	if u.Content == "" && u.Transform == nil {
		return nil, apperr.InvalidRequest("either content or transform is required")
	}
	if u.Content != "" && u.Transform != nil {
		return nil, apperr.InvalidRequest("content and transform are mutually exclusive")
	}

	newContent := u.Content
	if u.Transform != nil {
		current, err := e.store.BlockContent(ctx, u.UID)
		if err != nil {
			return nil, err
		}
		newContent, err = applyTransform(current, *u.Transform)
		if err != nil {
			return nil, err
		}
	}

	if err := e.store.UpdateBlockContent(ctx, u.UID, newContent); err != nil {
		return nil, err
	}
	return &UpdateResult{UID: u.UID, Success: true, Content: newContent}, nil
}

// UpdateBlocks applies each update independently and sequentially. One
// item's failure does not abort the rest, so a caller can retry exactly the
// failed subset. This is a partial-failure batch, not a transaction.
func (e *Engine) UpdateBlocks(ctx context.Context, updates []BlockUpdate) (*BatchResult, error) {
	if len(updates) == 0 {
		return nil, apperr.InvalidRequest("updates must not be empty")
	}

	batch := &BatchResult{Success: true, Results: make([]UpdateResult, 0, len(updates))}
	for _, u := range updates {
		res, err := e.UpdateBlock(ctx, u)
		if err != nil {
			batch.Success = false
			batch.Results = append(batch.Results, UpdateResult{UID: u.UID, Error: err.Error()})
			continue
		}
		batch.Results = append(batch.Results, *res)
	}
	return batch, nil
}

// applyTransform rewrites content by the transform's pattern. A pattern
// that fails to compile is the caller's mistake, not a store failure.
func applyTransform(content string, t Transform) (string, error) {
	re, err := regexp.Compile(t.Find)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidRequest, err, "invalid find pattern %q", t.Find)
	}
	if t.Global {
		return re.ReplaceAllString(content, t.Replace), nil
	}
	replaced := false
	return re.ReplaceAllStringFunc(content, func(m string) string {
		if replaced {
			return m
		}
		replaced = true
		return re.ReplaceAllString(m, t.Replace)
	}), nil
}
