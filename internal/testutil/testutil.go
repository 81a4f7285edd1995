// Package testutil provides a scriptable in-memory Store for tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

// FakeBlock is one block held by the FakeStore.
type FakeBlock struct {
	Content   string
	ParentUID string
	Order     int
}

// FakeStore implements store.Store in memory. Reads go through QueryFunc,
// which tests script per case; writes mutate the in-memory maps so create
// and update flows can be asserted directly.
type FakeStore struct {
	mu sync.Mutex

	// QueryFunc answers datalog reads. Nil means every query returns no rows.
	QueryFunc func(query string, inputs ...any) ([][]any, error)

	Pages  map[string]string     // title -> uid
	Blocks map[string]*FakeBlock // uid -> block

	// Queries records every query string passed to Query, in order.
	Queries []string

	// FailCreateBlock, when set, makes CreateBlock fail for this content.
	FailCreateBlock string

	nextUID int
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		Pages:  map[string]string{},
		Blocks: map[string]*FakeBlock{},
	}
}

// Query delegates to QueryFunc.
func (f *FakeStore) Query(_ context.Context, query string, inputs ...any) ([][]any, error) {
	f.mu.Lock()
	f.Queries = append(f.Queries, query)
	fn := f.QueryFunc
	f.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(query, inputs...)
}

// CreatePage records the page and returns a deterministic UID.
func (f *FakeStore) CreatePage(_ context.Context, title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if uid, exists := f.Pages[title]; exists {
		return uid, nil
	}
	f.nextUID++
	uid := fmt.Sprintf("page-%d", f.nextUID)
	f.Pages[title] = uid
	return uid, nil
}

// CreateBlock records the block and returns a deterministic UID. Order
// store.OrderLast appends after the parent's current children.
func (f *FakeStore) CreateBlock(_ context.Context, parentUID, content string, order int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreateBlock != "" && content == f.FailCreateBlock {
		return "", apperr.New(apperr.KindRejected, "create rejected for %q", content)
	}
	if order == store.OrderLast {
		order = f.childCountLocked(parentUID)
	}
	f.nextUID++
	uid := fmt.Sprintf("blk-%d", f.nextUID)
	f.Blocks[uid] = &FakeBlock{Content: content, ParentUID: parentUID, Order: order}
	return uid, nil
}

// UpdateBlockContent replaces a block's content or reports NotFound.
func (f *FakeStore) UpdateBlockContent(_ context.Context, uid, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, exists := f.Blocks[uid]
	if !exists {
		return apperr.NotFound("block %q not found", uid)
	}
	b.Content = content
	return nil
}

// BlockContent returns a block's content or NotFound.
func (f *FakeStore) BlockContent(_ context.Context, uid string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, exists := f.Blocks[uid]
	if !exists {
		return "", apperr.NotFound("block %q not found", uid)
	}
	return b.Content, nil
}

// ChildUIDs returns the UIDs under parentUID in sibling order.
func (f *FakeStore) ChildUIDs(parentUID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	byOrder := map[int]string{}
	max := -1
	for uid, b := range f.Blocks {
		if b.ParentUID == parentUID {
			byOrder[b.Order] = uid
			if b.Order > max {
				max = b.Order
			}
		}
	}
	var out []string
	for i := 0; i <= max; i++ {
		if uid, exists := byOrder[i]; exists {
			out = append(out, uid)
		}
	}
	return out
}

func (f *FakeStore) childCountLocked(parentUID string) int {
	n := 0
	for _, b := range f.Blocks {
		if b.ParentUID == parentUID {
			n++
		}
	}
	return n
}

var _ store.Store = (*FakeStore)(nil)
