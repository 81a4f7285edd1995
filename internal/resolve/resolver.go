// Package resolve maps page and block references (title, text, or UID) to
// canonical UIDs. Every other component resolves through here so that
// reference handling stays consistent across operations.
package resolve

import (
	"context"
	"sort"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

const (
	pageByTitleQuery = `[:find ?uid
 :in $ ?title
 :where [?p :node/title ?title] [?p :block/uid ?uid]]`

	pageByUIDQuery = `[:find ?uid
 :in $ ?uid
 :where [?p :block/uid ?uid] [?p :node/title ?title]]`

	blockByUIDQuery = `[:find ?uid
 :in $ ?uid
 :where [?b :block/uid ?uid] [?b :block/string ?string]]`

	blockByTextQuery = `[:find ?uid ?order
 :in $ ?text
 :where [?b :block/string ?text] [?b :block/uid ?uid] [?b :block/order ?order]]`

	blockByTextInPageQuery = `[:find ?uid ?order
 :in $ ?text ?page-uid
 :where [?p :block/uid ?page-uid] [?b :block/page ?p]
        [?b :block/string ?text] [?b :block/uid ?uid] [?b :block/order ?order]]`
)

// Resolver resolves references against the Store. It never caches: each
// call reads the graph's current state.
type Resolver struct {
	store store.Store
}

// New creates a Resolver backed by the given Store.
func New(st store.Store) *Resolver {
	return &Resolver{store: st}
}

// PageUID resolves a page reference that may be a title or a UID.
// Titles are tried first, then UIDs. Returns NotFound if neither matches.
func (r *Resolver) PageUID(ctx context.Context, titleOrUID string) (string, error) {
	if titleOrUID == "" {
		return "", apperr.InvalidRequest("page reference is empty")
	}

	rows, err := r.store.Query(ctx, pageByTitleQuery, titleOrUID)
	if err != nil {
		return "", err
	}
	if len(rows) > 0 {
		return store.RowString(rows[0], 0), nil
	}

	rows, err = r.store.Query(ctx, pageByUIDQuery, titleOrUID)
	if err != nil {
		return "", err
	}
	if len(rows) > 0 {
		return store.RowString(rows[0], 0), nil
	}

	return "", apperr.NotFound("page %q not found", titleOrUID)
}

// PageUIDOrCreate resolves a page reference, creating the page when the
// reference is a title that does not exist yet. A reference that looks like
// neither an existing title nor an existing UID is treated as a title.
func (r *Resolver) PageUIDOrCreate(ctx context.Context, titleOrUID string) (string, error) {
	uid, err := r.PageUID(ctx, titleOrUID)
	if err == nil {
		return uid, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return "", err
	}
	return r.store.CreatePage(ctx, titleOrUID)
}

// BlockUID resolves a block reference that may be exact content or a UID,
// optionally scoped to a page. When content matches more than one block the
// first match by ascending (order, uid) wins; callers needing precision
// should pass the UID. Resolution never creates blocks.
func (r *Resolver) BlockUID(ctx context.Context, textOrUID, pageUID string) (string, error) {
	if textOrUID == "" {
		return "", apperr.InvalidRequest("block reference is empty")
	}

	rows, err := r.store.Query(ctx, blockByUIDQuery, textOrUID)
	if err != nil {
		return "", err
	}
	if len(rows) > 0 {
		return store.RowString(rows[0], 0), nil
	}

	if pageUID != "" {
		rows, err = r.store.Query(ctx, blockByTextInPageQuery, textOrUID, pageUID)
	} else {
		rows, err = r.store.Query(ctx, blockByTextQuery, textOrUID)
	}
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", apperr.NotFound("block %q not found", textOrUID)
	}

	sort.Slice(rows, func(i, j int) bool {
		oi, oj := store.RowInt64(rows[i], 1), store.RowInt64(rows[j], 1)
		if oi != oj {
			return oi < oj
		}
		return store.RowString(rows[i], 0) < store.RowString(rows[j], 0)
	})
	return store.RowString(rows[0], 0), nil
}

// DailyPageUID resolves today's daily note, creating it if missing.
func (r *Resolver) DailyPageUID(ctx context.Context) (string, error) {
	return r.PageUIDOrCreate(ctx, DailyPageTitle(timeNow()))
}
