package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

// MaxHierarchyDepth caps traversal depth. The Store guarantees parent links
// form a forest, so this is a cost bound rather than a cycle guard.
const MaxHierarchyDepth = 10

const (
	childrenQuery = `[:find ?uid ?string ?order ?page-uid ?page-title
 :in $ ?parent-uid
 :where [?p :block/uid ?parent-uid] [?p :block/children ?b]
        [?b :block/uid ?uid] [?b :block/string ?string] [?b :block/order ?order]
        [?b :block/page ?pg] [?pg :block/uid ?page-uid] [?pg :node/title ?page-title]]`

	// parentQuery returns the direct block parent; empty when the parent is
	// the page itself, which terminates an ancestor climb.
	parentQuery = `[:find ?uid ?string ?page-uid ?page-title
 :in $ ?child-uid
 :where [?c :block/uid ?child-uid] [?p :block/children ?c]
        [?p :block/uid ?uid] [?p :block/string ?string]
        [?p :block/page ?pg] [?pg :block/uid ?page-uid] [?pg :node/title ?page-title]]`
)

// HierarchySearch traverses the block tree. With ParentUID it returns
// descendants up to MaxDepth hops; with ChildUID, ancestors. With both it
// checks the child is within MaxDepth of the parent and returns the
// connecting chain. Depth zero is rejected. An optional page scope drops
// any traversed block outside that page.
type HierarchySearch struct {
	ParentUID      string
	ChildUID       string
	PageTitleOrUID string
	MaxDepth       int
}

func (s HierarchySearch) validate() error {
	if s.ParentUID == "" && s.ChildUID == "" {
		return apperr.InvalidRequest("either parent_uid or child_uid is required")
	}
	if s.MaxDepth < 1 {
		return apperr.InvalidRequest("max_depth must be at least 1")
	}
	if s.MaxDepth > MaxHierarchyDepth {
		return apperr.InvalidRequest("max_depth must not exceed %d", MaxHierarchyDepth)
	}
	return nil
}

func (s HierarchySearch) execute(ctx context.Context, d deps) (*Result, error) {
	scopeUID, err := resolveScope(ctx, d, s.PageTitleOrUID)
	if err != nil {
		return nil, err
	}

	var result *Result
	switch {
	case s.ParentUID != "" && s.ChildUID != "":
		result, err = s.connect(ctx, d)
	case s.ParentUID != "":
		result, err = s.descendants(ctx, d)
	default:
		result, err = s.ancestors(ctx, d)
	}
	if err != nil {
		return nil, err
	}

	if scopeUID != "" {
		kept := result.Matches[:0:0]
		for _, m := range result.Matches {
			if m.PageUID == scopeUID {
				kept = append(kept, m)
			}
		}
		return finish(kept, result.Message), nil
	}
	return result, nil
}

// descendants walks breadth-first, one Store round trip per block per hop.
// Matches come back in traversal order: depth first, then sibling order.
func (s HierarchySearch) descendants(ctx context.Context, d deps) (*Result, error) {
	var matches []Match
	frontier := []string{s.ParentUID}

	for depth := 1; depth <= s.MaxDepth && len(frontier) > 0; depth++ {
		var next []string
		var level []childMatch
		for _, uid := range frontier {
			children, err := queryChildren(ctx, d, uid, depth)
			if err != nil {
				return nil, err
			}
			level = append(level, children...)
		}
		sort.SliceStable(level, func(i, j int) bool {
			if level[i].order != level[j].order {
				return level[i].order < level[j].order
			}
			return level[i].m.UID < level[j].m.UID
		})
		for _, c := range level {
			next = append(next, c.m.UID)
			matches = append(matches, c.m)
		}
		frontier = next
	}

	return finish(matches, fmt.Sprintf("found %d descendants of ((%s)) within depth %d", len(matches), s.ParentUID, s.MaxDepth)), nil
}

func (s HierarchySearch) ancestors(ctx context.Context, d deps) (*Result, error) {
	chain, err := climb(ctx, d, s.ChildUID, s.MaxDepth)
	if err != nil {
		return nil, err
	}
	return finish(chain, fmt.Sprintf("found %d ancestors of ((%s)) within depth %d", len(chain), s.ChildUID, s.MaxDepth)), nil
}

// connect checks whether ChildUID sits within MaxDepth hops below ParentUID
// and returns the connecting chain, child-to-parent order.
func (s HierarchySearch) connect(ctx context.Context, d deps) (*Result, error) {
	chain, err := climb(ctx, d, s.ChildUID, s.MaxDepth)
	if err != nil {
		return nil, err
	}
	for i, m := range chain {
		if m.UID == s.ParentUID {
			return finish(chain[:i+1], fmt.Sprintf("((%s)) is %d levels below ((%s))", s.ChildUID, i+1, s.ParentUID)), nil
		}
	}
	return finish(nil, fmt.Sprintf("((%s)) is not within %d levels of ((%s))", s.ChildUID, s.MaxDepth, s.ParentUID)), nil
}

// childMatch pairs a Match with its numeric sibling position so level
// sorting stays numeric rather than comparing the formatted context.
type childMatch struct {
	m     Match
	order int64
}

func queryChildren(ctx context.Context, d deps, parentUID string, depth int) ([]childMatch, error) {
	rows, err := d.store.Query(ctx, childrenQuery, parentUID)
	if err != nil {
		return nil, err
	}
	matches := make([]childMatch, 0, len(rows))
	for _, row := range rows {
		order := store.RowInt64(row, 2)
		matches = append(matches, childMatch{
			order: order,
			m: Match{
				UID:       store.RowString(row, 0),
				Content:   store.RowString(row, 1),
				PageUID:   store.RowString(row, 3),
				PageTitle: store.RowString(row, 4),
				Context:   fmt.Sprintf("depth %d, position %d", depth, order),
			},
		})
	}
	return matches, nil
}

// climb walks up the parent chain, stopping at the page or the depth cap.
func climb(ctx context.Context, d deps, fromUID string, maxDepth int) ([]Match, error) {
	var chain []Match
	current := fromUID
	for depth := 1; depth <= maxDepth; depth++ {
		rows, err := d.store.Query(ctx, parentQuery, current)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break // reached a top-level block
		}
		m := Match{
			UID:       store.RowString(rows[0], 0),
			Content:   store.RowString(rows[0], 1),
			PageUID:   store.RowString(rows[0], 2),
			PageTitle: store.RowString(rows[0], 3),
			Context:   fmt.Sprintf("depth %d", depth),
		}
		chain = append(chain, m)
		current = m.UID
	}
	return chain, nil
}
