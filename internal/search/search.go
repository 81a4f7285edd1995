// Package search implements the query strategies over the remote graph:
// tag proximity, block references, hierarchy traversal, free text, date
// ranges, and task status. Every strategy normalizes its output into the
// same Match shape so callers never depend on which strategy ran.
package search

import (
	"context"
	"sort"

	"github.com/ethanf/roam-research-mcp/internal/resolve"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

// Match is the normalized output of every strategy.
type Match struct {
	UID       string `json:"block_uid"`
	Content   string `json:"content"`
	PageUID   string `json:"page_uid,omitempty"`
	PageTitle string `json:"page_title,omitempty"`
	Context   string `json:"context,omitempty"`
}

// Result is what every strategy returns. Success=false with no matches
// means the query ran cleanly and found nothing; a failed query surfaces
// as an error instead.
type Result struct {
	Success bool    `json:"success"`
	Matches []Match `json:"matches"`
	Message string  `json:"message"`
}

// Strategy is the closed set of search variants. Each variant validates
// its own parameters before touching the Store.
type Strategy interface {
	validate() error
	execute(ctx context.Context, d deps) (*Result, error)
}

type deps struct {
	store    store.Store
	resolver *resolve.Resolver
}

// Dispatcher routes strategies to the Store. It is stateless; Store errors
// pass through untouched.
type Dispatcher struct {
	deps deps
}

// NewDispatcher creates a Dispatcher over the given Store.
func NewDispatcher(st store.Store, res *resolve.Resolver) *Dispatcher {
	return &Dispatcher{deps: deps{store: st, resolver: res}}
}

// Execute validates and runs a strategy.
func (d *Dispatcher) Execute(ctx context.Context, s Strategy) (*Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, d.deps)
}

// block is the candidate row shape shared by strategies that post-filter
// in process.
type block struct {
	uid       string
	content   string
	pageUID   string
	pageTitle string
	parentUID string
}

// decodeBlocks converts query rows of the form
// [uid string page-uid page-title (parent-uid)] into blocks.
func decodeBlocks(rows [][]any) []block {
	out := make([]block, 0, len(rows))
	for _, row := range rows {
		out = append(out, block{
			uid:       store.RowString(row, 0),
			content:   store.RowString(row, 1),
			pageUID:   store.RowString(row, 2),
			pageTitle: store.RowString(row, 3),
			parentUID: store.RowString(row, 4),
		})
	}
	return out
}

// scopeToPage keeps only blocks belonging to the given page. An empty
// pageUID keeps everything.
func scopeToPage(blocks []block, pageUID string) []block {
	if pageUID == "" {
		return blocks
	}
	out := blocks[:0:0]
	for _, b := range blocks {
		if b.pageUID == pageUID {
			out = append(out, b)
		}
	}
	return out
}

// resolveScope resolves an optional page scope reference. Empty references
// resolve to no scope.
func resolveScope(ctx context.Context, d deps, titleOrUID string) (string, error) {
	if titleOrUID == "" {
		return "", nil
	}
	return d.resolver.PageUID(ctx, titleOrUID)
}

// toMatches converts blocks into sorted Matches. The datalog endpoint
// returns rows in set order, so sorting here is what makes results
// deterministic for identical inputs.
func toMatches(blocks []block) []Match {
	matches := make([]Match, 0, len(blocks))
	for _, b := range blocks {
		matches = append(matches, Match{
			UID:       b.uid,
			Content:   b.content,
			PageUID:   b.pageUID,
			PageTitle: b.pageTitle,
		})
	}
	sortMatches(matches)
	return matches
}

// sortMatches orders matches by (page title, uid), the tie-break shared by
// every list-shaped strategy. Hierarchy traversal keeps its own depth order.
func sortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].PageTitle != matches[j].PageTitle {
			return matches[i].PageTitle < matches[j].PageTitle
		}
		return matches[i].UID < matches[j].UID
	})
}

// finish builds a Result whose Success reflects whether anything matched.
func finish(matches []Match, message string) *Result {
	if matches == nil {
		matches = []Match{}
	}
	return &Result{
		Success: len(matches) > 0,
		Matches: matches,
		Message: message,
	}
}
