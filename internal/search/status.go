package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
)

// StatusSearch finds task blocks: content starting with a TODO or DONE
// marker, optionally narrowed by include terms (all must appear) and
// exclude terms (none may appear). Term tests are case-sensitive substring
// matches.
type StatusSearch struct {
	Status         string // "TODO" or "DONE"
	PageTitleOrUID string
	Include        string // comma-separated terms
	Exclude        string // comma-separated terms
}

func (s StatusSearch) validate() error {
	if s.Status != "TODO" && s.Status != "DONE" {
		return apperr.InvalidRequest("status must be TODO or DONE")
	}
	return nil
}

func (s StatusSearch) execute(ctx context.Context, d deps) (*Result, error) {
	scopeUID, err := resolveScope(ctx, d, s.PageTitleOrUID)
	if err != nil {
		return nil, err
	}

	// Status markers reference the TODO/DONE page, so the tag candidate
	// query applies; the marker-prefix check below weeds out plain mentions.
	rows, err := d.store.Query(ctx, taggedBlocksQuery, s.Status)
	if err != nil {
		return nil, err
	}
	candidates := scopeToPage(decodeBlocks(rows), scopeUID)

	include := splitTerms(s.Include)
	exclude := splitTerms(s.Exclude)
	kept := candidates[:0:0]
	for _, c := range candidates {
		if !hasStatusMarker(c.content, s.Status) {
			continue
		}
		if !containsAll(c.content, include) || containsAny(c.content, exclude) {
			continue
		}
		kept = append(kept, c)
	}

	matches := toMatches(kept)
	return finish(matches, fmt.Sprintf("found %d %s blocks", len(matches), s.Status)), nil
}

// hasStatusMarker reports whether content begins with the checkbox marker
// for the given status, in either of Roam's two spellings.
func hasStatusMarker(content, status string) bool {
	return strings.HasPrefix(content, "{{[["+status+"]]}}") ||
		strings.HasPrefix(content, "{{"+status+"}}")
}

func splitTerms(s string) []string {
	if s == "" {
		return nil
	}
	var terms []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

func containsAll(content string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(content, t) {
			return false
		}
	}
	return true
}

func containsAny(content string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(content, t) {
			return true
		}
	}
	return false
}
