package search

import (
	"context"
	"fmt"
	"time"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

const dateLayout = "2006-01-02"

const (
	blockTimesQuery = `[:find ?uid ?string ?page-uid ?page-title ?created ?edited
 :where [?b :block/uid ?uid] [?b :block/string ?string]
        [?b :create/time ?created] [?b :edit/time ?edited]
        [?b :block/page ?p] [?p :block/uid ?page-uid] [?p :node/title ?page-title]]`

	pageTimesQuery = `[:find ?uid ?title ?created ?edited
 :where [?p :node/title ?title] [?p :block/uid ?uid]
        [?p :create/time ?created] [?p :edit/time ?edited]]`
)

// Date search types and scopes.
const (
	DateTypeCreated  = "created"
	DateTypeModified = "modified"
	DateTypeBoth     = "both"

	DateScopeBlocks = "blocks"
	DateScopePages  = "pages"
	DateScopeBoth   = "both"
)

// DateSearch filters blocks and/or pages by creation or modification time.
// StartDate is inclusive. EndDate, being a bare date, bounds the range
// exclusively at the start of the following day; empty means unbounded.
// Type "both" unions created and modified hits, de-duplicated by UID.
type DateSearch struct {
	StartDate      string
	EndDate        string
	Type           string
	Scope          string
	IncludeContent bool
}

func (s DateSearch) validate() error {
	if s.StartDate == "" {
		return apperr.InvalidRequest("start_date is required")
	}
	if _, err := time.Parse(dateLayout, s.StartDate); err != nil {
		return apperr.InvalidRequest("start_date %q is not a YYYY-MM-DD date", s.StartDate)
	}
	if s.EndDate != "" {
		if _, err := time.Parse(dateLayout, s.EndDate); err != nil {
			return apperr.InvalidRequest("end_date %q is not a YYYY-MM-DD date", s.EndDate)
		}
	}
	switch s.Type {
	case DateTypeCreated, DateTypeModified, DateTypeBoth:
	default:
		return apperr.InvalidRequest("type must be created, modified, or both")
	}
	switch s.Scope {
	case DateScopeBlocks, DateScopePages, DateScopeBoth:
	default:
		return apperr.InvalidRequest("scope must be blocks, pages, or both")
	}
	return nil
}

func (s DateSearch) execute(ctx context.Context, d deps) (*Result, error) {
	startMillis, endMillis := s.bounds()

	var matches []Match
	if s.Scope == DateScopeBlocks || s.Scope == DateScopeBoth {
		rows, err := d.store.Query(ctx, blockTimesQuery)
		if err != nil {
			return nil, err
		}
		matches = append(matches, s.filterRows(rows, false, startMillis, endMillis)...)
	}
	if s.Scope == DateScopePages || s.Scope == DateScopeBoth {
		rows, err := d.store.Query(ctx, pageTimesQuery)
		if err != nil {
			return nil, err
		}
		matches = append(matches, s.filterRows(rows, true, startMillis, endMillis)...)
	}

	sortMatches(matches)
	return finish(matches, fmt.Sprintf("found %d items %s between %s and %s",
		len(matches), s.Type, s.StartDate, orOpen(s.EndDate))), nil
}

// bounds converts the date strings to an epoch-millisecond window
// [start, end). A missing end date leaves the window open.
func (s DateSearch) bounds() (int64, int64) {
	start, _ := time.Parse(dateLayout, s.StartDate)
	startMillis := start.UnixMilli()
	endMillis := int64(0)
	if s.EndDate != "" {
		end, _ := time.Parse(dateLayout, s.EndDate)
		endMillis = end.Add(24 * time.Hour).UnixMilli()
	}
	return startMillis, endMillis
}

// filterRows keeps rows whose relevant timestamp falls in the window.
// Block rows are [uid string page-uid page-title created edited]; page rows
// are [uid title created edited]. Union semantics for type "both": a row
// qualifies if either timestamp is in range, and appears once.
func (s DateSearch) filterRows(rows [][]any, pages bool, startMillis, endMillis int64) []Match {
	createdCol, editedCol := 4, 5
	if pages {
		createdCol, editedCol = 2, 3
	}

	seen := make(map[string]bool, len(rows))
	var out []Match
	for _, row := range rows {
		uid := store.RowString(row, 0)
		if seen[uid] {
			continue
		}

		created := store.RowInt64(row, createdCol)
		edited := store.RowInt64(row, editedCol)
		var context string
		switch {
		case s.Type != DateTypeModified && inWindow(created, startMillis, endMillis):
			context = "created " + time.UnixMilli(created).UTC().Format(dateLayout)
		case s.Type != DateTypeCreated && inWindow(edited, startMillis, endMillis):
			context = "modified " + time.UnixMilli(edited).UTC().Format(dateLayout)
		default:
			continue
		}
		seen[uid] = true

		m := Match{UID: uid, Context: context}
		if pages {
			m.PageUID = uid
			m.PageTitle = store.RowString(row, 1)
		} else {
			m.PageUID = store.RowString(row, 2)
			m.PageTitle = store.RowString(row, 3)
			if s.IncludeContent {
				m.Content = store.RowString(row, 1)
			}
		}
		out = append(out, m)
	}
	return out
}

func inWindow(t, startMillis, endMillis int64) bool {
	if t < startMillis {
		return false
	}
	return endMillis == 0 || t < endMillis
}

func orOpen(end string) string {
	if end == "" {
		return "now"
	}
	return end
}
