package search

import (
	"context"
	"fmt"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

const (
	// refsToBlockQuery finds blocks whose content references a target block.
	refsToBlockQuery = `[:find ?uid ?string ?page-uid ?page-title
 :in $ ?target
 :where [?t :block/uid ?target] [?b :block/refs ?t]
        [?b :block/uid ?uid] [?b :block/string ?string]
        [?b :block/page ?p] [?p :block/uid ?page-uid] [?p :node/title ?page-title]]`

	// refsInPageQuery finds every reference edge contained within a page.
	refsInPageQuery = `[:find ?uid ?string ?ref-uid
 :in $ ?page-uid
 :where [?p :block/uid ?page-uid] [?b :block/page ?p]
        [?b :block/refs ?t] [?t :block/uid ?ref-uid]
        [?b :block/uid ?uid] [?b :block/string ?string]]`
)

// RefSearch finds blocks by reference edges. With a BlockUID it returns
// every block referencing that block; with only a page scope it returns all
// reference edges inside the page. At least one of the two is required.
type RefSearch struct {
	BlockUID       string
	PageTitleOrUID string
}

func (s RefSearch) validate() error {
	if s.BlockUID == "" && s.PageTitleOrUID == "" {
		return apperr.InvalidRequest("either block_uid or page_title_uid is required")
	}
	return nil
}

func (s RefSearch) execute(ctx context.Context, d deps) (*Result, error) {
	scopeUID, err := resolveScope(ctx, d, s.PageTitleOrUID)
	if err != nil {
		return nil, err
	}

	if s.BlockUID != "" {
		rows, err := d.store.Query(ctx, refsToBlockQuery, s.BlockUID)
		if err != nil {
			return nil, err
		}
		matches := toMatches(scopeToPage(decodeBlocks(rows), scopeUID))
		return finish(matches, fmt.Sprintf("found %d blocks referencing ((%s))", len(matches), s.BlockUID)), nil
	}

	rows, err := d.store.Query(ctx, refsInPageQuery, scopeUID)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, Match{
			UID:     store.RowString(row, 0),
			Content: store.RowString(row, 1),
			PageUID: scopeUID,
			Context: fmt.Sprintf("references ((%s))", store.RowString(row, 2)),
		})
	}
	sortMatches(matches)
	return finish(matches, fmt.Sprintf("found %d reference edges in page", len(matches))), nil
}
