package search

import (
	"context"
	"fmt"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
)

// textQuery pushes the substring test into the datalog engine so only
// matching blocks cross the wire.
const textQuery = `[:find ?uid ?string ?page-uid ?page-title
 :in $ ?search
 :where [?b :block/string ?string]
        [(clojure.string/includes? ?string ?search)]
        [?b :block/uid ?uid]
        [?b :block/page ?p] [?p :block/uid ?page-uid] [?p :node/title ?page-title]]`

// TextSearch matches blocks whose content contains Text, optionally scoped
// to a page. Ranking is not semantic; results come back in the shared
// deterministic order.
type TextSearch struct {
	Text           string
	PageTitleOrUID string
}

func (s TextSearch) validate() error {
	if s.Text == "" {
		return apperr.InvalidRequest("text is required")
	}
	return nil
}

func (s TextSearch) execute(ctx context.Context, d deps) (*Result, error) {
	scopeUID, err := resolveScope(ctx, d, s.PageTitleOrUID)
	if err != nil {
		return nil, err
	}

	rows, err := d.store.Query(ctx, textQuery, s.Text)
	if err != nil {
		return nil, err
	}
	matches := toMatches(scopeToPage(decodeBlocks(rows), scopeUID))
	return finish(matches, fmt.Sprintf("found %d blocks containing %q", len(matches), s.Text)), nil
}
