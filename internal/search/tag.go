package search

import (
	"context"
	"fmt"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
)

// taggedBlocksQuery finds blocks referencing a tag, with enough structure
// (page, direct parent) for proximity filtering.
const taggedBlocksQuery = `[:find ?uid ?string ?page-uid ?page-title ?parent-uid
 :in $ ?tag
 :where [?t :node/title ?tag] [?b :block/refs ?t]
        [?b :block/uid ?uid] [?b :block/string ?string]
        [?b :block/page ?p] [?p :block/uid ?page-uid] [?p :node/title ?page-title]
        [?par :block/children ?b] [?par :block/uid ?parent-uid]]`

// TagSearch finds blocks tagged with PrimaryTag. When NearTag is set,
// results are narrowed to blocks where NearTag occurs within one hierarchy
// hop: the same block, a sibling, the direct parent, or a direct child.
// The one-hop window is a fixed design constant, not configurable.
type TagSearch struct {
	PrimaryTag     string
	NearTag        string
	PageTitleOrUID string
}

func (s TagSearch) validate() error {
	if s.PrimaryTag == "" {
		return apperr.InvalidRequest("primary_tag is required")
	}
	return nil
}

func (s TagSearch) execute(ctx context.Context, d deps) (*Result, error) {
	scopeUID, err := resolveScope(ctx, d, s.PageTitleOrUID)
	if err != nil {
		return nil, err
	}

	rows, err := d.store.Query(ctx, taggedBlocksQuery, s.PrimaryTag)
	if err != nil {
		return nil, err
	}
	candidates := scopeToPage(decodeBlocks(rows), scopeUID)

	msg := fmt.Sprintf("blocks tagged #%s", s.PrimaryTag)
	if s.NearTag != "" {
		rows, err := d.store.Query(ctx, taggedBlocksQuery, s.NearTag)
		if err != nil {
			return nil, err
		}
		candidates = filterNear(candidates, decodeBlocks(rows))
		msg = fmt.Sprintf("blocks tagged #%s near #%s", s.PrimaryTag, s.NearTag)
	}

	matches := toMatches(candidates)
	return finish(matches, fmt.Sprintf("found %d %s", len(matches), msg)), nil
}

// filterNear keeps candidates that have a near-tagged block within one
// hierarchy hop. Filtering only ever narrows the candidate set.
func filterNear(candidates, near []block) []block {
	nearUIDs := make(map[string]bool, len(near))
	nearParents := make(map[string]bool, len(near))
	for _, n := range near {
		nearUIDs[n.uid] = true
		nearParents[n.parentUID] = true
	}

	out := candidates[:0:0]
	for _, c := range candidates {
		switch {
		case nearUIDs[c.uid]: // both tags on the same block
		case nearUIDs[c.parentUID]: // near tag on the direct parent
		case nearParents[c.uid]: // near tag on a direct child
		case nearParents[c.parentUID]: // near tag on a sibling
		default:
			continue
		}
		out = append(out, c)
	}
	return out
}
