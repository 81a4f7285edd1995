package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ethanf/roam-research-mcp/internal/edit"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

// pageBlocksQuery fetches a page's full block set with enough linkage
// (parent, order) to reassemble the tree in process.
const pageBlocksQuery = `[:find ?uid ?string ?order ?parent-uid
 :in $ ?page-uid
 :where [?p :block/uid ?page-uid] [?b :block/page ?p]
        [?b :block/uid ?uid] [?b :block/string ?string] [?b :block/order ?order]
        [?par :block/children ?b] [?par :block/uid ?parent-uid]]`

func (s *Service) createPage(ctx context.Context, args map[string]any) (*Response, error) {
	title, err := requireStr(args, "title")
	if err != nil {
		return nil, err
	}

	uid, err := s.resolver.PageUIDOrCreate(ctx, title)
	if err != nil {
		return nil, err
	}

	// Optional initial content goes in as an outline under the new page.
	if content := strArg(args, "content"); content != "" {
		items := edit.ParseOutline(content)
		if len(items) > 0 {
			if _, err := s.engine.Import(ctx, uid, items, edit.OrderLast); err != nil {
				return nil, err
			}
		}
	}

	return ok(map[string]string{"page_uid": uid}, fmt.Sprintf("page %q ready", title)), nil
}

func (s *Service) createBlock(ctx context.Context, args map[string]any) (*Response, error) {
	content, err := requireStr(args, "content")
	if err != nil {
		return nil, err
	}

	// Target page: explicit uid, then title, then today's daily note.
	var pageUID string
	switch {
	case strArg(args, "page_uid") != "":
		pageUID, err = s.resolver.PageUID(ctx, strArg(args, "page_uid"))
	case strArg(args, "title") != "":
		pageUID, err = s.resolver.PageUIDOrCreate(ctx, strArg(args, "title"))
	default:
		pageUID, err = s.resolver.DailyPageUID(ctx)
	}
	if err != nil {
		return nil, err
	}

	uid, err := s.store.CreateBlock(ctx, pageUID, content, store.OrderLast)
	if err != nil {
		return nil, err
	}
	return ok(map[string]string{"block_uid": uid, "page_uid": pageUID}, "block created"), nil
}

func (s *Service) fetchPageByTitle(ctx context.Context, args map[string]any) (*Response, error) {
	title, err := requireStr(args, "title")
	if err != nil {
		return nil, err
	}

	pageUID, err := s.resolver.PageUID(ctx, title)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Query(ctx, pageBlocksQuery, pageUID)
	if err != nil {
		return nil, err
	}

	markdown := renderPage(title, pageUID, decodeTreeRows(rows))
	return ok(markdown, fmt.Sprintf("page %q rendered as markdown", title)), nil
}

// treeBlock is one block with its tree linkage.
type treeBlock struct {
	uid       string
	content   string
	order     int64
	parentUID string
}

func decodeTreeRows(rows [][]any) []treeBlock {
	out := make([]treeBlock, 0, len(rows))
	for _, row := range rows {
		out = append(out, treeBlock{
			uid:       store.RowString(row, 0),
			content:   store.RowString(row, 1),
			order:     store.RowInt64(row, 2),
			parentUID: store.RowString(row, 3),
		})
	}
	return out
}

// renderPage flattens the block tree into indented markdown, children under
// each parent in sibling order.
func renderPage(title, pageUID string, blocks []treeBlock) string {
	children := make(map[string][]treeBlock, len(blocks))
	for _, b := range blocks {
		children[b.parentUID] = append(children[b.parentUID], b)
	}
	for _, siblings := range children {
		sort.Slice(siblings, func(i, j int) bool {
			if siblings[i].order != siblings[j].order {
				return siblings[i].order < siblings[j].order
			}
			return siblings[i].uid < siblings[j].uid
		})
	}

	var sb strings.Builder
	sb.WriteString("# " + title + "\n")
	writeSubtree(&sb, children, pageUID, 0)
	return sb.String()
}

func writeSubtree(sb *strings.Builder, children map[string][]treeBlock, parentUID string, depth int) {
	for _, b := range children[parentUID] {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(b.content)
		sb.WriteString("\n")
		writeSubtree(sb, children, b.uid, depth+1)
	}
}
