package tools

import (
	"context"
	"fmt"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/edit"
)

func (s *Service) createOutline(ctx context.Context, args map[string]any) (*Response, error) {
	raw, isSlice := args["outline"].([]any)
	if !isSlice || len(raw) == 0 {
		return nil, apperr.InvalidRequest("missing required argument \"outline\"")
	}

	items := make([]edit.Item, 0, len(raw))
	for i, entry := range raw {
		m, isMap := entry.(map[string]any)
		if !isMap {
			return nil, apperr.InvalidRequest("outline item %d is not an object", i)
		}
		items = append(items, edit.Item{
			Text:  strArg(m, "text"),
			Level: intArg(m, "level", 0),
		})
	}

	created, err := s.engine.ImportUnder(ctx,
		strArg(args, "page_title_uid"),
		strArg(args, "block_text_uid"),
		items,
		strArg(args, "order"),
	)
	if err != nil {
		return nil, err
	}
	return ok(map[string]any{"created_uids": created}, fmt.Sprintf("%d blocks created", len(created))), nil
}

func (s *Service) importMarkdown(ctx context.Context, args map[string]any) (*Response, error) {
	content, err := requireStr(args, "content")
	if err != nil {
		return nil, err
	}
	items := edit.ParseOutline(content)
	if len(items) == 0 {
		return nil, apperr.InvalidRequest("content contains no importable lines")
	}

	// Anchor precedence: explicit parent block, then page, then daily note.
	pageRef := strArg(args, "page_uid")
	if pageRef == "" {
		pageRef = strArg(args, "page_title")
	}
	blockRef := strArg(args, "parent_uid")
	if blockRef == "" {
		blockRef = strArg(args, "parent_string")
	}
	if pageRef == "" && blockRef == "" {
		uid, err := s.resolver.DailyPageUID(ctx)
		if err != nil {
			return nil, err
		}
		pageRef = uid
	}

	created, err := s.engine.ImportUnder(ctx, pageRef, blockRef, items, strArg(args, "order"))
	if err != nil {
		return nil, err
	}
	return ok(map[string]any{"created_uids": created}, fmt.Sprintf("%d blocks imported", len(created))), nil
}
