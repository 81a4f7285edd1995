package tools

import (
	"context"
	"fmt"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/edit"
)

func (s *Service) updateBlock(ctx context.Context, args map[string]any) (*Response, error) {
	uid, err := requireStr(args, "block_uid")
	if err != nil {
		return nil, err
	}
	update := edit.BlockUpdate{
		UID:       uid,
		Content:   strArg(args, "content"),
		Transform: transformArg(args, "transform_pattern"),
	}
	result, err := s.engine.UpdateBlock(ctx, update)
	if err != nil {
		return nil, err
	}
	return ok(result, "block updated"), nil
}

func (s *Service) updateBlocks(ctx context.Context, args map[string]any) (*Response, error) {
	raw, isSlice := args["updates"].([]any)
	if !isSlice || len(raw) == 0 {
		return nil, apperr.InvalidRequest("missing required argument \"updates\"")
	}

	updates := make([]edit.BlockUpdate, 0, len(raw))
	for _, item := range raw {
		m, isMap := item.(map[string]any)
		if !isMap {
			// A malformed entry still occupies its slot in the batch so the
			// result list stays aligned with the input.
			updates = append(updates, edit.BlockUpdate{})
			continue
		}
		updates = append(updates, edit.BlockUpdate{
			UID:       strArg(m, "block_uid"),
			Content:   strArg(m, "content"),
			Transform: transformArg(m, "transform"),
		})
	}

	batch, err := s.engine.UpdateBlocks(ctx, updates)
	if err != nil {
		return nil, err
	}
	return &Response{
		Success: batch.Success,
		Data:    batch,
		Message: fmt.Sprintf("%d updates attempted", len(batch.Results)),
	}, nil
}

func transformArg(args map[string]any, key string) *edit.Transform {
	m, isMap := args[key].(map[string]any)
	if !isMap {
		return nil
	}
	return &edit.Transform{
		Find:    strArg(m, "find"),
		Replace: strArg(m, "replace"),
		Global:  boolArg(m, "global", true),
	}
}
