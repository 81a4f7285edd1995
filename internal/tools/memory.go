package tools

import (
	"context"
	"fmt"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/edit"
	"github.com/ethanf/roam-research-mcp/internal/search"
)

func (s *Service) remember(ctx context.Context, args map[string]any) (*Response, error) {
	memory, err := requireStr(args, "memory")
	if err != nil {
		return nil, err
	}
	uid, err := s.engine.Remember(ctx, memory, strSliceArg(args, "categories"))
	if err != nil {
		return nil, err
	}
	return ok(map[string]string{"block_uid": uid}, "memory stored"), nil
}

func (s *Service) recall(ctx context.Context, args map[string]any) (*Response, error) {
	result, err := s.dispatcher.Execute(ctx, search.TagSearch{
		PrimaryTag:     edit.MemoriesTag,
		PageTitleOrUID: strArg(args, "page_title_uid"),
	})
	if err != nil {
		return nil, err
	}

	memories := make([]string, 0, len(result.Matches))
	for _, m := range result.Matches {
		memories = append(memories, m.Content)
	}
	return &Response{
		Success: true,
		Data:    memories,
		Message: fmt.Sprintf("%d memories recalled", len(memories)),
	}, nil
}

func (s *Service) addTodos(ctx context.Context, args map[string]any) (*Response, error) {
	todos := strSliceArg(args, "todos")
	if len(todos) == 0 {
		return nil, apperr.InvalidRequest("missing required argument \"todos\"")
	}
	created, err := s.engine.AddTodos(ctx, todos)
	if err != nil {
		return nil, err
	}
	return ok(map[string]any{"created_uids": created}, fmt.Sprintf("%d todos added", len(created))), nil
}
