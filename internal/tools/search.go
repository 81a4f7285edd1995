package tools

import (
	"context"
	"time"

	"github.com/ethanf/roam-research-mcp/internal/search"
)

// run executes a strategy and folds its result into the envelope.
func (s *Service) run(ctx context.Context, strategy search.Strategy) (*Response, error) {
	result, err := s.dispatcher.Execute(ctx, strategy)
	if err != nil {
		return nil, err
	}
	return &Response{Success: result.Success, Data: result.Matches, Message: result.Message}, nil
}

func (s *Service) searchForTag(ctx context.Context, args map[string]any) (*Response, error) {
	primary, err := requireStr(args, "primary_tag")
	if err != nil {
		return nil, err
	}
	return s.run(ctx, search.TagSearch{
		PrimaryTag:     primary,
		NearTag:        strArg(args, "near_tag"),
		PageTitleOrUID: strArg(args, "page_title_uid"),
	})
}

func (s *Service) searchBlockRefs(ctx context.Context, args map[string]any) (*Response, error) {
	return s.run(ctx, search.RefSearch{
		BlockUID:       strArg(args, "block_uid"),
		PageTitleOrUID: strArg(args, "page_title_uid"),
	})
}

func (s *Service) searchHierarchy(ctx context.Context, args map[string]any) (*Response, error) {
	return s.run(ctx, search.HierarchySearch{
		ParentUID:      strArg(args, "parent_uid"),
		ChildUID:       strArg(args, "child_uid"),
		PageTitleOrUID: strArg(args, "page_title_uid"),
		MaxDepth:       intArg(args, "max_depth", 1),
	})
}

func (s *Service) searchByText(ctx context.Context, args map[string]any) (*Response, error) {
	text, err := requireStr(args, "text")
	if err != nil {
		return nil, err
	}
	return s.run(ctx, search.TextSearch{
		Text:           text,
		PageTitleOrUID: strArg(args, "page_title_uid"),
	})
}

func (s *Service) searchByDate(ctx context.Context, args map[string]any) (*Response, error) {
	start, err := requireStr(args, "start_date")
	if err != nil {
		return nil, err
	}
	return s.run(ctx, search.DateSearch{
		StartDate:      start,
		EndDate:        strArg(args, "end_date"),
		Type:           defaulted(strArg(args, "type"), search.DateTypeBoth),
		Scope:          defaulted(strArg(args, "scope"), search.DateScopeBoth),
		IncludeContent: boolArg(args, "include_content", true),
	})
}

func (s *Service) searchByStatus(ctx context.Context, args map[string]any) (*Response, error) {
	status, err := requireStr(args, "status")
	if err != nil {
		return nil, err
	}
	return s.run(ctx, search.StatusSearch{
		Status:         status,
		PageTitleOrUID: strArg(args, "page_title_uid"),
		Include:        strArg(args, "include"),
		Exclude:        strArg(args, "exclude"),
	})
}

func (s *Service) findPagesModifiedToday(ctx context.Context, _ map[string]any) (*Response, error) {
	return s.run(ctx, search.DateSearch{
		StartDate: time.Now().Format("2006-01-02"),
		Type:      search.DateTypeModified,
		Scope:     search.DateScopePages,
	})
}

func defaulted(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
