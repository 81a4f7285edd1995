// Package tools is the facade over the graph engine: it maps operation
// names to the resolver, search, mutation, and import components,
// shape-checks arguments, and wraps results in one uniform envelope. It is
// the only package the transport layers (MCP, REST) talk to.
package tools

import (
	"context"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/edit"
	"github.com/ethanf/roam-research-mcp/internal/resolve"
	"github.com/ethanf/roam-research-mcp/internal/search"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

// Response is the uniform envelope every operation returns.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func ok(data any, message string) *Response {
	return &Response{Success: true, Data: data, Message: message}
}

// Handler executes one named operation against a flat argument object.
type Handler func(ctx context.Context, args map[string]any) (*Response, error)

// Service binds the tool operations to the graph components.
type Service struct {
	store      store.Store
	resolver   *resolve.Resolver
	dispatcher *search.Dispatcher
	engine     *edit.Engine

	handlers map[string]Handler
}

// NewService wires the components over one Store.
func NewService(st store.Store) *Service {
	res := resolve.New(st)
	s := &Service{
		store:      st,
		resolver:   res,
		dispatcher: search.NewDispatcher(st, res),
		engine:     edit.NewEngine(st, res),
	}
	s.handlers = map[string]Handler{
		"roam_create_page":          s.createPage,
		"roam_create_block":         s.createBlock,
		"roam_fetch_page_by_title":  s.fetchPageByTitle,
		"roam_import_markdown":      s.importMarkdown,
		"roam_create_outline":       s.createOutline,
		"roam_add_todo":             s.addTodos,
		"roam_remember":             s.remember,
		"roam_recall":               s.recall,
		"roam_search_for_tag":       s.searchForTag,
		"roam_search_block_refs":    s.searchBlockRefs,
		"roam_search_hierarchy":     s.searchHierarchy,
		"roam_search_by_text":       s.searchByText,
		"roam_search_by_date":       s.searchByDate,
		"roam_search_by_status":     s.searchByStatus,
		"find_pages_modified_today": s.findPagesModifiedToday,
		"roam_update_block":         s.updateBlock,
		"roam_update_blocks":        s.updateBlocks,
		"roam_datomic_query":        s.datomicQuery,
	}
	return s
}

// Operations lists the operation names in registration order.
func (s *Service) Operations() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	return names
}

// Call dispatches a named operation. Unknown names yield MethodNotFound;
// component failures propagate with their kind intact.
func (s *Service) Call(ctx context.Context, name string, args map[string]any) (*Response, error) {
	h, found := s.handlers[name]
	if !found {
		return nil, apperr.New(apperr.KindMethodNotFound, "unknown operation %q", name)
	}
	if args == nil {
		args = map[string]any{}
	}
	return h(ctx, args)
}

// --- argument helpers ---

func strArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func requireStr(args map[string]any, key string) (string, error) {
	s := strArg(args, key)
	if s == "" {
		return "", apperr.InvalidRequest("missing required argument %q", key)
	}
	return s, nil
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func boolArg(args map[string]any, key string, def bool) bool {
	if v, isBool := args[key].(bool); isBool {
		return v
	}
	return def
}

func strSliceArg(args map[string]any, key string) []string {
	raw, isSlice := args[key].([]any)
	if !isSlice {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, isStr := v.(string); isStr {
			out = append(out, s)
		}
	}
	return out
}
