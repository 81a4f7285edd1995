// Package mcpserver exposes the graph tool operations as an MCP server
// over stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/tools"
)

// Server wraps the MCP server around the tool service.
type Server struct {
	mcp *server.MCPServer
	svc *tools.Service
}

// New creates an MCP server with every tool operation registered.
func New(svc *tools.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"roam-research",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.register(mcp.NewTool("roam_create_page",
		mcp.WithDescription("Create a Roam page (or return the existing one) with optional initial outline content."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
		mcp.WithString("content", mcp.Description("Optional markdown outline to import into the page")),
	))

	s.register(mcp.NewTool("roam_create_block",
		mcp.WithDescription("Add a block to a page. Defaults to today's daily note when no page is given."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Block content")),
		mcp.WithString("page_uid", mcp.Description("Target page UID")),
		mcp.WithString("title", mcp.Description("Target page title (created if missing)")),
	))

	s.register(mcp.NewTool("roam_fetch_page_by_title",
		mcp.WithDescription("Fetch a page's full block tree rendered as indented markdown."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title or UID")),
	))

	s.register(mcp.NewTool("roam_import_markdown",
		mcp.WithDescription("Import markdown-shaped nested content under a page or parent block."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown outline text")),
		mcp.WithString("page_uid", mcp.Description("Target page UID")),
		mcp.WithString("page_title", mcp.Description("Target page title")),
		mcp.WithString("parent_uid", mcp.Description("Parent block UID under the page")),
		mcp.WithString("parent_string", mcp.Description("Exact text of the parent block under the page")),
		mcp.WithString("order", mcp.Description("Placement among existing children: first or last")),
	))

	s.register(mcp.NewTool("roam_create_outline",
		mcp.WithDescription("Create a nested block outline from an explicit list of (text, level) items."),
		mcp.WithArray("outline", mcp.Required(), mcp.Description("Ordered items {text, level}; level 1 is top")),
		mcp.WithString("page_title_uid", mcp.Description("Anchor page title or UID")),
		mcp.WithString("block_text_uid", mcp.Description("Anchor block text or UID within the page")),
		mcp.WithString("order", mcp.Description("Placement among existing children: first or last")),
	))

	s.register(mcp.NewTool("roam_add_todo",
		mcp.WithDescription("Add TODO items to today's daily note."),
		mcp.WithArray("todos", mcp.Required(), mcp.Description("Todo texts; the checkbox marker is added automatically")),
	))

	s.register(mcp.NewTool("roam_remember",
		mcp.WithDescription("Store a memory on today's daily note, tagged for later recall."),
		mcp.WithString("memory", mcp.Required(), mcp.Description("The information to remember")),
		mcp.WithArray("categories", mcp.Description("Optional category tags")),
	))

	s.register(mcp.NewTool("roam_recall",
		mcp.WithDescription("Retrieve all stored memories."),
		mcp.WithString("page_title_uid", mcp.Description("Optional page scope")),
	))

	s.register(mcp.NewTool("roam_search_for_tag",
		mcp.WithDescription("Find blocks with a tag, optionally only where a second tag is within one hierarchy hop."),
		mcp.WithString("primary_tag", mcp.Required(), mcp.Description("Tag to search for")),
		mcp.WithString("near_tag", mcp.Description("Tag that must appear on the block, a sibling, parent, or child")),
		mcp.WithString("page_title_uid", mcp.Description("Optional page scope")),
	))

	s.register(mcp.NewTool("roam_search_block_refs",
		mcp.WithDescription("Find blocks referencing a block, or all reference edges within a page."),
		mcp.WithString("block_uid", mcp.Description("Referenced block UID")),
		mcp.WithString("page_title_uid", mcp.Description("Page scope; required when block_uid is absent")),
	))

	s.register(mcp.NewTool("roam_search_hierarchy",
		mcp.WithDescription("Traverse the block tree: descendants of a parent, ancestors of a child, or the chain between both."),
		mcp.WithString("parent_uid", mcp.Description("Walk down from this block")),
		mcp.WithString("child_uid", mcp.Description("Walk up from this block")),
		mcp.WithString("page_title_uid", mcp.Description("Optional page scope")),
		mcp.WithNumber("max_depth", mcp.Description("Traversal depth, 1-10 (default 1)")),
	))

	s.register(mcp.NewTool("roam_search_by_text",
		mcp.WithDescription("Find blocks containing a text fragment."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Substring to match")),
		mcp.WithString("page_title_uid", mcp.Description("Optional page scope")),
	))

	s.register(mcp.NewTool("roam_search_by_date",
		mcp.WithDescription("Find blocks and/or pages created or modified within a date range."),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("Inclusive start, YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Description("End date, YYYY-MM-DD; the whole day is included")),
		mcp.WithString("type", mcp.Description("created, modified, or both (default both)")),
		mcp.WithString("scope", mcp.Description("blocks, pages, or both (default both)")),
		mcp.WithBoolean("include_content", mcp.Description("Include block content in results (default true)")),
	))

	s.register(mcp.NewTool("roam_search_by_status",
		mcp.WithDescription("Find TODO or DONE blocks, filtered by required and excluded terms."),
		mcp.WithString("status", mcp.Required(), mcp.Description("TODO or DONE")),
		mcp.WithString("page_title_uid", mcp.Description("Optional page scope")),
		mcp.WithString("include", mcp.Description("Comma-separated terms that must all appear")),
		mcp.WithString("exclude", mcp.Description("Comma-separated terms that must not appear")),
	))

	s.register(mcp.NewTool("find_pages_modified_today",
		mcp.WithDescription("List pages modified since the start of today."),
	))

	s.register(mcp.NewTool("roam_update_block",
		mcp.WithDescription("Update a block with new content or a find/replace transform."),
		mcp.WithString("block_uid", mcp.Required(), mcp.Description("Block to update")),
		mcp.WithString("content", mcp.Description("Replacement content")),
		mcp.WithObject("transform_pattern", mcp.Description("Pattern rewrite: {find, replace, global}")),
	))

	s.register(mcp.NewTool("roam_update_blocks",
		mcp.WithDescription("Update several blocks; items are independent and failures are reported per item."),
		mcp.WithArray("updates", mcp.Required(), mcp.Description("Items {block_uid, content?, transform?}")),
	))

	s.register(mcp.NewTool("roam_datomic_query",
		mcp.WithDescription("Run a raw datalog query against the graph and return the rows unmodified."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Datalog query string")),
		mcp.WithArray("inputs", mcp.Description("Positional query inputs")),
	))

	return s
}

// register binds a tool definition to the shared dispatch handler.
func (s *Server) register(tool mcp.Tool) {
	name := tool.Name
	s.mcp.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.handle(ctx, name, req.GetArguments())
	})
}

// handle invokes the operation and serializes the envelope. Component
// failures become tool errors rather than protocol errors so clients see
// the message.
func (s *Server) handle(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	resp, err := s.svc.Call(ctx, name, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(apperr.Wrap(apperr.KindInternal, err, "encode response").Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}
