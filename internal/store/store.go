// Package store provides access to the remote Roam graph, the only system
// of record for pages and blocks. Nothing in this process caches graph data;
// every operation reads the graph's state at call time.
package store

import "context"

// OrderLast appends a new block after its siblings instead of inserting at
// a fixed position.
const OrderLast = -1

// Store is the narrow request/response boundary to the remote graph.
// Search strategies read through Query; mutations go through the typed
// write methods. Implementations must honor ctx cancellation on every call.
type Store interface {
	// Query executes a datalog query with positional inputs and returns
	// the result rows as decoded JSON tuples.
	Query(ctx context.Context, query string, inputs ...any) ([][]any, error)

	// CreatePage creates a page with the given title and returns its UID.
	CreatePage(ctx context.Context, title string) (string, error)

	// CreateBlock creates a block under parentUID at the given sibling
	// position (OrderLast appends) and returns the new block's UID.
	CreateBlock(ctx context.Context, parentUID, content string, order int) (string, error)

	// UpdateBlockContent replaces a block's content.
	UpdateBlockContent(ctx context.Context, uid, content string) error

	// BlockContent returns a block's current content.
	BlockContent(ctx context.Context, uid string) (string, error)
}

// RowString extracts a string column from a query result row.
// Missing or non-string columns yield "".
func RowString(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}

// RowInt64 extracts a numeric column from a query result row.
// JSON numbers decode as float64; missing columns yield 0.
func RowInt64(row []any, i int) int64 {
	if i >= len(row) {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
