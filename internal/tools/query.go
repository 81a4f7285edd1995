package tools

import (
	"context"
	"fmt"
)

// datomicQuery is the raw passthrough escape hatch: the query string and
// positional inputs go to the Store unmodified and the rows come back
// unmodified.
func (s *Service) datomicQuery(ctx context.Context, args map[string]any) (*Response, error) {
	query, err := requireStr(args, "query")
	if err != nil {
		return nil, err
	}
	inputs, _ := args["inputs"].([]any)

	rows, err := s.store.Query(ctx, query, inputs...)
	if err != nil {
		return nil, err
	}
	return ok(rows, fmt.Sprintf("%d rows", len(rows))), nil
}
