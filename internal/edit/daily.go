package edit

import (
	"context"
	"strings"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
	"github.com/ethanf/roam-research-mcp/internal/store"
)

// MemoriesTag is the tag appended to blocks stored via Remember, and the
// tag Recall searches for.
const MemoriesTag = "LLM/Memories"

const todoMarker = "{{[[TODO]]}}"

// AddTodos appends todo items to today's daily note, each prefixed with the
// TODO checkbox marker. The daily note is created if missing. Creates run
// sequentially and abort on the first failure, returning the UIDs created
// so far.
func (e *Engine) AddTodos(ctx context.Context, todos []string) ([]string, error) {
	if len(todos) == 0 {
		return nil, apperr.InvalidRequest("todos must not be empty")
	}
	pageUID, err := e.resolver.DailyPageUID(ctx)
	if err != nil {
		return nil, err
	}

	var created []string
	for _, todo := range todos {
		uid, err := e.store.CreateBlock(ctx, pageUID, todoMarker+" "+todo, store.OrderLast)
		if err != nil {
			return created, err
		}
		created = append(created, uid)
	}
	return created, nil
}

// Remember appends a memory block to today's daily note, tagged so Recall
// can find it later. Categories become additional tags on the block.
func (e *Engine) Remember(ctx context.Context, memory string, categories []string) (string, error) {
	if memory == "" {
		return "", apperr.InvalidRequest("memory is required")
	}
	pageUID, err := e.resolver.DailyPageUID(ctx)
	if err != nil {
		return "", err
	}

	content := memory + " #[[" + MemoriesTag + "]]"
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			content += " #[[" + c + "]]"
		}
	}
	return e.store.CreateBlock(ctx, pageUID, content, store.OrderLast)
}
