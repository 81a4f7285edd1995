package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ethanf/roam-research-mcp/internal/apperr"
)

const (
	defaultBaseURL = "https://api.roamresearch.com"
	defaultTimeout = 30 * time.Second

	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// blockContentQuery pulls a single block's content by UID.
const blockContentQuery = `[:find ?string
 :in $ ?uid
 :where [?b :block/uid ?uid] [?b :block/string ?string]]`

// RoamClient talks to the Roam Research backend HTTP API.
// It implements Store.
type RoamClient struct {
	baseURL    string
	graph      string
	token      string
	httpClient *http.Client
}

// RoamOption configures a RoamClient.
type RoamOption func(*RoamClient)

// WithBaseURL overrides the API endpoint (used in tests).
func WithBaseURL(url string) RoamOption {
	return func(c *RoamClient) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) RoamOption {
	return func(c *RoamClient) { c.httpClient.Timeout = d }
}

// NewRoamClient creates a client for the named graph.
func NewRoamClient(graph, token string, opts ...RoamOption) *RoamClient {
	c := &RoamClient{
		baseURL:    defaultBaseURL,
		graph:      graph,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call makes a POST request to the Roam API with bounded retry and backoff.
// Server errors and network failures are retried; client errors are not.
func (c *RoamClient) call(ctx context.Context, path string, body any) (json.RawMessage, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "marshal request")
	}

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, apperr.Wrap(apperr.KindUnavailable, ctx.Err(), "roam API %s", path)
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, err, "create request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = apperr.Wrap(apperr.KindUnavailable, err, "roam API %s (attempt %d)", path, attempt+1)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = apperr.Wrap(apperr.KindUnavailable, err, "read response %s (attempt %d)", path, attempt+1)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return respBody, nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			lastErr = apperr.New(apperr.KindUnavailable, "roam API %s returned %d: %s", path, resp.StatusCode, truncateBody(respBody))
			continue
		case resp.StatusCode == http.StatusNotFound:
			return nil, apperr.New(apperr.KindNotFound, "roam API %s returned 404: %s", path, truncateBody(respBody))
		default:
			return nil, apperr.New(apperr.KindRejected, "roam API %s returned %d: %s", path, resp.StatusCode, truncateBody(respBody))
		}
	}

	return nil, lastErr
}

func truncateBody(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

// Query executes a datalog query against the graph.
func (c *RoamClient) Query(ctx context.Context, query string, inputs ...any) ([][]any, error) {
	body := map[string]any{"query": query}
	if len(inputs) > 0 {
		body["args"] = inputs
	}
	raw, err := c.call(ctx, "/api/graph/"+c.graph+"/q", body)
	if err != nil {
		return nil, err
	}
	var decoded struct {
		Result [][]any `json:"result"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "unmarshal query result")
	}
	return decoded.Result, nil
}

// write submits a single write action.
func (c *RoamClient) write(ctx context.Context, action map[string]any) error {
	_, err := c.call(ctx, "/api/graph/"+c.graph+"/write", action)
	return err
}

// CreatePage creates a page and returns its UID. The UID is generated
// client-side so creation does not need a follow-up read. Daily-note titles
// get Roam's date-shaped UID; everything else gets a random 9-character UID.
func (c *RoamClient) CreatePage(ctx context.Context, title string) (string, error) {
	uid := pageUID(title)
	err := c.write(ctx, map[string]any{
		"action": "create-page",
		"page": map[string]any{
			"title": title,
			"uid":   uid,
		},
	})
	if err != nil {
		return "", err
	}
	return uid, nil
}

// CreateBlock creates a block under parentUID and returns its UID.
func (c *RoamClient) CreateBlock(ctx context.Context, parentUID, content string, order int) (string, error) {
	uid := NewUID()
	location := map[string]any{"parent-uid": parentUID}
	if order == OrderLast {
		location["order"] = "last"
	} else {
		location["order"] = order
	}
	err := c.write(ctx, map[string]any{
		"action":   "create-block",
		"location": location,
		"block": map[string]any{
			"string": content,
			"uid":    uid,
		},
	})
	if err != nil {
		return "", err
	}
	return uid, nil
}

// UpdateBlockContent replaces a block's content.
func (c *RoamClient) UpdateBlockContent(ctx context.Context, uid, content string) error {
	return c.write(ctx, map[string]any{
		"action": "update-block",
		"block": map[string]any{
			"uid":    uid,
			"string": content,
		},
	})
}

// BlockContent returns a block's current content, or NotFound if no block
// has the given UID.
func (c *RoamClient) BlockContent(ctx context.Context, uid string) (string, error) {
	rows, err := c.Query(ctx, blockContentQuery, uid)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", apperr.NotFound("block %q not found", uid)
	}
	return RowString(rows[0], 0), nil
}

// NewUID generates a 9-character block UID in Roam's format.
func NewUID() string {
	id := uuid.New()
	hex := strings.ReplaceAll(id.String(), "-", "")
	return hex[:9]
}

// pageUID returns the UID for a new page: daily notes use Roam's MM-DD-YYYY
// convention, other pages a random UID.
func pageUID(title string) string {
	if t, err := time.Parse("January 2, 2006", stripOrdinal(title)); err == nil {
		return t.Format("01-02-2006")
	}
	return NewUID()
}

// stripOrdinal removes the ordinal suffix from a daily-note title,
// e.g. "January 2nd, 2006" -> "January 2, 2006".
func stripOrdinal(title string) string {
	for _, suffix := range []string{"st,", "nd,", "rd,", "th,"} {
		if i := strings.Index(title, suffix); i > 0 {
			return title[:i] + title[i+len(suffix)-1:]
		}
	}
	return title
}

var _ Store = (*RoamClient)(nil)

// Ping checks that the graph is reachable and the token is accepted. The
// probe query matching nothing is fine; only transport and auth failures
// count.
func (c *RoamClient) Ping(ctx context.Context) error {
	_, err := c.Query(ctx, `[:find ?uid :where [?p :node/title "_ping"] [?p :block/uid ?uid]]`)
	if err != nil && apperr.KindOf(err) == apperr.KindNotFound {
		return nil
	}
	return err
}
