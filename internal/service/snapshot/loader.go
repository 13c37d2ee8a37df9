package snapshot

import (
	"LiveInbox/entity"
	"LiveInbox/internal/lib/sl"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const recentPath = "recent-conversations"

// Loader reads the recent conversations of the signed-in user from the
// backend. It never retries; a failed load is recovered by the next manual
// refresh.
type Loader struct {
	baseURL  string
	pageSize int
	client   *http.Client
	log      *slog.Logger
}

type Options struct {
	BaseURL string
	Token   string
	// TokenSource takes precedence over Token.
	TokenSource oauth2.TokenSource
	PageSize    int
	Timeout     time.Duration
}

func NewLoader(opts Options, logger *slog.Logger) *Loader {
	src := opts.TokenSource
	if src == nil && opts.Token != "" {
		src = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
	}
	client := &http.Client{}
	if src != nil {
		client = oauth2.NewClient(context.Background(), src)
	}
	client.Timeout = opts.Timeout

	return &Loader{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		pageSize: opts.PageSize,
		client:   client,
		log:      logger.With(sl.Module("snapshot loader")),
	}
}

// LoadRecentConversations fetches one page of recent conversations.
func (l *Loader) LoadRecentConversations(ctx context.Context) ([]entity.Conversation, error) {
	u, err := url.Parse(fmt.Sprintf("%s/%s", l.baseURL, recentPath))
	if err != nil {
		return nil, fmt.Errorf("failed to build url: %w", err)
	}
	if l.pageSize > 0 {
		q := u.Query()
		q.Set("limit", strconv.Itoa(l.pageSize))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	response, err := ParseResponse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("response indicated failure: %s", response.Message)
	}

	l.log.With(
		slog.Int("size", len(response.Conversations)),
	).Debug("recent conversations")

	return response.Conversations, nil
}

type Response struct {
	Success       bool                  `json:"success"`
	Conversations []entity.Conversation `json:"data"`
	Message       string                `json:"message"`
}

func ParseResponse(body []byte) (*Response, error) {
	var response Response
	err := json.Unmarshal(body, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}
