package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://data-api.polymarket.com"

// чтобы не читать гигабайты при сломанном ответе
const maxBodyBytes = 16 << 20

var (
	// ErrStatus — фид ответил не-2xx; ошибка переходная, цикл пропускается.
	ErrStatus = errors.New("feed: unexpected status")
	// ErrShape — тело ответа не похоже на массив активностей.
	ErrShape = errors.New("feed: unexpected response shape")
)

// Client читает ленту активности data-api. Один http.Client на процесс.
type Client struct {
	httpc   *http.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpc:   &http.Client{Timeout: 20 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FetchActivity возвращает последние limit событий аккаунта user,
// от новых к старым (как отдаёт фид). Элементы — сырые байты, чтобы
// payload доехал до базы как есть.
func (c *Client) FetchActivity(ctx context.Context, user string, limit int) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sortBy", "TIMESTAMP")
	q.Set("sortDirection", "DESC")
	q.Set("user", user)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/activity?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "polywatch/1.0")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	return items, nil
}
