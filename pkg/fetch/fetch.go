// Package fetch is the HTTP side of the scraper: a retrying client that
// downloads ranking pages and decodes the site's legacy Big5 responses into
// UTF-8 before the pipeline sees them.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/traditionalchinese"
)

// Browser-like headers; the site rejects bare clients.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7",
	"Connection":      "keep-alive",
	"Referer":         "https://fubon-ebrokerdj.fbs.com.tw/",
}

// Client fetches pages with linear-backoff retries. Safe for sequential
// reuse across a whole run.
type Client struct {
	http     *http.Client
	attempts int
	backoff  time.Duration
}

// NewClient returns a client that tries each URL up to attempts times,
// sleeping backoff, 2*backoff, ... between tries.
func NewClient(attempts int, backoff time.Duration) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		http:     &http.Client{Timeout: 25 * time.Second},
		attempts: attempts,
		backoff:  backoff,
	}
}

// Fetch downloads url and returns its body as UTF-8 text.
func (c *Client) Fetch(url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * c.backoff)
		}
		body, err := c.get(url)
		if err != nil {
			lastErr = err
			continue
		}
		return Decode(body), nil
	}
	return "", fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (c *Client) get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Decode converts a response body to UTF-8 text. The site serves Big5
// (sometimes mislabeled), so Big5 is tried first and accepted when it
// decodes without replacement runes; otherwise valid UTF-8 passes through,
// and as a last resort the lossy Big5 decode is returned.
func Decode(body []byte) string {
	decoded, err := traditionalchinese.Big5.NewDecoder().Bytes(body)
	if err == nil && !strings.ContainsRune(string(decoded), utf8.RuneError) {
		return string(decoded)
	}
	if utf8.Valid(body) {
		return string(body)
	}
	return string(decoded)
}
