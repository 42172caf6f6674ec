package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"vidseek/internal/app/retry"
)

// ErrPanelUnsupported is returned by pages that cannot open the transcript
// panel, such as static snapshots.
var ErrPanelUnsupported = errors.New("transcript panel cannot be opened on this page")

// Page is the host video page as seen by the acquisition strategies
type Page interface {
	// Document returns the current state of the page
	Document(ctx context.Context) (*goquery.Document, error)
	// OpenTranscriptPanel asks the page to render its transcript panel
	OpenTranscriptPanel(ctx context.Context) error
}

// PageLoader produces the page for a video when the caller did not supply one
type PageLoader interface {
	Load(ctx context.Context, videoID string) (Page, error)
}

// SnapshotPage is a page frozen at the HTML it was created from
type SnapshotPage struct {
	html string

	once sync.Once
	doc  *goquery.Document
	err  error
}

// NewSnapshotPage wraps already captured page HTML
func NewSnapshotPage(html string) *SnapshotPage {
	return &SnapshotPage{html: html}
}

// Document parses the snapshot once and returns the same document afterwards
func (p *SnapshotPage) Document(ctx context.Context) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.once.Do(func() {
		p.doc, p.err = goquery.NewDocumentFromReader(strings.NewReader(p.html))
	})
	return p.doc, p.err
}

// OpenTranscriptPanel always fails; a snapshot never changes
func (p *SnapshotPage) OpenTranscriptPanel(context.Context) error {
	return ErrPanelUnsupported
}

// HTTPPageLoader fetches the public watch page
type HTTPPageLoader struct {
	baseURL string
	client  *http.Client
	policy  retry.Policy
}

// NewHTTPPageLoader creates a loader for {baseURL}/watch?v=<id>
func NewHTTPPageLoader(baseURL string, client *http.Client) *HTTPPageLoader {
	if baseURL == "" {
		baseURL = DefaultYouTubeURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPPageLoader{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		policy:  networkPolicy(),
	}
}

// Load downloads the watch page and freezes it as a SnapshotPage
func (l *HTTPPageLoader) Load(ctx context.Context, videoID string) (Page, error) {
	watchURL := l.baseURL + "/watch?" + url.Values{"v": {videoID}}.Encode()

	body, err := retry.Do(ctx, l.policy, func(ctx context.Context, _ int) ([]byte, error) {
		return getBody(ctx, l.client, watchURL, maxPageBytes, "text/html,application/xhtml+xml")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load watch page: %w", err)
	}
	return NewSnapshotPage(string(body)), nil
}

const (
	// DefaultYouTubeURL is the origin used for watch pages and Innertube calls
	DefaultYouTubeURL = "https://www.youtube.com"

	maxPageBytes    = 8 << 20
	maxCaptionBytes = 2 << 20
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
)

// networkPolicy retries throttling, 5xx and network failures a few times
func networkPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		Backoff:     retry.ExponentialBackoff(500*time.Millisecond, 4*time.Second, 2),
		Retryable:   retry.IsTransient,
	}
}

// getBody performs a GET and returns the body of a 2xx reply. Other statuses
// come back as *retry.StatusError.
func getBody(ctx context.Context, client *http.Client, target string, limit int64, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &retry.StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, nil
}
