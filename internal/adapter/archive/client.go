package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/iradio/internal/domain"
)

const defaultUserAgent = "iradio/1.0"

// streamCache remembers playlist resolutions (consumer-defined interface)
type streamCache interface {
	StreamURI(playlistURL string) (string, bool)
	SaveStreamURI(playlistURL, uri string) error
}

// Client implements domain.SearchClient against the archive's HTML search page
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      streamCache
	logger     *slog.Logger
}

// NewClient creates an archive client. A zero timeout waits indefinitely;
// cache may be nil.
func NewClient(baseURL string, timeout time.Duration, userAgent string, cache streamCache, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:  cache,
		logger: logger,
	}
}

// hit is one search result before its playlist has been resolved
type hit struct {
	title       string
	playlistURL string
	date        string
	description string
}

// Search queries the archive restricted to stations and resolves every hit to
// a playable stream. Hits whose playlist has no stream are dropped.
func (c *Client) Search(ctx context.Context, query string, stations []domain.Station) ([]domain.Broadcast, error) {
	searchURL, err := c.searchURL(query, stations)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(searchURL)
	hits, err := parseResults(body, base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchTransport, err)
	}

	broadcasts := make([]domain.Broadcast, 0, len(hits))
	for _, h := range hits {
		uri, ok, err := c.resolveStream(ctx, h.playlistURL)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.logger.Debug("playlist without stream", "title", h.title, "playlist", h.playlistURL)
			continue
		}
		broadcasts = append(broadcasts, domain.Broadcast{
			Title:       h.title,
			URI:         uri,
			Description: h.description,
			Date:        h.date,
		})
	}

	c.logger.Info("search complete", "query", query, "stations", len(stations), "hits", len(hits), "results", len(broadcasts))
	return broadcasts, nil
}

// searchURL builds the query: one stanice[] parameter per station, in order
func (c *Client) searchURL(query string, stations []domain.Station) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base url: %v", domain.ErrSearchTransport, err)
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("reader", "true")
	q.Set("porad[]", "")
	q.Set("offset", "0")
	for _, s := range stations {
		q.Add("stanice[]", s.Token)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// resolveStream returns the stream URI announced by a .pls playlist
func (c *Client) resolveStream(ctx context.Context, playlistURL string) (string, bool, error) {
	if c.cache != nil {
		if uri, ok := c.cache.StreamURI(playlistURL); ok {
			return uri, true, nil
		}
	}

	body, err := c.get(ctx, playlistURL)
	if err != nil {
		return "", false, err
	}

	uri, ok := parsePlaylist(string(body))
	if !ok {
		return "", false, nil
	}

	if c.cache != nil {
		if err := c.cache.SaveStreamURI(playlistURL, uri); err != nil {
			c.logger.Warn("failed to cache stream", "playlist", playlistURL, "error", err)
		}
	}
	return uri, true, nil
}

// get performs a GET and returns the body of a 200 response
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrSearchTransport, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("archive request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("archive request failed", "url", reqURL, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrSearchTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("archive request error", "url", reqURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrSearchTransport, resp.StatusCode)
	}

	return body, nil
}

// parseResults extracts the hits of a search page, in page order
func parseResults(body []byte, base *url.URL) ([]hit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	var hits []hit
	doc.Find(".box-audio-archive").Each(func(_ int, box *goquery.Selection) {
		href, ok := box.Find(".action > a").Eq(1).Attr("href")
		if !ok {
			return
		}

		h := hit{playlistURL: resolveRef(base, href)}
		h.title, _ = box.Find(".icon").First().Attr("title")

		// The first child of the title block is the date, the rest is the description
		var desc strings.Builder
		box.Find(".column.column-content > .title").First().Contents().Each(func(i int, child *goquery.Selection) {
			if i == 0 {
				h.date = strings.TrimSpace(child.Text())
				return
			}
			desc.WriteString(child.Text())
		})
		h.description = strings.TrimSpace(desc.String())

		hits = append(hits, h)
	})

	return hits, nil
}

func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// parsePlaylist returns the File1 entry of a .pls playlist
func parsePlaylist(body string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, "=")
		if ok && strings.EqualFold(key, "File1") && value != "" {
			return value, true
		}
	}
	return "", false
}
