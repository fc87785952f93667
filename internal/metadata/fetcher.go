// Package metadata turns a URL into the title, description and thumbnail
// shown for a new link. It runs before AddLink and never touches the store.
package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/utils"
	"github.com/Samyk00/LinkVault/internal/version"
)

const (
	// DefaultMaxBytes caps how much of a page is read.
	DefaultMaxBytes = 2 << 20
	maxDescription  = 300
)

// ErrUnsupportedURL rejects anything but absolute http(s) URLs.
var ErrUnsupportedURL = errors.New("metadata: only http and https URLs can be fetched")

// Metadata is what a page says about itself.
type Metadata struct {
	URL         string          `json:"url"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Thumbnail   string          `json:"thumbnail"`
	SiteName    string          `json:"siteName,omitempty"`
	Platform    domain.Platform `json:"platform"`
}

// Fill copies fetched values into the empty fields of in.
func (m Metadata) Fill(in *domain.LinkInput) {
	if in.Title == "" {
		in.Title = m.Title
	}
	if in.Description == "" {
		in.Description = m.Description
	}
	if in.Thumbnail == "" {
		in.Thumbnail = m.Thumbnail
	}
	if in.Platform == "" {
		in.Platform = m.Platform
	}
}

// Fetcher downloads pages and extracts their metadata.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	log      logger.Logger
}

// NewFetcher creates a fetcher whose requests time out after timeout.
func NewFetcher(timeout time.Duration, log logger.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: DefaultMaxBytes,
		log:      log,
	}
}

// Fetch reads rawURL and extracts OpenGraph, Twitter card and HTML metadata,
// falling back to readability extraction for whatever is still missing.
// The platform is always derived from the URL, even when the fetch fails.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Metadata, error) {
	meta := Metadata{URL: rawURL, Platform: domain.DetectPlatform(rawURL)}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return meta, ErrUnsupportedURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return meta, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "LinkVault/"+version.Version)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return meta, fmt.Errorf("failed to fetch %s: %w", u.Host, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return meta, fmt.Errorf("failed to fetch %s: status %d", u.Host, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return meta, fmt.Errorf("failed to read %s: %w", u.Host, err)
	}

	base := resp.Request.URL
	if err := extract(&meta, body, base); err != nil {
		return meta, err
	}

	f.log.Debug("metadata fetched",
		logger.String("host", u.Host),
		logger.Bool("has_title", meta.Title != ""),
		logger.Duration("took", time.Since(start)),
	)
	return meta, nil
}

func extract(meta *Metadata, body []byte, base *url.URL) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to parse html: %w", err)
	}

	meta.Title = first(
		metaContent(doc, "property", "og:title"),
		metaContent(doc, "name", "twitter:title"),
		doc.Find("head title").First().Text(),
	)
	meta.Description = first(
		metaContent(doc, "property", "og:description"),
		metaContent(doc, "name", "twitter:description"),
		metaContent(doc, "name", "description"),
	)
	meta.Thumbnail = resolve(base, first(
		metaContent(doc, "property", "og:image"),
		metaContent(doc, "name", "twitter:image"),
		attr(doc, `link[rel="image_src"]`, "href"),
	))
	meta.SiteName = metaContent(doc, "property", "og:site_name")

	if meta.Title == "" || meta.Description == "" || meta.Thumbnail == "" {
		if article, err := readability.FromReader(bytes.NewReader(body), base); err == nil {
			meta.Title = first(meta.Title, article.Title)
			meta.Description = first(meta.Description, article.Excerpt)
			meta.Thumbnail = first(meta.Thumbnail, resolve(base, article.Image))
			meta.SiteName = first(meta.SiteName, article.SiteName)
		}
	}

	meta.Description = truncate(meta.Description, maxDescription)
	return nil
}

func metaContent(doc *goquery.Document, attrName, value string) string {
	return attr(doc, fmt.Sprintf(`meta[%s=%q]`, attrName, value), "content")
}

func attr(doc *goquery.Document, selector, name string) string {
	v, _ := doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

func first(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func resolve(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	return u.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
