// Package scraper extracts a best-effort title and thumbnail from a product
// page. It is an enrichment step, not a required dependency: any failure
// yields empty fields, never an error.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	acceptLanguage = "pt-BR,pt;q=0.9"
)

// Meta is the extraction result. Empty Title/Thumbnail mean "not found";
// FinalURL is the post-redirect URL, or the input URL when the fetch failed.
type Meta struct {
	Title     string
	Thumbnail string
	FinalURL  string
}

// Extractor fetches product pages with a browser-like client.
type Extractor struct {
	client *http.Client
}

func New() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Extract fetches url and scrapes title/thumbnail from it. Redirects are
// followed; sites vary rendering by locale and bot detection, so the request
// carries a browser user agent and a Portuguese Accept-Language.
func (e *Extractor) Extract(ctx context.Context, url string) Meta {
	failed := Meta{FinalURL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failed
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := e.client.Do(req)
	if err != nil {
		return failed
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed
	}

	meta := ParseMeta(body)
	meta.FinalURL = resp.Request.URL.String()
	return meta
}

// jsonLD is the slice of a product's structured data block we care about.
// image may be a string or an array of strings.
type jsonLD struct {
	Name  string          `json:"name"`
	Image json.RawMessage `json:"image"`
}

// ParseMeta scrapes title and thumbnail out of an HTML document. Per field,
// first match wins: JSON-LD, then Open Graph, then (for the title only) the
// <title> element truncated at the first "|" separator. The thumbnail scheme
// is forced to https.
func ParseMeta(html []byte) Meta {
	var meta Meta

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return meta
	}

	// JSON-LD
	if raw := doc.Find(`script[type="application/ld+json"]`).First().Text(); raw != "" {
		var ld jsonLD
		if err := json.Unmarshal([]byte(raw), &ld); err == nil {
			meta.Title = strings.TrimSpace(ld.Name)
			meta.Thumbnail = firstImage(ld.Image)
		}
	}

	// Open Graph fallback
	if meta.Title == "" {
		meta.Title = ogContent(doc, "og:title")
	}
	if meta.Thumbnail == "" {
		meta.Thumbnail = ogContent(doc, "og:image")
	}

	// <title> fallback, keeping only the part before the store-name separator
	if meta.Title == "" {
		if t := doc.Find("title").First().Text(); t != "" {
			meta.Title = strings.TrimSpace(strings.SplitN(t, "|", 2)[0])
		}
	}

	if strings.HasPrefix(meta.Thumbnail, "http://") {
		meta.Thumbnail = "https://" + strings.TrimPrefix(meta.Thumbnail, "http://")
	}

	return meta
}

// ogContent finds an Open Graph meta tag by property or name attribute,
// whichever the page uses.
func ogContent(doc *goquery.Document, property string) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.AttrOr("property", "") != property && s.AttrOr("name", "") != property {
			return true
		}
		if v := strings.TrimSpace(s.AttrOr("content", "")); v != "" {
			content = v
			return false
		}
		return true
	})
	return content
}

func firstImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}
	return ""
}
