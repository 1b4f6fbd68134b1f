// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/pdiddy/litsurvey/internal/httputil"
	"github.com/pdiddy/litsurvey/pkg/types"
)

// scholarBase is the Google Scholar results page. Declared as a var so
// tests can substitute an httptest server.
var scholarBase = "https://scholar.google.com/scholar"

const (
	defaultScholarMaxResults = 300
	scholarPageSize          = 10
	scholarUserAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// ScholarColumns is the CSV header of Google Scholar search results.
var ScholarColumns = []string{"title", "authors", "year", "venue", "url"}

// ErrBlocked is returned when Google Scholar answers with a CAPTCHA page
// instead of results.
var ErrBlocked = errors.New("google scholar blocked the request (captcha)")

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ScholarBackend scrapes Google Scholar result pages. Scholar has no API;
// a Limiter should space out page requests.
type ScholarBackend struct {
	Client  *http.Client
	Limiter *rate.Limiter
}

// Name returns the backend identifier.
func (b *ScholarBackend) Name() string { return "scholar" }

// Columns returns ScholarColumns.
func (b *ScholarBackend) Columns() []string { return ScholarColumns }

// Search fetches result pages for cfg.Query until cfg.MaxResults records
// are collected or a page comes back empty.
func (b *ScholarBackend) Search(ctx context.Context, cfg types.SearchConfig, w io.Writer) ([]types.PaperRecord, error) {
	limit := cfg.MaxResults
	if limit <= 0 {
		limit = defaultScholarMaxResults
	}
	ua := cfg.UserAgent
	if ua == "" || ua == httputil.DefaultUserAgent {
		ua = scholarUserAgent
	}

	var records []types.PaperRecord
	for start := 0; len(records) < limit; start += scholarPageSize {
		if b.Limiter != nil {
			if err := b.Limiter.Wait(ctx); err != nil {
				return records, err
			}
		}

		params := url.Values{
			"q":     {cfg.Query},
			"start": {strconv.Itoa(start)},
			"hl":    {"en"},
		}
		page, err := b.fetchPage(ctx, scholarBase+"?"+params.Encode(), ua)
		if err != nil {
			return records, err
		}
		fmt.Fprintf(w, "  scholar: %d results at offset %d\n", len(page), start)
		if len(page) == 0 {
			break
		}
		for _, r := range page {
			if len(records) == limit {
				break
			}
			records = append(records, r)
		}
	}
	return records, nil
}

func (b *ScholarBackend) fetchPage(ctx context.Context, reqURL, userAgent string) ([]types.PaperRecord, error) {
	header := http.Header{}
	header.Set("Accept", "text/html,application/xhtml+xml")
	header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := httputil.Get(ctx, b.Client, reqURL, userAgent, header)
	if err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
			return nil, ErrBlocked
		}
		return nil, fmt.Errorf("scholar request: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing scholar page: %w", err)
	}
	if doc.Find("#gs_captcha_ccl, #captcha-form, form#captcha").Length() > 0 {
		return nil, ErrBlocked
	}
	return parseScholarPage(doc), nil
}

// parseScholarPage extracts one record per result block.
func parseScholarPage(doc *goquery.Document) []types.PaperRecord {
	var records []types.PaperRecord
	doc.Find("div.gs_ri").Each(func(_ int, s *goquery.Selection) {
		heading := s.Find("h3.gs_rt").First()
		link := heading.Find("a").First()

		var title string
		if link.Length() > 0 {
			title = link.Text()
		} else {
			// Citations and books carry a [CITATION] or [BOOK] marker span.
			h := heading.Clone()
			h.Find("span").Remove()
			title = h.Text()
		}
		title = strings.Join(strings.Fields(title), " ")
		if title == "" {
			return
		}

		href, _ := link.Attr("href")
		authors, year, venue := parseByline(s.Find("div.gs_a").First().Text())
		records = append(records, types.PaperRecord{
			Title:   title,
			URL:     href,
			Authors: authors,
			Year:    year,
			Venue:   venue,
		})
	})
	return records
}

// parseByline splits a Scholar byline such as
// "A Vaswani, N Shazeer - Advances in neural information processing systems, 2017 - proceedings.neurips.cc"
// into authors, year, and venue.
func parseByline(byline string) (authors, year, venue string) {
	byline = strings.ReplaceAll(byline, "\u00a0", " ")
	parts := strings.Split(byline, " - ")
	authors = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[0]), "\u2026"))

	if len(parts) > 1 {
		src := parts[1]
		if locs := yearPattern.FindAllStringIndex(src, -1); len(locs) > 0 {
			last := locs[len(locs)-1]
			year = src[last[0]:last[1]]
			src = src[:last[0]] + src[last[1]:]
		}
		venue = strings.Trim(strings.TrimSpace(src), ", ")
	}
	if year == "" {
		if years := yearPattern.FindAllString(byline, -1); len(years) > 0 {
			year = years[len(years)-1]
		}
	}
	return authors, year, venue
}
