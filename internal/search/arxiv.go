// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litsurvey/internal/httputil"
	"github.com/pdiddy/litsurvey/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const (
	defaultArxivMaxResults = 200
	defaultArxivPageSize   = 100
)

// ArxivColumns is the CSV header of arXiv search results.
var ArxivColumns = []string{"title", "abstract", "url", "comment", DateYearColumn}

// ArxivBackend queries the arXiv Atom API, one page per request.
type ArxivBackend struct {
	Client  *http.Client
	Limiter *rate.Limiter
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return "arxiv" }

// Columns returns ArxivColumns.
func (b *ArxivBackend) Columns() []string { return ArxivColumns }

// Search pages through the arXiv API until cfg.MaxResults records are
// collected or the feed runs out. The query is sent as the raw
// search_query, so field prefixes such as ti: and abs: work.
func (b *ArxivBackend) Search(ctx context.Context, cfg types.SearchConfig, w io.Writer) ([]types.PaperRecord, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultArxivMaxResults
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultArxivPageSize
	}
	sortBy := cfg.SortBy
	if sortBy == "" {
		sortBy = types.SortSubmittedDate
	}

	var records []types.PaperRecord
	for start := 0; start < maxResults; {
		n := min(pageSize, maxResults-start)
		params := url.Values{
			"search_query": {cfg.Query},
			"start":        {strconv.Itoa(start)},
			"max_results":  {strconv.Itoa(n)},
			"sortBy":       {string(sortBy)},
			"sortOrder":    {"descending"},
		}

		if b.Limiter != nil {
			if err := b.Limiter.Wait(ctx); err != nil {
				return records, err
			}
		}
		feed, err := b.fetchPage(ctx, arxivAPIBase+"?"+params.Encode(), cfg.UserAgent)
		if err != nil {
			return records, err
		}
		fmt.Fprintf(w, "  arxiv: %d entries at offset %d\n", len(feed.Entries), start)

		for _, entry := range feed.Entries {
			records = append(records, entry.record())
		}

		start += len(feed.Entries)
		if len(feed.Entries) == 0 || (feed.TotalResults > 0 && start >= feed.TotalResults) {
			break
		}
	}
	return records, nil
}

func (b *ArxivBackend) fetchPage(ctx context.Context, reqURL, userAgent string) (*arxivFeed, error) {
	resp, err := httputil.Get(ctx, b.Client, reqURL, userAgent, nil)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	TotalResults int          `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	Entries      []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string      `xml:"id"`
	Title   string      `xml:"title"`
	Summary string      `xml:"summary"`
	Updated string      `xml:"updated"`
	Comment string      `xml:"http://arxiv.org/schemas/atom comment"`
	Links   []arxivLink `xml:"link"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// record converts an entry to a PaperRecord. The year and date come from
// the most recent version.
func (e arxivEntry) record() types.PaperRecord {
	r := types.PaperRecord{
		Title:    strings.Join(strings.Fields(e.Title), " "),
		Abstract: strings.ReplaceAll(strings.TrimSpace(e.Summary), "\n", " "),
		URL:      e.pdfURL(),
		Comment:  strings.TrimSpace(e.Comment),
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Updated)); err == nil {
		r.Date = t.Format("2006-01-02")
		r.Year = strconv.Itoa(t.Year())
	}
	return r
}

// pdfURL returns the entry's PDF link, falling back to the abstract URL
// rewritten to the PDF endpoint
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "http://arxiv.org/pdf/2301.07041v1").
func (e arxivEntry) pdfURL() string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	id := strings.TrimSpace(e.ID)
	if strings.Contains(id, "/abs/") {
		return strings.Replace(id, "/abs/", "/pdf/", 1)
	}
	return ""
}
