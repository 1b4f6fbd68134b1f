// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// LinkType classifies the value of a row's URL column.
type LinkType int

const (
	TypeUnknown LinkType = iota
	TypeArxiv
	TypeDOI
	TypeURL
)

func (t LinkType) String() string {
	switch t {
	case TypeArxiv:
		return "arxiv"
	case TypeDOI:
		return "doi"
	case TypeURL:
		return "url"
	default:
		return "unknown"
	}
}

// Base URLs for identifier resolution. Declared as vars so tests can
// substitute httptest servers.
var (
	arxivPDFBase = "https://arxiv.org/pdf/"
	doiBase      = "https://doi.org/"
)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// Classify determines what kind of link a URL column holds and returns its
// normalized form. For arXiv, it strips the optional "arXiv:" prefix.
func Classify(link string) (LinkType, string) {
	link = strings.TrimSpace(link)

	if m := arxivPattern.FindStringSubmatch(link); m != nil {
		return TypeArxiv, m[1]
	}

	if doiPattern.MatchString(link) {
		return TypeDOI, link
	}

	if u, err := url.Parse(link); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return TypeURL, link
	}

	return TypeUnknown, link
}

// PDFURL returns the URL to fetch for a row's link. Bare arXiv IDs map to
// the arxiv.org PDF endpoint and DOIs to the doi.org resolver (the HTTP
// client follows redirects). An arXiv abstract page URL is rewritten to the
// PDF endpoint; any other http(s) URL is returned as-is.
func PDFURL(link string) (string, error) {
	linkType, normalized := Classify(link)
	switch linkType {
	case TypeArxiv:
		return arxivPDFBase + normalized, nil
	case TypeDOI:
		return doiBase + normalized, nil
	case TypeURL:
		return arxivAbsToPDF(normalized), nil
	default:
		return "", fmt.Errorf("unrecognized link %q", link)
	}
}

// arxivAbsToPDF turns "https://arxiv.org/abs/2301.07041v1" into
// "https://arxiv.org/pdf/2301.07041v1". Other URLs are unchanged.
func arxivAbsToPDF(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !strings.HasSuffix(u.Host, "arxiv.org") || !strings.HasPrefix(u.Path, "/abs/") {
		return raw
	}
	u.Path = "/pdf/" + strings.TrimPrefix(u.Path, "/abs/")
	return u.String()
}
