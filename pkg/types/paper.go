// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litsurvey stages:
// paper records produced by search, catalog rows produced by finalize, and
// the per-stage configuration records.
package types

// PaperRecord is one candidate paper as returned by a search backend.
// Not every backend fills every field; absent fields are empty strings.
type PaperRecord struct {
	// Title is the paper title. It is the only reliable join key across sources.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper summary with newlines folded to spaces.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// URL points at the PDF (arXiv) or the publisher page (Scholar).
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Comment carries the arXiv author comment, which often names the venue.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// Date is the YYYY-MM-DD date of the most recent version (arXiv only).
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	// Year is the four-digit publication year.
	Year string `json:"year" yaml:"year"`

	// Authors is a comma-separated author list.
	Authors string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Venue is the journal or conference.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`
}

// CatalogRow is one row of the merged catalog handed to manual curation.
type CatalogRow struct {
	// Index is the 1-based position in the catalog.
	Index int `json:"index" yaml:"index"`

	// Relevant and Comment start empty and are filled in by the curator.
	Relevant string `json:"relevant" yaml:"relevant"`
	Comment  string `json:"comment" yaml:"comment"`

	Title string `json:"title" yaml:"title"`
	Year  string `json:"year" yaml:"year"`
}

// CatalogColumns is the header of the merged catalog CSV.
var CatalogColumns = []string{"index", "relevant", "comment", "title", "year"}
