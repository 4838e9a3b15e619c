// Package querybuild compiles a queryspec.Spec into parameterized SQL:
// predicate and search conditions, a paired data+count query, and the
// per-stance statistics queries. Conditions are built with squirrel and
// rendered with Postgres placeholders
package querybuild

import (
	"strings"
)

// ColumnKind drives how a filter value compiles against a column
type ColumnKind int

// Column kinds
const (
	// ColPlain compares with equality / IN
	ColPlain ColumnKind = iota

	// ColText matches case-insensitive substrings and participates in search
	ColText

	// ColEnum holds a closed code set mapped from logical labels (stance)
	ColEnum

	// ColMulti holds a comma-separated categorical set (themes)
	ColMulti

	// ColDate holds a timestamp usable for date filters and default ordering
	ColDate
)

// Column describes one queryable column
type Column struct {
	Name string
	Kind ColumnKind
}

// Schema is the closed registry of queryable columns for one table.
// Fields outside the registry compile to no condition
type Schema struct {
	Table         string
	cols          map[string]Column
	searchDefault []string
	sortDefault   string
	tieBreak      string
}

// Column looks up a queryable column by its external field name
func (s Schema) Column(field string) (Column, bool) {
	c, ok := s.cols[strings.ToLower(strings.TrimSpace(field))]
	return c, ok
}

// SearchDefault returns the text columns searched when no allow-list is given
func (s Schema) SearchDefault() []string { return s.searchDefault }

// multiSeparator joins ColMulti values for exact-serialization equality.
// Order-sensitive on purpose: "A,B" and "B,A" are different stored strings
const multiSeparator = ","

// Comments returns the registry for the public-comments table
func Comments() Schema {
	cols := map[string]Column{
		"id":             {Name: "id"},
		"docket_id":      {Name: "docket_id"},
		"submitter_name": {Name: "submitter_name", Kind: ColText},
		"organization":   {Name: "organization", Kind: ColText},
		"state":          {Name: "state"},
		"stance":         {Name: "stance", Kind: ColEnum},
		"themes":         {Name: "themes", Kind: ColMulti},
		"comment_text":   {Name: "comment_text", Kind: ColText},
		"submitted_at":   {Name: "submitted_at", Kind: ColDate},
	}
	return Schema{
		Table:         "comments",
		cols:          cols,
		searchDefault: []string{"submitter_name", "organization", "comment_text"},
		sortDefault:   "submitted_at",
		tieBreak:      "id",
	}
}

// Stance codes as stored; logical labels map onto these
const (
	StanceFor     = "for"
	StanceAgainst = "against"
	StanceNeutral = "neutral"
)

// StanceCodes lists the stored stance codes in display order
func StanceCodes() []string { return []string{StanceFor, StanceAgainst, StanceNeutral} }

// StanceCode maps a logical stance label (For / Against / Neutral/Unclear,
// any casing, codes accepted too) to its stored code
func StanceCode(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "for":
		return StanceFor, true
	case "against":
		return StanceAgainst, true
	case "neutral/unclear", "neutral", "unclear":
		return StanceNeutral, true
	}
	return "", false
}
