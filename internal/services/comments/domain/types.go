// Package domain defines the comments service types and ports
package domain

import (
	"time"

	"docket/internal/core/queryspec"
)

// Comment is one public regulatory comment as served to clients
type Comment struct {
	ID            string    `json:"id"`
	DocketID      string    `json:"docket_id"`
	SubmitterName string    `json:"submitter_name"`
	Organization  string    `json:"organization"`
	State         string    `json:"state"`
	Stance        string    `json:"stance"`
	Themes        string    `json:"themes"`
	CommentText   string    `json:"comment_text"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// QueryInput is the JSON body accepted by the query endpoint. It mirrors the
// URL parameter surface so both boundaries land on the same spec
type QueryInput struct {
	Filters      map[string]queryspec.FilterValue `json:"filters"`
	Search       string                           `json:"search"`
	SearchFields []string                         `json:"search_fields"`
	Sort         *queryspec.Sort                  `json:"sort"`
	Page         int                              `json:"page" validate:"omitempty,min=0"`
	PageSize     int                              `json:"page_size" validate:"omitempty,min=0,max=500"`
}

// Spec converts the input into the compiler's specification
func (in QueryInput) Spec() queryspec.Spec {
	return queryspec.Spec{
		Filters:      in.Filters,
		Search:       in.Search,
		SearchFields: in.SearchFields,
		Sort:         in.Sort,
		Page:         in.Page,
		PageSize:     in.PageSize,
	}
}

// ListResult is the list payload. A failed execution is reported in-band:
// Success false, empty Data, zero Total, and a client-safe Error string
type ListResult struct {
	Success  bool      `json:"success"`
	Data     []Comment `json:"data"`
	Total    int64     `json:"total"`
	Page     int       `json:"page,omitempty"`
	PageSize int       `json:"page_size,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Stats are the per-stance counts over a filtered population
type Stats struct {
	Total        int64 `json:"total"`
	ForCount     int64 `json:"for_count"`
	AgainstCount int64 `json:"against_count"`
	NeutralCount int64 `json:"neutral_count"`
}

// StatsResult is the stats payload with the same in-band failure contract
// as ListResult
type StatsResult struct {
	Success bool   `json:"success"`
	Stats   Stats  `json:"stats"`
	Error   string `json:"error,omitempty"`
}
