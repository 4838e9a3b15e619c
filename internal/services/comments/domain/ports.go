package domain

import (
	"context"

	"docket/internal/core/queryspec"
)

// QueryPort serves list and stats reads. Execution failures come back as
// degraded results, never as errors; the error return is reserved for
// programmer mistakes (nil dependencies)
type QueryPort interface {
	List(ctx context.Context, spec queryspec.Spec) ListResult
	Stats(ctx context.Context, spec queryspec.Spec) StatsResult
}
