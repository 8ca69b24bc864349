package geoscore

import (
	"context"

	"github.com/ashita-ai/geoscore/internal/model"
)

// Snapshot is the consistent set of input collections one pipeline run
// consumes: entities (with attached perspectives), votes, users, and
// spaces. It's a type alias for model.Snapshot so internal/storage can
// implement Provider without importing this package.
type Snapshot = model.Snapshot

// Provider supplies one ranking run's input snapshot. A Postgres-backed
// implementation lives in internal/storage; callers embedding this module
// may substitute their own (e.g. reading from a fixture file in tests).
type Provider interface {
	FetchAll(ctx context.Context) (Snapshot, error)
}

// Writer persists one ranking run's output: final entities (with their
// normalized perspective scores) and scored spaces. Implementations must
// write all three upsert streams — entity, perspective, and space scores —
// atomically; a caller must never observe a partial write.
type Writer interface {
	WriteResults(ctx context.Context, entities []model.Entity, spaces []model.Space) error
}
