package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ashita-ai/geoscore/internal/model"
)

// PostgresWriter persists ranking output. WriteResults runs all three
// upsert streams in one transaction, so a caller never observes a partial
// write: either every entity, perspective, and space score lands, or none
// does.
type PostgresWriter struct {
	db *DB
}

// NewPostgresWriter returns a PostgresWriter writing through db.
func NewPostgresWriter(db *DB) *PostgresWriter {
	return &PostgresWriter{db: db}
}

// WriteResults upserts entity_scores, perspective_scores, and space_scores.
// Each keyed upsert preserves prior rows it doesn't touch — rerunning the
// pipeline for a subset of entities never deletes scores for entities left
// out of this call.
func (w *PostgresWriter) WriteResults(ctx context.Context, entities []model.Entity, spaces []model.Space) error {
	return WithRetry(ctx, 3, 200*time.Millisecond, func() error {
		tx, err := w.db.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("storage: begin write tx: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		now := time.Now().UTC()
		batch := &pgx.Batch{}

		for _, e := range entities {
			batch.Queue(`
				INSERT INTO entity_scores (entity_id, normalized_score, raw_score, contestation_score, updated_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (entity_id) DO UPDATE SET
					normalized_score = EXCLUDED.normalized_score,
					raw_score = EXCLUDED.raw_score,
					contestation_score = EXCLUDED.contestation_score,
					updated_at = EXCLUDED.updated_at
			`, e.ID, e.NormalizedScore, e.RawScore, e.ContestationScore, now)

			for _, p := range e.Perspectives {
				batch.Queue(`
					INSERT INTO perspective_scores (entity_id, space_id, normalized_score, raw_score, contestation_score, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6)
					ON CONFLICT (entity_id, space_id) DO UPDATE SET
						normalized_score = EXCLUDED.normalized_score,
						raw_score = EXCLUDED.raw_score,
						contestation_score = EXCLUDED.contestation_score,
						updated_at = EXCLUDED.updated_at
				`, p.EntityID, p.SpaceID, p.NormalizedScore, p.RawScore, p.ContestationScore, now)
			}
		}

		for _, s := range spaces {
			batch.Queue(`
				INSERT INTO space_scores (space_id, space_score, distance_to_root, activity_score, updated_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (space_id) DO UPDATE SET
					space_score = EXCLUDED.space_score,
					distance_to_root = EXCLUDED.distance_to_root,
					activity_score = EXCLUDED.activity_score,
					updated_at = EXCLUDED.updated_at
			`, s.ID, s.SpaceScore, s.DistanceToRoot, s.ActivityScore, now)
		}

		results := tx.SendBatch(ctx, batch)
		if err := results.Close(); err != nil {
			return fmt.Errorf("storage: run write batch: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("storage: commit write tx: %w", err)
		}
		return nil
	})
}
