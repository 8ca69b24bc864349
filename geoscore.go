// Package geoscore is the public API for embedding the ranking pipeline:
// fetch a snapshot, score spaces, score and rank entities, persist results.
//
// Enterprise and plugin consumers import this package to run the pipeline
// against their own storage without forking it:
//
//	cfg, err := geoscore.NewRankingConfig()
//	if err != nil { ... }
//	p, err := geoscore.New(cfg,
//	    geoscore.WithProvider(myProvider),
//	    geoscore.WithWriter(myWriter),
//	)
//	if err != nil { ... }
//	if err := p.Run(ctx); err != nil { ... }
//
// The import graph enforces a strict no-cycle rule: geoscore (root) imports
// internal/*, but internal/* never imports geoscore (root). Snapshot is a
// type alias for model.Snapshot so internal/storage can implement Provider
// without seeing this package at all.
package geoscore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ashita-ai/geoscore/internal/model"
	"github.com/ashita-ai/geoscore/internal/ranking"
)

// Pipeline orchestrates one full run: fetch, rank spaces, rank entities,
// write. It holds no state between Run calls beyond its Provider, Writer,
// and Engine — each Run fetches a fresh snapshot and mutates it in
// isolation.
type Pipeline struct {
	provider Provider
	writer   Writer
	engine   *ranking.Engine
	opts     resolvedOptions
}

// New builds a Pipeline from cfg (an already-validated RankingConfig) and
// opts. WithProvider and WithWriter are required.
func New(cfg model.RankingConfig, opts ...Option) (*Pipeline, error) {
	ro := defaultResolvedOptions()
	for _, opt := range opts {
		opt(&ro)
	}
	if ro.provider == nil {
		return nil, errors.New("geoscore: a Provider is required (use WithProvider)")
	}
	if ro.writer == nil {
		return nil, errors.New("geoscore: a Writer is required (use WithWriter)")
	}
	if ro.metrics == nil {
		return nil, errors.New("geoscore: metrics instrument creation failed (use WithMetrics to override)")
	}

	return &Pipeline{
		provider: ro.provider,
		writer:   ro.writer,
		engine:   ranking.New(cfg),
		opts:     ro,
	}, nil
}

// Run executes one end-to-end pass: fetch a snapshot, rank spaces, rank
// entities, then write results. Spaces are ranked before entities — this
// mirrors the source pipeline's call order, which means activity_score (if
// enabled) reflects perspective raw_scores as they stood before this run's
// votes were tallied, not after. See DESIGN.md.
//
// Each phase runs inside its own child span (fetch, rank-spaces,
// rank-entities, write) under one root span tagged with a per-run
// correlation id, so a single run's logs, traces, and metrics can be tied
// together after the fact.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()
	start := time.Now()

	ctx, span := p.opts.tracer.Start(ctx, "geoscore.Run",
		trace.WithAttributes(attribute.String("geoscore.run_id", runID)),
	)
	defer span.End()

	logger := p.opts.logger.With("run_id", runID)

	snapshot, err := p.fetchSnapshot(ctx, logger)
	if err != nil {
		return err
	}

	rankedSpaces := p.rankSpaces(ctx, snapshot)

	rankedEntities, err := p.rankEntities(ctx, snapshot)
	if err != nil {
		return err
	}

	if err := p.writeResults(ctx, rankedEntities, rankedSpaces); err != nil {
		return err
	}

	p.opts.metrics.RecordRun(ctx, len(rankedEntities), len(rankedSpaces), time.Since(start))
	logger.InfoContext(ctx, "geoscore: run complete",
		"ranked_entities", len(rankedEntities),
		"ranked_spaces", len(rankedSpaces),
	)
	return nil
}

func (p *Pipeline) fetchSnapshot(ctx context.Context, logger *slog.Logger) (model.Snapshot, error) {
	ctx, span := p.opts.tracer.Start(ctx, "geoscore.fetch")
	defer span.End()

	snapshot, err := p.provider.FetchAll(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("geoscore: fetch snapshot: %w", err)
	}
	p.opts.metrics.RecordFetch(ctx, len(snapshot.Votes))
	logger.InfoContext(ctx, "geoscore: fetched snapshot",
		"entities", len(snapshot.Entities),
		"votes", len(snapshot.Votes),
		"users", len(snapshot.Users),
		"spaces", len(snapshot.Spaces),
	)
	return snapshot, nil
}

func (p *Pipeline) rankSpaces(ctx context.Context, snapshot model.Snapshot) []model.Space {
	_, span := p.opts.tracer.Start(ctx, "geoscore.rank_spaces")
	defer span.End()
	return p.engine.RankSpaces(snapshot.Spaces, snapshot.Entities, snapshot.Users)
}

func (p *Pipeline) rankEntities(ctx context.Context, snapshot model.Snapshot) ([]model.Entity, error) {
	_, span := p.opts.tracer.Start(ctx, "geoscore.rank_entities")
	defer span.End()

	rankedEntities, err := p.engine.RankEntities(snapshot.Entities, snapshot.Votes, snapshot.Users, snapshot.Spaces)
	if err != nil {
		return nil, fmt.Errorf("geoscore: rank entities: %w", err)
	}
	return rankedEntities, nil
}

func (p *Pipeline) writeResults(ctx context.Context, entities []model.Entity, spaces []model.Space) error {
	ctx, span := p.opts.tracer.Start(ctx, "geoscore.write")
	defer span.End()

	if err := p.writer.WriteResults(ctx, entities, spaces); err != nil {
		return fmt.Errorf("geoscore: write results: %w", err)
	}
	return nil
}
