// Package ranking implements the single orchestration entry point that
// turns a raw snapshot of spaces, entities, votes, and users into sorted,
// scored output: the Ranking Engine.
package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/ashita-ai/geoscore/internal/distance"
	"github.com/ashita-ai/geoscore/internal/model"
	"github.com/ashita-ai/geoscore/internal/perspective"
	"github.com/ashita-ai/geoscore/internal/spacescore"
	"github.com/ashita-ai/geoscore/internal/voteproc"
)

// Engine runs rank_entities and rank_spaces against one RankingConfig. It
// holds no mutable state of its own between calls — each call mutates the
// collections it is handed and returns sorted views of them.
type Engine struct {
	cfg model.RankingConfig
}

// New returns an Engine bound to cfg. cfg must already be validated — use
// model.NewRankingConfig to construct it.
func New(cfg model.RankingConfig) *Engine {
	return &Engine{cfg: cfg}
}

// RankEntities mutates entities and their perspectives in place, then
// returns them sorted by normalized_score descending (ties keep their
// input order). spaces may be nil — in that case distance weighting and
// space-weighted aggregation are skipped and normalized_score stays 0.
//
// The only error this returns is an unknown normalization_method — in
// practice NewRankingConfig already rejects that at construction, so this
// is a second, defensive check rather than a reachable path in a properly
// constructed Engine.
func (e *Engine) RankEntities(entities []model.Entity, votes []model.Vote, users []model.User, spaces []model.Space) ([]model.Entity, error) {
	var distances distance.Map
	spaceByID := make(map[string]*model.Space, len(spaces))

	if spaces != nil {
		for i := range spaces {
			spacescore.CalculateSpaceScore(&spaces[i], entities, users, spaces, e.cfg.RootSpaceID)
		}
		for i := range spaces {
			spaceByID[spaces[i].ID] = &spaces[i]
		}
		distances = distance.Compute(spaces, e.cfg.MaxDistance)

		if e.cfg.UseDistanceWeighting {
			votes = voteproc.ApplyDistanceWeighting(votes, users, distances, e.cfg)
		}
	}

	now := time.Now().UTC()

	for i := range entities {
		entity := &entities[i]

		surviving := voteproc.FilterForEntity(votes, users, *entity, e.cfg.FilterNonMembers)

		for j := range entity.Perspectives {
			perspective.Tally(&entity.Perspectives[j], surviving)
		}
		perspective.Aggregate(entity)

		if e.cfg.UseTimeDecay {
			ageHours := now.Sub(entity.CreatedAt).Hours()
			entity.RawScore *= math.Exp(-e.cfg.TimeDecayFactor * ageHours)
		}
	}

	if e.cfg.NormalizeScores {
		method, ok := perspective.MethodFor(e.cfg.NormalizationMethod)
		if !ok {
			return nil, &model.ConfigurationError{
				Fields: []string{"normalization_method"},
				Reason: "unknown normalization method " + e.cfg.NormalizationMethod,
			}
		}
		normalizeAllPerspectives(entities, method)
	}

	for i := range entities {
		entity := &entities[i]
		var score float64
		for j := range entity.Perspectives {
			p := &entity.Perspectives[j]
			space, ok := spaceByID[p.SpaceID]
			if !ok || space.SpaceScore <= 0 {
				continue
			}
			score += p.NormalizedScore * space.SpaceScore
		}
		entity.NormalizedScore = score
	}

	sorted := make([]model.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NormalizedScore > sorted[j].NormalizedScore
	})
	return sorted, nil
}

// RankSpaces mutates spaces in place, then returns them sorted by
// space_score descending (ties keep their input order).
func (e *Engine) RankSpaces(spaces []model.Space, entities []model.Entity, users []model.User) []model.Space {
	for i := range spaces {
		spacescore.CalculateSpaceScore(&spaces[i], entities, users, spaces, e.cfg.RootSpaceID)
	}
	if e.cfg.UseActivityMetrics {
		for i := range spaces {
			spaces[i].ActivityScore = spacescore.CalculateActivityScore(&spaces[i], entities)
		}
	}

	sorted := make([]model.Space, len(spaces))
	copy(sorted, spaces)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SpaceScore > sorted[j].SpaceScore
	})
	return sorted
}

// normalizeAllPerspectives groups every entity's perspectives by space_id
// across the whole entity set and normalizes each group independently.
func normalizeAllPerspectives(entities []model.Entity, method perspective.Method) {
	var all []*model.Perspective
	for i := range entities {
		for j := range entities[i].Perspectives {
			all = append(all, &entities[i].Perspectives[j])
		}
	}
	for _, group := range perspective.GroupBySpace(all) {
		method.Normalize(group)
	}
}
