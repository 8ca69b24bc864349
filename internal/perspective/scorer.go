// Package perspective tallies surviving votes into per-perspective and
// per-entity scores, and normalizes perspective scores within a space.
package perspective

import "github.com/ashita-ai/geoscore/internal/model"

// Tally computes upvotes, downvotes, weighted sums, raw_score and
// contestation_score for a single perspective from the votes matching its
// entity_id and space_id. It does not filter votes itself — callers pass in
// the already-filtered set for this perspective.
func Tally(p *model.Perspective, votes []model.Vote) {
	var weightedUp, weightedDown float64
	var up, down int

	for _, v := range votes {
		if v.EntityID != p.EntityID || v.SpaceID != p.SpaceID {
			continue
		}
		switch v.VoteType {
		case model.Upvote:
			up++
			weightedUp += v.Weight
		case model.Downvote:
			down++
			weightedDown += v.Weight
		}
	}

	p.Upvotes = up
	p.Downvotes = down
	p.RawScore = weightedUp - weightedDown
	p.ContestationScore = weightedUp + weightedDown
}

// Aggregate sums upvotes, downvotes, raw_score, and contestation_score over
// an entity's owned perspectives. It does not re-normalize the sum — the
// entity's normalized_score is computed separately by the Ranking Engine
// from space-weighted perspective scores, not from this aggregate.
func Aggregate(e *model.Entity) {
	var up, down int
	var raw, contestation float64
	for _, p := range e.Perspectives {
		up += p.Upvotes
		down += p.Downvotes
		raw += p.RawScore
		contestation += p.ContestationScore
	}
	e.Upvotes = up
	e.Downvotes = down
	e.RawScore = raw
	e.ContestationScore = contestation
}
