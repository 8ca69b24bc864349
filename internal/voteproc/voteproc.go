// Package voteproc applies the two vote-processing stages the Ranking
// Engine runs before perspective scoring: distance-based reweighting and
// membership filtering.
package voteproc

import (
	"math"

	"github.com/ashita-ai/geoscore/internal/distance"
	"github.com/ashita-ai/geoscore/internal/model"
)

// ApplyDistanceWeighting runs Stage A over votes, using distances to look up
// the hop count between a voting user's closest space and the vote's space.
// A vote whose user cannot be found passes through unchanged. A vote whose
// resulting weight is zero is dropped from the output.
func ApplyDistanceWeighting(votes []model.Vote, users []model.User, distances distance.Map, cfg model.RankingConfig) []model.Vote {
	usersByID := make(map[string]model.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	out := make([]model.Vote, 0, len(votes))
	for _, v := range votes {
		user, ok := usersByID[v.UserID]
		if !ok {
			out = append(out, v)
			continue
		}

		userSpaces := user.Spaces()

		var minDistance int
		if len(userSpaces) == 0 {
			// Deliberately max_distance, not max_distance+1: this still
			// admits a nonzero weight of distance_weight_base^max_distance
			// rather than zeroing the vote outright.
			minDistance = cfg.MaxDistance
		} else {
			minDistance = cfg.MaxDistance + 1
			for s := range userSpaces {
				if d, found := distances.Get(s, v.SpaceID); found && d < minDistance {
					minDistance = d
				}
			}
		}

		if minDistance > cfg.MaxDistance {
			continue
		}

		v.Weight = v.Weight * math.Pow(cfg.DistanceWeightBase, float64(minDistance))
		if v.Weight <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// FilterForEntity runs Stage B over votes for one entity; votes cast on any
// other entity are dropped. A vote survives only if the entity owns a perspective matching the vote's
// space and the voting user is a member or editor of that space. Votes with
// no matching perspective are always dropped, independent of filterEnabled.
func FilterForEntity(votes []model.Vote, users []model.User, entity model.Entity, filterEnabled bool) []model.Vote {
	usersByID := make(map[string]model.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	perspectiveSpaces := make(map[string]struct{}, len(entity.Perspectives))
	for _, p := range entity.Perspectives {
		perspectiveSpaces[p.SpaceID] = struct{}{}
	}

	out := make([]model.Vote, 0, len(votes))
	for _, v := range votes {
		if v.EntityID != entity.ID {
			continue
		}
		if _, ok := perspectiveSpaces[v.SpaceID]; !ok {
			continue
		}
		if filterEnabled {
			user, ok := usersByID[v.UserID]
			if !ok || !user.IsMemberOrEditor(v.SpaceID) {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}
