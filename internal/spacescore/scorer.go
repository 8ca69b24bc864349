// Package spacescore computes each space's positional weight from its
// distance to the root space, plus its member/entity counts and (optionally)
// its activity score.
package spacescore

import (
	"math"

	"github.com/ashita-ai/geoscore/internal/model"
)

// CalculateSpaceScore populates space.DistanceToRoot, space.SpaceScore,
// space.MemberCount, and space.EntityCount in place.
func CalculateSpaceScore(space *model.Space, entities []model.Entity, users []model.User, spaces []model.Space, rootSpaceID string) {
	space.DistanceToRoot = distanceToRoot(*space, spaces, rootSpaceID, model.MaxSpaceDepth)
	space.SpaceScore = math.Pow(model.SpaceScoreDecayBase, float64(space.DistanceToRoot))

	memberCount := 0
	for _, u := range users {
		if u.IsMemberOrEditor(space.ID) {
			memberCount++
		}
	}
	space.MemberCount = memberCount

	entityCount := 0
	for _, e := range entities {
		for _, p := range e.Perspectives {
			if p.SpaceID == space.ID {
				entityCount++
				break
			}
		}
	}
	space.EntityCount = entityCount
}

// CalculateActivityScore sums raw_score over every perspective belonging to
// space. It reads the RawScore values the perspectives already carry; it
// does not tally votes itself, and neither does Engine.RankSpaces before
// calling it.
func CalculateActivityScore(space *model.Space, entities []model.Entity) float64 {
	var activity float64
	for _, e := range entities {
		for _, p := range e.Perspectives {
			if p.SpaceID == space.ID {
				activity += p.RawScore
			}
		}
	}
	return activity
}

// distanceToRoot ascends the parent_space_id chain from space, guarding
// against cycles via a visited set. Returns 0 if space is the root, or
// maxDepth+1 if the root cannot be reached within maxDepth hops.
//
// FIXME: single-parent only. Multi-parent space/subspace relations are
// out of scope.
func distanceToRoot(space model.Space, spaces []model.Space, rootSpaceID string, maxDepth int) int {
	if space.ID == rootSpaceID {
		return 0
	}
	if space.ParentSpaceID == nil || *space.ParentSpaceID == "" {
		return maxDepth + 1
	}

	lookup := make(map[string]model.Space, len(spaces))
	for _, s := range spaces {
		lookup[s.ID] = s
	}

	distance := 1
	currentID := *space.ParentSpaceID
	visited := map[string]bool{space.ID: true}

	for currentID != "" && !visited[currentID] && distance <= maxDepth {
		visited[currentID] = true
		if currentID == rootSpaceID {
			return distance
		}
		current, ok := lookup[currentID]
		if !ok {
			break
		}
		distance++
		if current.ParentSpaceID == nil {
			currentID = ""
		} else {
			currentID = *current.ParentSpaceID
		}
	}

	return maxDepth + 1
}
