package perspective

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashita-ai/geoscore/internal/model"
)

func TestTallyCountsAndWeights(t *testing.T) {
	p := model.Perspective{EntityID: "e1", SpaceID: "s1"}
	votes := []model.Vote{
		{EntityID: "e1", SpaceID: "s1", VoteType: model.Upvote, Weight: 1.0},
		{EntityID: "e1", SpaceID: "s1", VoteType: model.Upvote, Weight: 0.5},
		{EntityID: "e1", SpaceID: "s1", VoteType: model.Downvote, Weight: 2.0},
		{EntityID: "e1", SpaceID: "s2", VoteType: model.Upvote, Weight: 99}, // different space, ignored
		{EntityID: "e2", SpaceID: "s1", VoteType: model.Upvote, Weight: 99}, // different entity, ignored
	}
	Tally(&p, votes)
	assert.Equal(t, 2, p.Upvotes)
	assert.Equal(t, 1, p.Downvotes)
	assert.InDelta(t, 1.5-2.0, p.RawScore, 1e-12)
	assert.InDelta(t, 1.5+2.0, p.ContestationScore, 1e-12)
}

func TestAggregateSumsOwnedPerspectivesWithoutRenormalizing(t *testing.T) {
	e := model.Entity{
		Perspectives: []model.Perspective{
			{Upvotes: 3, Downvotes: 1, RawScore: 2, ContestationScore: 4},
			{Upvotes: 1, Downvotes: 2, RawScore: -1, ContestationScore: 3},
		},
	}
	Aggregate(&e)
	assert.Equal(t, 4, e.Upvotes)
	assert.Equal(t, 3, e.Downvotes)
	assert.InDelta(t, 1.0, e.RawScore, 1e-12)
	assert.InDelta(t, 7.0, e.ContestationScore, 1e-12)
}
