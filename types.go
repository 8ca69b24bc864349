package geoscore

import "github.com/ashita-ai/geoscore/internal/model"

// These aliases let embedding consumers work with the core's domain types
// without importing internal/model directly.

type (
	Entity        = model.Entity
	Perspective   = model.Perspective
	Space         = model.Space
	User          = model.User
	Vote          = model.Vote
	VoteType      = model.VoteType
	RankingConfig = model.RankingConfig
)

const (
	Upvote   = model.Upvote
	Downvote = model.Downvote
)

// NewRankingConfig builds and validates a RankingConfig. See
// model.NewRankingConfig for the full set of RankingConfigOption functions.
var NewRankingConfig = model.NewRankingConfig

type RankingConfigOption = model.RankingConfigOption
