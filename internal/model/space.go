package model

import "time"

// Space-score constants. The root space id is deliberately NOT among them —
// it is a deployment-wide identifier carried on RankingConfig, not a
// hard-coded literal.
const (
	SpaceScoreDecayBase    = 0.8
	DisconnectedSpaceDepth = 11
	MaxSpaceDepth          = 10
)

// Space is a node in the single-parent tree rooted at RankingConfig.RootSpaceID.
type Space struct {
	ID             string
	CreatedAt      time.Time
	ParentSpaceID  *string
	ChildSpaceIDs  map[string]struct{}

	// Computed fields, populated by internal/spacescore.
	DistanceToRoot int
	SpaceScore     float64
	MemberCount    int
	EntityCount    int
	ActivityScore  float64
}
