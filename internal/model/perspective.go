package model

import "time"

// PerspectiveID synthesizes the unique id for the (entityID, spaceID) pair.
func PerspectiveID(entityID, spaceID string) string {
	return entityID + "_" + spaceID
}

// Perspective is the projection of one Entity into one Space — the unit
// that actually receives votes and carries a normalized score.
type Perspective struct {
	ID        string
	EntityID  string
	SpaceID   string
	CreatedAt time.Time

	// Version is the stored row's version as read by the provider. The
	// writer does not change it, and it plays no role in any ranking
	// computation.
	Version int

	// Computed fields, populated by internal/perspective.
	Upvotes           int
	Downvotes         int
	RawScore          float64
	NormalizedScore   float64
	ContestationScore float64
}
