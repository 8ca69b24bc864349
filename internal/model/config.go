package model

// Normalization method names. These are the only string names that cross the
// config boundary; everywhere else normalization is modeled as a tagged
// variant (see internal/perspective.Method).
const (
	MethodZScore        = "z_score"
	MethodMinMax        = "min_max"
	MethodRank          = "rank"
	MethodZScoreSigmoid = "z_score_sigmoid"
)

// DefaultRootSpaceID is used when no RootSpaceID option is supplied. Real
// deployments are expected to override it via WithRootSpaceID — treat it as
// a configuration value, never a hard-coded literal elsewhere in the code.
const DefaultRootSpaceID = "root"

// RankingConfig is the process-wide, immutable-per-run configuration for the
// ranking core.
type RankingConfig struct {
	RootSpaceID string

	UseContestationScore bool
	UseTimeDecay         bool
	TimeDecayFactor      float64

	IncludeSubspaceVotes bool
	UseActivityMetrics   bool

	UseDistanceWeighting bool
	DistanceWeightBase   float64
	MaxDistance          int

	NormalizeScores     bool
	NormalizationMethod string

	FilterNonMembers       bool
	RequireSpaceMembership bool
}

// RankingConfigOption mutates a RankingConfig during construction.
type RankingConfigOption func(*RankingConfig)

func WithRootSpaceID(id string) RankingConfigOption {
	return func(c *RankingConfig) { c.RootSpaceID = id }
}

func WithContestationScore(use bool) RankingConfigOption {
	return func(c *RankingConfig) { c.UseContestationScore = use }
}

func WithTimeDecay(factor float64) RankingConfigOption {
	return func(c *RankingConfig) {
		c.UseTimeDecay = true
		c.TimeDecayFactor = factor
	}
}

func WithSubspaceVotes(include bool) RankingConfigOption {
	return func(c *RankingConfig) { c.IncludeSubspaceVotes = include }
}

func WithActivityMetrics(use bool) RankingConfigOption {
	return func(c *RankingConfig) { c.UseActivityMetrics = use }
}

// WithDistanceWeighting enables distance-based vote reweighting. It is
// incompatible with WithMembershipFilter(true) — NewRankingConfig rejects
// that combination.
func WithDistanceWeighting(base float64, maxDistance int) RankingConfigOption {
	return func(c *RankingConfig) {
		c.UseDistanceWeighting = true
		c.DistanceWeightBase = base
		c.MaxDistance = maxDistance
	}
}

func WithMaxDistance(maxDistance int) RankingConfigOption {
	return func(c *RankingConfig) { c.MaxDistance = maxDistance }
}

func WithNormalization(enabled bool, method string) RankingConfigOption {
	return func(c *RankingConfig) {
		c.NormalizeScores = enabled
		c.NormalizationMethod = method
	}
}

func WithMembershipFilter(filter bool) RankingConfigOption {
	return func(c *RankingConfig) { c.FilterNonMembers = filter }
}

func WithSpaceMembershipRequired(require bool) RankingConfigOption {
	return func(c *RankingConfig) { c.RequireSpaceMembership = require }
}

func defaultRankingConfig() RankingConfig {
	return RankingConfig{
		RootSpaceID:            DefaultRootSpaceID,
		UseContestationScore:   true,
		UseTimeDecay:           false,
		TimeDecayFactor:        0.1,
		IncludeSubspaceVotes:   false,
		UseActivityMetrics:     false,
		UseDistanceWeighting:   false,
		DistanceWeightBase:     0.8,
		MaxDistance:            10,
		NormalizeScores:        true,
		NormalizationMethod:    MethodZScore,
		FilterNonMembers:       true,
		RequireSpaceMembership: true,
	}
}

// NewRankingConfig builds a RankingConfig from its defaults plus opts,
// applied in order, and validates the result. It is the one constructor
// that validates — validation happens once, here, so every downstream
// component built from its result can trust the config it's handed. A
// RankingConfig struct literal is not validated.
func NewRankingConfig(opts ...RankingConfigOption) (RankingConfig, error) {
	cfg := defaultRankingConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return RankingConfig{}, err
	}
	return cfg, nil
}

func (c RankingConfig) validate() error {
	if c.UseDistanceWeighting && c.FilterNonMembers {
		return &ConfigurationError{
			Fields: []string{"use_distance_weighting", "filter_non_members"},
			Reason: "distance weighting already encodes proximity; combining it with the membership filter is incoherent. Set filter_non_members=false when using distance weighting",
		}
	}
	if c.NormalizeScores && !validNormalizationMethod(c.NormalizationMethod) {
		return &ConfigurationError{
			Fields: []string{"normalization_method"},
			Reason: "must be one of z_score, min_max, rank, z_score_sigmoid, got " + c.NormalizationMethod,
		}
	}
	return nil
}

func validNormalizationMethod(method string) bool {
	switch method {
	case MethodZScore, MethodMinMax, MethodRank, MethodZScoreSigmoid:
		return true
	default:
		return false
	}
}
