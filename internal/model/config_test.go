package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRankingConfigDefaults(t *testing.T) {
	cfg, err := NewRankingConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultRootSpaceID, cfg.RootSpaceID)
	assert.True(t, cfg.NormalizeScores)
	assert.Equal(t, MethodZScore, cfg.NormalizationMethod)
	assert.True(t, cfg.FilterNonMembers)
	assert.False(t, cfg.UseDistanceWeighting)
}

func TestNewRankingConfigRejectsDistanceWeightingWithMembershipFilter(t *testing.T) {
	_, err := NewRankingConfig(
		WithDistanceWeighting(0.8, 10),
		WithMembershipFilter(true),
	)
	require.Error(t, err)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Fields, "use_distance_weighting")
}

func TestNewRankingConfigAllowsDistanceWeightingWithoutMembershipFilter(t *testing.T) {
	cfg, err := NewRankingConfig(
		WithDistanceWeighting(0.8, 10),
		WithMembershipFilter(false),
	)
	require.NoError(t, err)
	assert.True(t, cfg.UseDistanceWeighting)
	assert.False(t, cfg.FilterNonMembers)
}

func TestNewRankingConfigRejectsUnknownNormalizationMethod(t *testing.T) {
	_, err := NewRankingConfig(WithNormalization(true, "bogus"))
	require.Error(t, err)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Fields, "normalization_method")
}

func TestNewRankingConfigSkipsMethodValidationWhenNormalizationDisabled(t *testing.T) {
	cfg, err := NewRankingConfig(WithNormalization(false, "bogus"))
	require.NoError(t, err)
	assert.False(t, cfg.NormalizeScores)
}
