package config

import (
	"testing"
	"time"
)

func TestEnvIntValid(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	var errs []error
	v := intFromEnvOrFile("TEST_INT", nil, 0, &errs)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestEnvIntFallsBackToFileThenDefault(t *testing.T) {
	var errs []error
	v := intFromEnvOrFile("TEST_INT_MISSING", nil, 99, &errs)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if v != 99 {
		t.Fatalf("expected fallback 99, got %d", v)
	}

	fileVal := 7
	v = intFromEnvOrFile("TEST_INT_MISSING", &fileVal, 99, &errs)
	if v != 7 {
		t.Fatalf("expected file value 7, got %d", v)
	}
}

func TestEnvIntInvalidRecordsError(t *testing.T) {
	t.Setenv("TEST_INT_BAD", "abc")
	var errs []error
	intFromEnvOrFile("TEST_INT_BAD", nil, 0, &errs)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %d", len(errs))
	}
	if got := errs[0].Error(); !contains(got, "TEST_INT_BAD") || !contains(got, "abc") {
		t.Fatalf("unexpected error message: %s", got)
	}
}

func TestEnvBoolValid(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	var errs []error
	v := boolFromEnvOrFile("TEST_BOOL", nil, false, &errs)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !v {
		t.Fatal("expected true")
	}
}

func TestEnvBoolInvalidRecordsError(t *testing.T) {
	t.Setenv("TEST_BOOL_BAD", "maybe")
	var errs []error
	boolFromEnvOrFile("TEST_BOOL_BAD", nil, false, &errs)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %d", len(errs))
	}
}

func TestEnvDurationValid(t *testing.T) {
	t.Setenv("TEST_DUR", "5s")
	v, err := envDuration("TEST_DUR", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Seconds() != 5 {
		t.Fatalf("expected 5s, got %s", v)
	}
}

func TestEnvDurationInvalid(t *testing.T) {
	t.Setenv("TEST_DUR_BAD", "five-seconds")
	_, err := envDuration("TEST_DUR_BAD", 0)
	if err == nil {
		t.Fatal("expected error for invalid duration, got nil")
	}
}

func TestLoadSucceedsWithDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected Load() to succeed with defaults, got: %v", err)
	}
	if cfg.Ranking.RootSpaceID != "root" {
		t.Fatalf("expected default root space id 'root', got %q", cfg.Ranking.RootSpaceID)
	}
	if !cfg.Ranking.NormalizeScores {
		t.Fatal("expected normalize_scores default true")
	}
	if cfg.Ranking.NormalizationMethod != "z_score" {
		t.Fatalf("expected default normalization method z_score, got %q", cfg.Ranking.NormalizationMethod)
	}
}

func TestLoadFailsOnInvalidMaxDistance(t *testing.T) {
	t.Setenv("GEOSCORE_MAX_DISTANCE", "abc")
	_, err := Load()
	if err == nil {
		t.Fatal("expected Load() to fail with invalid GEOSCORE_MAX_DISTANCE")
	}
	if got := err.Error(); !contains(got, "GEOSCORE_MAX_DISTANCE") {
		t.Fatalf("error should mention GEOSCORE_MAX_DISTANCE, got: %s", got)
	}
}

func TestLoadFailsOnIncompatibleRankingFlags(t *testing.T) {
	t.Setenv("GEOSCORE_USE_DISTANCE_WEIGHTING", "true")
	t.Setenv("GEOSCORE_FILTER_NON_MEMBERS", "true")
	_, err := Load()
	if err == nil {
		t.Fatal("expected Load() to fail when distance weighting and membership filter are both enabled")
	}
}

func TestLoadHonorsRankingEnvOverrides(t *testing.T) {
	t.Setenv("GEOSCORE_ROOT_SPACE_ID", "community-root")
	t.Setenv("GEOSCORE_NORMALIZATION_METHOD", "min_max")
	t.Setenv("GEOSCORE_USE_TIME_DECAY", "true")
	t.Setenv("GEOSCORE_TIME_DECAY_FACTOR", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected Load() to succeed, got: %v", err)
	}
	if cfg.Ranking.RootSpaceID != "community-root" {
		t.Fatalf("expected root space id override, got %q", cfg.Ranking.RootSpaceID)
	}
	if cfg.Ranking.NormalizationMethod != "min_max" {
		t.Fatalf("expected normalization method override, got %q", cfg.Ranking.NormalizationMethod)
	}
	if !cfg.Ranking.UseTimeDecay {
		t.Fatal("expected time decay enabled")
	}
	if cfg.Ranking.TimeDecayFactor != 0.25 {
		t.Fatalf("expected time decay factor 0.25, got %f", cfg.Ranking.TimeDecayFactor)
	}
}

func TestLoadHonorsServiceLevelEnvOverrides(t *testing.T) {
	t.Setenv("GEOSCORE_DATABASE_URL", "postgres://test:test@db:5432/testdb")
	t.Setenv("OTEL_SERVICE_NAME", "geoscore-test")
	t.Setenv("GEOSCORE_LOG_LEVEL", "debug")
	t.Setenv("GEOSCORE_QUERY_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected Load() to succeed, got: %v", err)
	}
	if cfg.DatabaseURL != "postgres://test:test@db:5432/testdb" {
		t.Fatalf("expected DatabaseURL override, got %q", cfg.DatabaseURL)
	}
	if cfg.ServiceName != "geoscore-test" {
		t.Fatalf("expected ServiceName override, got %q", cfg.ServiceName)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected LogLevel override, got %q", cfg.LogLevel)
	}
	if cfg.QueryTimeout != 45*time.Second {
		t.Fatalf("expected QueryTimeout 45s, got %s", cfg.QueryTimeout)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && searchSubstring(s, substr)
}

func searchSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
