package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SIAKAD_JWT_SECRET", "secret")
	t.Setenv("SIAKAD_APP_PORT", "9090")
	t.Setenv("SIAKAD_DASHBOARD_CACHE_TTL", "30s")
	t.Setenv("SIAKAD_GRADING_THRESHOLD_A", "90")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 30*time.Second, cfg.DashboardCacheTTL)
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.Equal(t, 90.0, cfg.GradingScale.A)
	require.Equal(t, 75.0, cfg.GradingScale.B)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("SIAKAD_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidScale(t *testing.T) {
	t.Setenv("SIAKAD_JWT_SECRET", "secret")
	t.Setenv("SIAKAD_GRADING_THRESHOLD_B", "95")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "grading scale")
}
