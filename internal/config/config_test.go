package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "project-thumbnails", cfg.Storage.Bucket)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxThumbnailBytes)
	assert.Equal(t, 80, cfg.Hours.GoalHours)
	assert.Equal(t, 8, cfg.Provisioning.MaxTries)
	assert.False(t, cfg.Provisioning.External)
	assert.Equal(t, 200*time.Millisecond, cfg.Provisioning.InitialInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("PORT", "9090")
	t.Setenv("SERVICE_HOURS_GOAL", "40")
	t.Setenv("PROFILE_POLL_INITIAL", "50ms")
	t.Setenv("STORAGE_USE_PATH_STYLE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 40, cfg.Hours.GoalHours)
	assert.Equal(t, 50*time.Millisecond, cfg.Provisioning.InitialInterval)
	assert.False(t, cfg.Storage.UsePathStyle)
}

func TestLoad_RequiresAuth(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "SUPABASE_URL")
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", db.GetDSN())
}
