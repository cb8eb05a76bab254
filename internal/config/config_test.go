package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultsWhenEnvironmentUnset(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 45*time.Second, cfg.Durations.WerewolfTurn)
}

func TestLoad_DurationOverrideAppliesInSeconds(t *testing.T) {
	t.Setenv("DURATION_WEREWOLF_TURN", "30")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.Durations.WerewolfTurn)
}

func TestLoad_MalformedDurationOverrideKeepsDefault(t *testing.T) {
	t.Setenv("DURATION_VOTE", "not-a-number")

	cfg := Load()

	assert.Equal(t, 45*time.Second, cfg.Durations.Vote)
}

func TestLoad_AllowedOriginsSplitsOnComma(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Load()

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}
