package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kazerdira/wolverix/backend/internal/game"
)

// Config is the process-wide environment-driven configuration, following
// the bootstrap surface's nested-by-concern shape.
type Config struct {
	Server    ServerConfig
	Profile   ProfileConfig
	Channel   ChannelConfig
	Durations game.Durations
}

type ServerConfig struct {
	Address        string
	Environment    string
	AllowedOrigins []string
}

type ProfileConfig struct {
	DataDir        string
	MaxAvatarBytes int
}

type ChannelConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
}

// Load reads configuration from the environment, applying the documented
// defaults for anything unset.
func Load() *Config {
	durations := game.DefaultDurations()
	applyDurationOverride(&durations.RoleAssign, "DURATION_ROLE_ASSIGN")
	applyDurationOverride(&durations.NightStart, "DURATION_NIGHT_START")
	applyDurationOverride(&durations.NightResolve, "DURATION_NIGHT_RESOLVE")
	applyDurationOverride(&durations.Dawn, "DURATION_DAWN")
	applyDurationOverride(&durations.SheriffElection, "DURATION_SHERIFF_ELECTION")
	applyDurationOverride(&durations.SheriffResult, "DURATION_SHERIFF_RESULT")
	applyDurationOverride(&durations.SpeechOrder, "DURATION_SPEECH_ORDER")
	applyDurationOverride(&durations.VoteResolve, "DURATION_VOTE_RESOLVE")
	applyDurationOverride(&durations.WerewolfTurn, "DURATION_WEREWOLF_TURN")
	applyDurationOverride(&durations.WitchTurn, "DURATION_WITCH_TURN")
	applyDurationOverride(&durations.SeerTurn, "DURATION_SEER_TURN")
	applyDurationOverride(&durations.GuardTurn, "DURATION_GUARD_TURN")
	applyDurationOverride(&durations.SheriffSpeech, "DURATION_SHERIFF_SPEECH")
	applyDurationOverride(&durations.DayDiscussion, "DURATION_DAY_DISCUSSION")
	applyDurationOverride(&durations.Vote, "DURATION_VOTE")
	applyDurationOverride(&durations.SheriffVote, "DURATION_SHERIFF_VOTE")

	return &Config{
		Server: ServerConfig{
			Address:        getEnv("SERVER_ADDRESS", ":8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		},
		Profile: ProfileConfig{
			DataDir:        getEnv("DATA_DIR", "./data"),
			MaxAvatarBytes: getEnvAsInt("MAX_AVATAR_BYTES", 8<<20),
		},
		Channel: ChannelConfig{
			TokenSecret: getEnv("CHANNEL_TOKEN_SECRET", "dev-channel-secret-change-in-production"),
			TokenTTL:    30 * time.Second,
		},
		Durations: durations,
	}
}

func applyDurationOverride(field *time.Duration, key string) {
	if value, exists := os.LookupEnv(key); exists {
		if seconds, err := strconv.Atoi(value); err == nil {
			*field = time.Duration(seconds) * time.Second
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
