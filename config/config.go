package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ChallengeRules are the league constants for the ladder-challenge phase.
// They come from the league operator, not from code.
type ChallengeRules struct {
	MaxChallengeMatches int // max matches a player may issue as challenger per phase
	RequiredDefenses    int // defenses a player owes before becoming ineligible to be challenged
	RankWindow          int // how many spots above their own rank a challenger may reach
}

// Config holds all application configuration.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	Rules ChallengeRules

	// Object store holding the admin-maintained standings sheets. Optional:
	// when unset the standings import/export endpoints report the source as
	// unavailable, everything else works.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from environment variables, optionally seeded from
// a .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	maxChallenges, err := intEnv("MAX_CHALLENGE_MATCHES", 4)
	if err != nil {
		return nil, err
	}
	requiredDefenses, err := intEnv("REQUIRED_DEFENSES", 2)
	if err != nil {
		return nil, err
	}
	rankWindow, err := intEnv("CHALLENGE_RANK_WINDOW", 4)
	if err != nil {
		return nil, err
	}
	if maxChallenges <= 0 || requiredDefenses < 0 || rankWindow <= 0 {
		return nil, fmt.Errorf("challenge rule values out of range: max=%d defenses=%d window=%d",
			maxChallenges, requiredDefenses, rankWindow)
	}

	cfg := &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		ServerPort:   port,
		Rules: ChallengeRules{
			MaxChallengeMatches: maxChallenges,
			RequiredDefenses:    requiredDefenses,
			RankWindow:          rankWindow,
		},
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

// ObjectStoreConfigured reports whether all R2 settings are present.
func (c *Config) ObjectStoreConfigured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" &&
		c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}
