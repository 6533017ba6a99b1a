package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/playshelf/gamesync/pkg/constants"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Sync configuration
	CacheDir     string
	Language     string
	NoCache      bool
	SteamAPIKey  string
	SessionToken string
	TokenCommand []string

	// Collection service
	CollectionURL    string
	CollectionAPIKey string
	CollectionID     string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.gamesync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files before Viper env binding
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindSecrets()

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".gamesync")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		CacheDir:     viper.GetString("cache_dir"),
		Language:     viper.GetString("language"),
		SteamAPIKey:  viper.GetString("steam_api_key"),
		SessionToken: viper.GetString("hltb_token"),
		TokenCommand: viper.GetStringSlice("hltb_token_command"),

		CollectionURL:    viper.GetString("collection_url"),
		CollectionAPIKey: viper.GetString("collection_api_key"),
		CollectionID:     viper.GetString("collection_id"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	// Defaults
	if config.CacheDir == "" {
		config.CacheDir = "cache"
	}
	if config.Language == "" {
		config.Language = constants.DefaultLanguage
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags. Called
// after cobra parses flags so flag values take precedence over config file
// and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel, cacheDir, language string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if cacheDir != "" {
		c.CacheDir = cacheDir
	}
	if language != "" {
		c.Language = language
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindSecrets explicitly binds the secret environment variables to Viper.
func bindSecrets() {
	secrets := []string{
		"STEAM_API_KEY",
		"COLLECTION_URL",
		"COLLECTION_API_KEY",
		"COLLECTION_ID",
		"HLTB_TOKEN",
	}

	for _, key := range secrets {
		_ = viper.BindEnv(key)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
