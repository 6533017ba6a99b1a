package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateFromFlags(t *testing.T) {
	c := &Config{
		CacheDir: "cache",
		Language: "en",
		LogLevel: "info",
	}

	c.UpdateFromFlags(true, false, true, "debug", "/tmp/gs", "de")

	assert.True(t, c.Verbose)
	assert.True(t, c.NoColor)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "/tmp/gs", c.CacheDir)
	assert.Equal(t, "de", c.Language)
}

func TestUpdateFromFlagsEmptyValuesKeepConfig(t *testing.T) {
	c := &Config{
		CacheDir: "cache",
		Language: "en",
		LogLevel: "warn",
	}

	c.UpdateFromFlags(false, false, false, "", "", "")

	assert.Equal(t, "cache", c.CacheDir)
	assert.Equal(t, "en", c.Language)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("GAMESYNC_TEST_KEY", "set")

	assert.Equal(t, "set", getEnvOrDefault("GAMESYNC_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("GAMESYNC_TEST_MISSING", "fallback"))
}
