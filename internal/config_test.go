package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", "/tmp/badger")
	t.Setenv("BLUGE_FILEPATH", "/tmp/bluge")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_START_HOUR", "18")
	t.Setenv("ACCESS_END_HOUR", "21")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.Equal(1000, config.MaxContentLength)
	req.Equal(64, config.MaxReplyDepth)
	req.Equal(3, config.RetryAttempts)
	req.Equal(50*time.Millisecond, config.RetryDelay)
	req.Equal("*", config.CharReplacement)
	req.Equal(18, config.AccessStartHour)
	req.Equal(50, config.LimitMessages)
	req.Equal(100000, config.ThreadCacheMaxCost)
	req.NoError(config.Validate())
}

func validConfig() Config {
	return Config{MaxContentLength: 1000, RetryAttempts: 3, LimitMessages: 50, MaxReplyDepth: 64, ThreadCacheMaxCost: 1000}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"hour out of range", func(c *Config) { c.AccessEndHour = 24 }},
		{"negative hour", func(c *Config) { c.AccessStartHour = -1 }},
		{"no content allowed", func(c *Config) { c.MaxContentLength = 0 }},
		{"no attempt", func(c *Config) { c.RetryAttempts = 0 }},
		{"empty pages", func(c *Config) { c.LimitMessages = 0 }},
		{"no reply depth", func(c *Config) { c.MaxReplyDepth = 0 }},
		{"negative reply depth", func(c *Config) { c.MaxReplyDepth = -3 }},
		{"no cache budget", func(c *Config) { c.ThreadCacheMaxCost = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(&config)
			require.Error(t, config.Validate())
		})
	}
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)
	r, err := CharacterRune("#")
	req.NoError(err)
	req.Equal('#', r)
	_, err = CharacterRune("**")
	req.Error(err)
}

func TestWords(t *testing.T) {
	require.Equal(t, []string{"spam", "scam"}, Words(" spam, ,scam ,"))
	require.Empty(t, Words(""))
}
