package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host                   string        `env:"HOST,default=localhost"`
	Port                   int           `env:"PORT,default=8080"`
	MetricsPort            int           `env:"METRICS_PORT,default=9090"`
	LogLevel               string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath         string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath          string        `env:"BLUGE_FILEPATH,required=true"`
	LimitMessages          int           `env:"LIMIT_MESSAGES,default=50"`
	MaxContentLength       int           `env:"MAX_CONTENT_LENGTH,default=1000"`
	MaxReplyDepth          int           `env:"MAX_REPLY_DEPTH,default=64"`
	AuthTokenDuration      time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	JWTSecret              string        `env:"JWT_SECRET,required=true"`
	CensoredWords          string        `env:"CENSORED_WORDS"`
	CharReplacement        string        `env:"CHARACTER_REPLACEMENT,default=*"`
	ThreadCacheMaxCost     int           `env:"THREAD_CACHE_MAX_COST,default=100000"`
	ThreadCacheTTL         time.Duration `env:"THREAD_CACHE_TTL,default=5m"`
	AccessStartHour        int           `env:"ACCESS_START_HOUR,default=0"`
	AccessEndHour          int           `env:"ACCESS_END_HOUR,default=0"`
	NotificationBufferSize int           `env:"NOTIFICATION_BUFFER_SIZE,default=256"`
	RestartInterval        time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval         time.Duration `env:"METRIC_INTERVAL,default=10s"`
	RetryAttempts          int           `env:"RETRY_ATTEMPTS,default=3"`
	RetryDelay             time.Duration `env:"RETRY_DELAY,default=50ms"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// Words splits a comma separated list, dropping blanks.
func Words(list string) []string {
	var words []string
	for _, word := range strings.Split(list, ",") {
		if word = strings.TrimSpace(word); word != "" {
			words = append(words, word)
		}
	}
	return words
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	for name, hour := range map[string]int{"ACCESS_START_HOUR": c.AccessStartHour, "ACCESS_END_HOUR": c.AccessEndHour} {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("%s must be between 0 and 23, got %d", name, hour)
		}
	}
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("MAX_CONTENT_LENGTH must be positive, got %d", c.MaxContentLength)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1, got %d", c.RetryAttempts)
	}
	for name, value := range map[string]int{
		"LIMIT_MESSAGES":        c.LimitMessages,
		"MAX_REPLY_DEPTH":       c.MaxReplyDepth,
		"THREAD_CACHE_MAX_COST": c.ThreadCacheMaxCost,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, value)
		}
	}
	return nil
}
