// Package config holds runtime settings for the search server and CLI.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"nostr-search/internal/relay"
)

// Config is the settings shared by every command
type Config struct {
	Port         int
	LogLevel     string
	RelaysPath   string
	RedisURL     string
	QueryTimeout time.Duration
	ChunkSize    int
	PageStep     int

	Relays *Relays
}

// Address returns the HTTP listen address
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate checks every setting
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.LogLevel, validation.In("", "debug", "info", "warn", "error")),
		validation.Field(&c.RedisURL, validation.By(redisURL)),
		validation.Field(&c.QueryTimeout, validation.Required, validation.Min(100*time.Millisecond), validation.Max(time.Minute)),
		validation.Field(&c.ChunkSize, validation.Required, validation.Min(1), validation.Max(1000)),
		validation.Field(&c.PageStep, validation.Required, validation.Min(1), validation.Max(100)),
	); err != nil {
		return err
	}
	if c.Relays == nil {
		return nil
	}
	return c.Relays.Validate()
}

// Validate checks that every configured relay is a websocket URL
func (r *Relays) Validate() error {
	relayURL := validation.Each(validation.By(func(v any) error {
		s, _ := v.(string)
		if !relay.IsRelayURL(s) {
			return fmt.Errorf("%q is not a ws:// or wss:// URL", s)
		}
		return nil
	}))
	return validation.ValidateStruct(r,
		validation.Field(&r.DirectoryRelays, validation.Required, relayURL),
		validation.Field(&r.FollowRelays, validation.Required, relayURL),
		validation.Field(&r.BackupRelays, validation.Required, relayURL),
		validation.Field(&r.SearchRelays, validation.Required, relayURL),
	)
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func redisURL(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return fmt.Errorf("scheme must be redis or rediss")
	}
	return nil
}
