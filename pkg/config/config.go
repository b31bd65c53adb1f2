// Package config loads repository settings from a TOML file.
//
// The commit identity and timestamp are configuration inputs rather than
// values read from the environment or the clock, so commits are
// reproducible byte for byte.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/odvcencio/gitodb/pkg/object"
)

// FileName is the repository-local config file inside the .git directory.
const FileName = "gitodb.toml"

const (
	BackendLoose  = "loose"
	BackendBadger = "badger"
)

// Config stores repository settings.
type Config struct {
	User   User   `toml:"user"`
	Commit Commit `toml:"commit"`
	Core   Core   `toml:"core"`
}

// User is the identity written to author and committer lines.
type User struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// Commit holds the fixed commit timestamp.
type Commit struct {
	Timestamp int64  `toml:"timestamp"`
	Timezone  string `toml:"timezone"`
}

// Core holds object database settings.
type Core struct {
	Compression int    `toml:"compression"`
	Backend     string `toml:"backend"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		User: User{
			Name:  "John Doe",
			Email: "john@example.com",
		},
		Commit: Commit{
			Timestamp: 1234567890,
			Timezone:  "+0000",
		},
		Core: Core{
			Compression: object.DefaultCompression,
			Backend:     BackendLoose,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Unknown keys are an error.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadFile is Load for a file the caller named explicitly: a missing file is
// an error rather than the defaults.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, optional bool) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("read config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.User.Name) == "" {
		return fmt.Errorf("user.name is required")
	}
	if strings.ContainsAny(c.User.Name, "<>\n") {
		return fmt.Errorf("user.name %q must not contain '<', '>' or newlines", c.User.Name)
	}
	if strings.ContainsAny(c.User.Email, "<>\n") {
		return fmt.Errorf("user.email %q must not contain '<', '>' or newlines", c.User.Email)
	}
	if !validTimezone(c.Commit.Timezone) {
		return fmt.Errorf("commit.timezone %q must look like +hhmm or -hhmm", c.Commit.Timezone)
	}
	if c.Core.Compression < -2 || c.Core.Compression > 9 {
		return fmt.Errorf("core.compression %d out of range [-2, 9]", c.Core.Compression)
	}
	switch c.Core.Backend {
	case BackendLoose, BackendBadger:
	default:
		return fmt.Errorf("core.backend %q must be %q or %q", c.Core.Backend, BackendLoose, BackendBadger)
	}
	return nil
}

// Identity returns the signature used for both author and committer.
func (c *Config) Identity() object.Signature {
	return object.Signature{
		Name:  c.User.Name,
		Email: c.User.Email,
		When:  c.Commit.Timestamp,
		Zone:  c.Commit.Timezone,
	}
}

func validTimezone(tz string) bool {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return false
	}
	for _, c := range tz[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
