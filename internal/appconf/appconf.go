package appconf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment is the operating environment of the application.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment maps the value of the -env flag to an Environment.
// Unknown values fall back to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// Config holds the settings for the HTTP application.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int // requests per second per API key
	// RateLimitExemptKeys are trusted keys, such as station signage, that skip the rate limit.
	RateLimitExemptKeys []string
}

// LoadDotEnv loads a .env file into the process environment.
// A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// GetenvDefault returns the value of the environment variable k, or def when unset.
func GetenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// GetenvInt returns the integer value of k, or def when unset.
func GetenvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("invalid %s: %q", k, v)
	}
	return i, nil
}

// GetenvBool returns the boolean value of k, or def when unset.
func GetenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// LoadLocation resolves an IANA zone name. An empty name means the local clock.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ: %w", err)
	}
	return loc, nil
}

// SplitAPIKeys parses a comma separated key list, dropping blanks.
func SplitAPIKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
