package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/onelink/portfolio-api/internal/config"
)

// Endpoint classes used as bucket keys.
const (
	ClassAuth    = "auth"
	ClassUpload  = "upload"
	ClassDefault = "default"
)

// EndpointConfig limits one class of endpoints. A Path ending in "/" matches
// every path below it.
type EndpointConfig struct {
	Class  string
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit when zero
}

// LoadConfig reads the RATE_LIMIT_* environment. Unparseable values fall back
// to their defaults rather than failing startup.
func LoadConfig() *Config {
	env := envLookup(os.LookupEnv)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       ipSet(env.string("RATE_LIMIT_WHITELIST")),
		Blacklist:       ipSet(env.string("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(
			env.int("RATE_LIMIT_AUTH_LIMIT", 20),
			env.int("RATE_LIMIT_UPLOAD_LIMIT", 10),
		),
	}
}

// DefaultEndpointConfigs returns the auth and upload classes with
// per-minute limits. Credential checks are the brute-force target and
// uploads hold a temp file during extraction, so both get small bursts.
func DefaultEndpointConfigs(authLimit, uploadLimit int) []EndpointConfig {
	return []EndpointConfig{
		{Class: ClassAuth, Path: "/auth/", Method: http.MethodPost, Limit: authLimit, Window: time.Minute, Burst: 5},
		{Class: ClassUpload, Path: "/resume/upload", Method: http.MethodPost, Limit: uploadLimit, Window: time.Minute, Burst: 3},
	}
}

// unlimitedPaths are probes and landing routes that are never limited.
var unlimitedPaths = map[string]bool{
	"/":        true,
	"/health":  true,
	"/metrics": true,
}

// MatchEndpoint returns the config governing a request, or nil when the
// default limit applies. Unlimited paths yield a config with Limit 0. An
// exact path wins over a prefix, and longer prefixes win over shorter ones.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && unlimitedPaths[path] {
		return &EndpointConfig{Limit: 0}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}

type envLookup func(string) (string, bool)

func (l envLookup) string(key string) string {
	v, _ := l(key)
	return v
}

func (l envLookup) int(key string, def int) int {
	if n, err := strconv.Atoi(l.string(key)); err == nil {
		return n
	}
	return def
}

func (l envLookup) bool(key string, def bool) bool {
	if b, err := strconv.ParseBool(l.string(key)); err == nil {
		return b
	}
	return def
}

func (l envLookup) duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(l.string(key)); err == nil {
		return d
	}
	return def
}

func ipSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range config.SplitList(list) {
		set[ip] = true
	}
	return set
}
