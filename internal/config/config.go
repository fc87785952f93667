package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends understood by LINKVAULT_BACKEND.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Backend    string // "redis" | "sqlite" | "memory"
	Namespace  string // key prefix shared by every view of the same dataset
	QuotaBytes int64  // capacity of the namespace, like a browser's per-origin quota
	SQLitePath string // database file for the sqlite backend

	MaxSubFolders  int           // direct children allowed under one parent folder
	TrashRetention time.Duration // soft-deleted links older than this are purged (0 = keep forever)
	GCInterval     time.Duration // interval between trash purges
	CatalogFile    string        // optional YAML overriding the built-in platform folder catalog
	FetchTimeout   time.Duration // timeout for link metadata fetches

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateBurst    int      // mutating requests allowed in a burst per client IP
	RatePerMin   int      // refill rate per client IP
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKVAULT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKVAULT_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKVAULT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKVAULT_PRETTY_LOG", true),

		// Storage
		Backend:    strings.ToLower(getenv("LINKVAULT_BACKEND", BackendRedis)),
		Namespace:  getenv("LINKVAULT_NAMESPACE", "linkvault"),
		QuotaBytes: getenvInt64("LINKVAULT_QUOTA_BYTES", 5*1024*1024),
		SQLitePath: getenv("LINKVAULT_SQLITE_PATH", "linkvault.db"),

		// Data engine
		MaxSubFolders:  getenvInt("LINKVAULT_MAX_SUBFOLDERS", 10),
		TrashRetention: mustDuration("LINKVAULT_TRASH_RETENTION", 30*24*time.Hour),
		GCInterval:     mustDuration("LINKVAULT_GC_INTERVAL", 24*time.Hour),
		CatalogFile:    getenv("LINKVAULT_CATALOG_FILE", ""), // Optional, empty = built-in catalog
		FetchTimeout:   mustDuration("LINKVAULT_FETCH_TIMEOUT", 10*time.Second),

		// Redis settings
		RedisUser:             getenv("LINKVAULT_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LINKVAULT_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("LINKVAULT_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("LINKVAULT_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("LINKVAULT_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("LINKVAULT_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LINKVAULT_TRUST_PROXY", false),
		RateBurst:    getenvInt("LINKVAULT_RATE_BURST", 60),
		RatePerMin:   getenvInt("LINKVAULT_RATE_PER_MIN", 120),
	}

	switch cfg.Backend {
	case BackendRedis:
		cfg.RedisAddr = requireEnv("LINKVAULT_REDIS_ADDR")
	case BackendSQLite, BackendMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: LINKVAULT_BACKEND must be one of redis, sqlite, memory (got %q)", cfg.Backend))
	}

	// Validate Redis password configuration
	if cfg.Backend == BackendRedis && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: LINKVAULT_REDIS_PASSWORD is required when LINKVAULT_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.QuotaBytes <= 0 {
		panic(fmt.Sprintf("❌ FATAL: LINKVAULT_QUOTA_BYTES must be > 0, got %d", cfg.QuotaBytes))
	}
	if cfg.MaxSubFolders < 0 {
		panic(fmt.Sprintf("❌ FATAL: LINKVAULT_MAX_SUBFOLDERS must be >= 0, got %d", cfg.MaxSubFolders))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
