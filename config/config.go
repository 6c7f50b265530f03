// Package config resolves runtime settings for the LOGI services from the
// process environment, an optional .env file and an optional TOML file.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// FileSettings mirrors the optional TOML configuration file. Every value
// can be overridden by the matching LOGI_* environment variable.
type FileSettings struct {
	Debug    bool   `toml:"debug"`
	LogLevel string `toml:"log_level"`
	LogDir   string `toml:"log_dir"`

	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`

	Auth    ServerSettings `toml:"auth"`
	Logbook ServerSettings `toml:"logbook"`

	Token struct {
		Secret string `toml:"secret"`
		TTL    string `toml:"ttl"`
	} `toml:"token"`

	RateLimit struct {
		Window      string `toml:"window"`
		MaxRequests int    `toml:"max_requests"`
		RedisAddr   string `toml:"redis_addr"`
	} `toml:"rate_limit"`

	CORSOrigins    []string `toml:"cors_origins"`
	TrustedProxies []string `toml:"trusted_proxies"`
	StrictRows     bool     `toml:"strict_rows"`
	AuditDays      int      `toml:"audit_retention_days"`
}

// ServerSettings holds the listen address and TLS files of one HTTP service.
type ServerSettings struct {
	Listen   string `toml:"listen"`
	Port     int    `toml:"port"`
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`
}

var (
	loadOnce sync.Once
	loadErr  error
	file     FileSettings
	fileMu   sync.RWMutex
)

// Load reads the .env file (if present) and the TOML file named by
// LOGI_CONFIG (if set). Environment variables already present win over
// both. It is safe to call more than once; only the first call reads files.
func Load() error {
	loadOnce.Do(func() {
		envFile := os.Getenv("LOGI_ENV_FILE")
		if envFile == "" {
			envFile = ".env"
		}
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				loadErr = fmt.Errorf("load %s: %w", envFile, err)
				return
			}
		}
		if path := os.Getenv("LOGI_CONFIG"); path != "" {
			loadErr = LoadFile(path)
		}
	})
	return loadErr
}

// LoadFile parses a TOML settings file and makes it the file layer.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fs FileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	SetFileSettings(fs)
	return nil
}

// SetFileSettings replaces the file layer. Tests use it to reset state.
func SetFileSettings(fs FileSettings) {
	fileMu.Lock()
	file = fs
	fileMu.Unlock()
}

func fileSettings() FileSettings {
	fileMu.RLock()
	defer fileMu.RUnlock()
	return file
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	return LogLevel(getString("LOGI_LOG_LEVEL", fileSettings().LogLevel, string(Info)))
}

func IsDebug() bool {
	if v, ok := os.LookupEnv("LOGI_DEBUG"); ok {
		return v == "true"
	}
	return fileSettings().Debug
}

func GetLogFolder() string {
	return getString("LOGI_LOG_FOLDER", fileSettings().LogDir, "/var/log/logi")
}

func GetDBPath() string {
	def := "/etc/logi/" + GetName() + ".db"
	if IsDebug() {
		def = "db/" + GetName() + ".db"
	}
	return getString("LOGI_DB_PATH", fileSettings().Database.Path, def)
}

// GetAuthServer returns the listen settings of the authentication service.
func GetAuthServer() ServerSettings {
	fs := fileSettings().Auth
	return ServerSettings{
		Listen:   getString("LOGI_AUTH_LISTEN", fs.Listen, ""),
		Port:     getInt("LOGI_AUTH_PORT", fs.Port, 3002),
		CertFile: getString("LOGI_AUTH_CERT_FILE", fs.CertFile, ""),
		KeyFile:  getString("LOGI_AUTH_KEY_FILE", fs.KeyFile, ""),
	}
}

// GetLogbookServer returns the listen settings of the logbook service.
func GetLogbookServer() ServerSettings {
	fs := fileSettings().Logbook
	return ServerSettings{
		Listen:   getString("LOGI_LOGBOOK_LISTEN", fs.Listen, ""),
		Port:     getInt("LOGI_LOGBOOK_PORT", fs.Port, 3001),
		CertFile: getString("LOGI_LOGBOOK_CERT_FILE", fs.CertFile, ""),
		KeyFile:  getString("LOGI_LOGBOOK_KEY_FILE", fs.KeyFile, ""),
	}
}

// GetTokenSecret returns the shared HMAC secret. Both services must see the
// same value or tokens issued by one are rejected by the other.
func GetTokenSecret() string {
	return getString("LOGI_TOKEN_SECRET", fileSettings().Token.Secret, "")
}

func GetTokenTTL() time.Duration {
	return getDuration("LOGI_TOKEN_TTL", fileSettings().Token.TTL, 7*24*time.Hour)
}

func GetRateLimitWindow() time.Duration {
	return getDuration("LOGI_RATE_LIMIT_WINDOW", fileSettings().RateLimit.Window, time.Minute)
}

func GetRateLimitMax() int {
	return getInt("LOGI_RATE_LIMIT_MAX", fileSettings().RateLimit.MaxRequests, 100)
}

// GetRedisAddr returns the Redis address for the rate-limit store. Empty
// means the in-process store is used and "embedded" starts one in process.
func GetRedisAddr() string {
	return getString("LOGI_REDIS_ADDR", fileSettings().RateLimit.RedisAddr, "")
}

func GetCORSOrigins() []string {
	if origins := getList("LOGI_CORS_ORIGINS", fileSettings().CORSOrigins); len(origins) > 0 {
		return origins
	}
	return []string{"*"}
}

// GetTrustedProxies returns the proxy addresses or CIDRs whose forwarding
// headers are believed. Empty means the client IP is the socket peer.
func GetTrustedProxies() []string {
	return getList("LOGI_TRUSTED_PROXIES", fileSettings().TrustedProxies)
}

func getList(key string, fileValue []string) []string {
	if v := os.Getenv(key); v != "" {
		list := make([]string, 0)
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		return list
	}
	if len(fileValue) > 0 {
		return fileValue
	}
	return nil
}

// IsStrictRows reports whether partially filled form rows are rejected.
func IsStrictRows() bool {
	if v, ok := os.LookupEnv("LOGI_STRICT_ROWS"); ok {
		return v == "true"
	}
	return fileSettings().StrictRows
}

func GetAuditRetentionDays() int {
	return getInt("LOGI_AUDIT_RETENTION_DAYS", fileSettings().AuditDays, 90)
}

func getString(key, fileValue, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return def
}

func getInt(key string, fileValue, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		fmt.Fprintf(os.Stderr, "invalid integer for %s: %q, using default\n", key, v)
	}
	if fileValue != 0 {
		return fileValue
	}
	return def
}

func getDuration(key, fileValue string, def time.Duration) time.Duration {
	for _, v := range []string{os.Getenv(key), fileValue} {
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s: %q, ignored\n", key, v)
	}
	return def
}
