package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

// Config application configuration
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Analysis AnalysisConfig
	// Provider primary POI source: overpass, postgis or amap
	Provider string `validate:"oneof=overpass postgis amap"`
	// Fallback optional secondary POI source
	Fallback string `validate:"omitempty,oneof=overpass postgis amap,nefield=Provider"`
	Overpass OverpassConfig
	Database DatabaseConfig
	Amap     AmapConfig
	Cache    CacheConfig
	Breaker  BreakerConfig
	// WeightsFile optional YAML weight table, built-in table when empty
	WeightsFile string
}

// ServerConfig HTTP server
type ServerConfig struct {
	Addr            string        `validate:"required"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// LogConfig zerolog settings
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn error"`
	Format string `validate:"oneof=console json"`
}

// AnalysisConfig radius range and default map center
type AnalysisConfig struct {
	MinRadius     int     `validate:"gt=0"`
	MaxRadius     int     `validate:"gtefield=MinRadius"`
	DefaultRadius int     `validate:"gtefield=MinRadius,ltefield=MaxRadius"`
	RadiusStep    int     `validate:"gt=0"`
	DefaultLat    float64 `validate:"latitude"`
	DefaultLng    float64 `validate:"longitude"`
}

// RadiusBounds radius range as a model value
func (c AnalysisConfig) RadiusBounds() model.RadiusBounds {
	return model.RadiusBounds{
		Min:     c.MinRadius,
		Max:     c.MaxRadius,
		Default: c.DefaultRadius,
		Step:    c.RadiusStep,
	}
}

// OverpassConfig OpenStreetMap Overpass API
type OverpassConfig struct {
	URL     string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
	// RPS outbound request rate
	RPS   float64 `validate:"gt=0"`
	Burst int     `validate:"gt=0"`
	// CategoryTags OSM keys read, in order, for a POI's category
	CategoryTags []string `validate:"min=1,dive,required"`
}

// DatabaseConfig PostGIS database
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Table    string
}

// DSN connection string
func (c DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// AmapConfig Amap web service API
type AmapConfig struct {
	Key      string
	Enabled  bool
	BaseURL  string `validate:"required,url"`
	MaxPages int    `validate:"gt=0,lte=100"`
}

// CacheConfig POI cache; Redis when Addr is set, memory otherwise
type CacheConfig struct {
	RedisAddr  string
	TTL        time.Duration `validate:"gte=0"`
	MaxEntries int           `validate:"gt=0"` // memory cache size
}

// BreakerConfig provider circuit breaker
type BreakerConfig struct {
	ConsecutiveFailures uint32        `validate:"gt=0"`
	Timeout             time.Duration `validate:"gt=0"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	amapKey := getEnv("AMAP_KEY", "")
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "console")),
		},
		Analysis: AnalysisConfig{
			MinRadius:     getInt("RADIUS_MIN", 100),
			MaxRadius:     getInt("RADIUS_MAX", 2000),
			DefaultRadius: getInt("RADIUS_DEFAULT", 500),
			RadiusStep:    getInt("RADIUS_STEP", 100),
			DefaultLat:    getFloat("DEFAULT_LAT", 11.936),
			DefaultLng:    getFloat("DEFAULT_LNG", 79.835),
		},
		Provider: strings.ToLower(getEnv("POI_PROVIDER", "overpass")),
		Fallback: strings.ToLower(getEnv("POI_FALLBACK", "")),
		Overpass: OverpassConfig{
			URL:          getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			Timeout:      getDuration("OVERPASS_TIMEOUT", 30*time.Second),
			RPS:          getFloat("OVERPASS_RPS", 1),
			Burst:        getInt("OVERPASS_BURST", 2),
			CategoryTags: getList("OVERPASS_CATEGORY_TAGS", []string{"amenity"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "osm"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Table:    getEnv("DB_POI_TABLE", "osm_poi"),
		},
		Amap: AmapConfig{
			Key:      amapKey,
			Enabled:  amapKey != "",
			BaseURL:  getEnv("AMAP_BASE_URL", "https://restapi.amap.com/v3/place/around"),
			MaxPages: getInt("AMAP_MAX_PAGES", 100),
		},
		Cache: CacheConfig{
			RedisAddr:  getEnv("REDIS_ADDR", ""),
			TTL:        getDuration("CACHE_TTL", 15*time.Minute),
			MaxEntries: getInt("CACHE_MAX_ENTRIES", 1024),
		},
		Breaker: BreakerConfig{
			ConsecutiveFailures: uint32(getInt("BREAKER_FAILURES", 3)),
			Timeout:             getDuration("BREAKER_TIMEOUT", 60*time.Second),
		},
		WeightsFile: WeightsFileFromEnv(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
