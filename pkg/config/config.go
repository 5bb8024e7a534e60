package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Checkin  CheckinConfig
	Sections SectionsConfig
	Roster   RosterConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig carries the shared secret used to verify staff access tokens.
// Token issuing lives in the identity service, not here.
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CheckinConfig tunes the scan processing engine.
type CheckinConfig struct {
	CodePrefix   string
	ScanCooldown time.Duration
}

// SectionPolicy holds the regulatory parameters for one section.
type SectionPolicy struct {
	// Ratio is the maximum number of children per educator.
	Ratio int
	// MinAgeMonths and MaxAgeMonths bound the section's age range policy.
	MinAgeMonths int
	MaxAgeMonths int
}

// SectionsConfig maps section identifiers to their regulatory policies.
type SectionsConfig struct {
	Policies map[string]SectionPolicy
}

// RosterConfig governs caching for group roster and occupancy reads.
type RosterConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Checkin = CheckinConfig{
		CodePrefix:   v.GetString("CHECKIN_CODE_PREFIX"),
		ScanCooldown: parseDuration(v.GetString("CHECKIN_SCAN_COOLDOWN"), 5*time.Minute),
	}

	cfg.Sections = SectionsConfig{
		Policies: parseSectionPolicies(v.GetString("SECTION_RATIOS"), v.GetString("SECTION_AGE_BANDS")),
	}

	cfg.Roster = RosterConfig{
		CacheEnabled: v.GetBool("ROSTER_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("ROSTER_CACHE_TTL"), 2*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "nursery_checkin")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CHECKIN_CODE_PREFIX", "LPRDS-")
	v.SetDefault("CHECKIN_SCAN_COOLDOWN", "5m")

	v.SetDefault("SECTION_RATIOS", "infant:5,toddler:8,preschool:10")
	v.SetDefault("SECTION_AGE_BANDS", "infant:3-12,toddler:13-36,preschool:37-72")

	v.SetDefault("ROSTER_CACHE_ENABLED", false)
	v.SetDefault("ROSTER_CACHE_TTL", "2m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// parseSectionPolicies merges the ratio table and the optional age bands.
// Ratios look like "infant:5,toddler:8"; bands look like "infant:3-12".
// Malformed entries are skipped rather than failing startup.
func parseSectionPolicies(ratios, bands string) map[string]SectionPolicy {
	policies := map[string]SectionPolicy{}

	for _, entry := range splitAndTrim(ratios) {
		section, value, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		ratio, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || ratio <= 0 {
			continue
		}
		policies[strings.TrimSpace(section)] = SectionPolicy{Ratio: ratio}
	}

	for _, entry := range splitAndTrim(bands) {
		section, value, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		low, high, ok := strings.Cut(strings.TrimSpace(value), "-")
		if !ok {
			continue
		}
		minAge, errMin := strconv.Atoi(strings.TrimSpace(low))
		maxAge, errMax := strconv.Atoi(strings.TrimSpace(high))
		if errMin != nil || errMax != nil || minAge < 0 || maxAge < minAge {
			continue
		}
		policy := policies[strings.TrimSpace(section)]
		policy.MinAgeMonths = minAge
		policy.MaxAgeMonths = maxAge
		policies[strings.TrimSpace(section)] = policy
	}

	return policies
}
