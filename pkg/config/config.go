package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Assembly  AssemblyConfig
	Embedding EmbeddingConfig
	Detector  DetectorConfig
	Live      LiveConfig
	Scoring   ScoringConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type            string // "minio" or "s3"
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// AssemblyConfig holds AssemblyAI transcription configuration
type AssemblyConfig struct {
	APIKey  string
	UseMock bool
}

// EmbeddingConfig holds the sentence-embedding service configuration
type EmbeddingConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	UseMock bool
}

// DetectorConfig holds the emotion detector services configuration
type DetectorConfig struct {
	FacialURL string
	VoiceURL  string
	Timeout   time.Duration
	UseMock   bool
}

// LiveConfig holds live session tuning parameters
type LiveConfig struct {
	StabilityWindow    int
	MinPersistConf     float64
	DrainTimeout       time.Duration
	SnapshotTTL        time.Duration
	EmptyWindowStable  bool
	MaxFrameBytes      int64
}

// ScoringConfig holds assessment scoring parameters
type ScoringConfig struct {
	RelevanceThreshold float64
	EvidenceLimit      int
	Workers            int
	JobTimeout         time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "interview_assistant"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),

			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", "redis_password"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Type:            getEnv("STORAGE_TYPE", "minio"),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "interview-assistant"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		},
		Assembly: AssemblyConfig{
			APIKey:  getEnv("ASSEMBLYAI_API_KEY", ""),
			UseMock: getEnvAsBool("ASSEMBLYAI_USE_MOCK", false),
		},
		Embedding: EmbeddingConfig{
			BaseURL: getEnv("EMBEDDING_BASE_URL", "http://localhost:8100"),
			APIKey:  getEnv("EMBEDDING_API_KEY", ""),
			Model:   getEnv("EMBEDDING_MODEL", "all-MiniLM-L6-v2"),
			UseMock: getEnvAsBool("EMBEDDING_USE_MOCK", false),
		},
		Detector: DetectorConfig{
			FacialURL: getEnv("FACIAL_DETECTOR_URL", "http://localhost:8101"),
			VoiceURL:  getEnv("VOICE_DETECTOR_URL", "http://localhost:8102"),
			Timeout:   getEnvAsDuration("DETECTOR_TIMEOUT", "5s"),
			UseMock:   getEnvAsBool("DETECTOR_USE_MOCK", false),
		},
		Live: LiveConfig{
			StabilityWindow:   getEnvAsInt("LIVE_STABILITY_WINDOW", 5),
			MinPersistConf:    getEnvAsFloat("LIVE_MIN_PERSIST_CONFIDENCE", 0.5),
			DrainTimeout:      getEnvAsDuration("LIVE_DRAIN_TIMEOUT", "5s"),
			SnapshotTTL:       getEnvAsDuration("LIVE_SNAPSHOT_TTL", "30m"),
			EmptyWindowStable: getEnvAsBool("LIVE_EMPTY_WINDOW_STABLE", true),
			MaxFrameBytes:     int64(getEnvAsInt("LIVE_MAX_FRAME_BYTES", 2<<20)),
		},
		Scoring: ScoringConfig{
			RelevanceThreshold: getEnvAsFloat("SCORING_RELEVANCE_THRESHOLD", 0.5),
			EvidenceLimit:      getEnvAsInt("SCORING_EVIDENCE_LIMIT", 3),
			Workers:            getEnvAsInt("SCORING_WORKERS", 4),
			JobTimeout:         getEnvAsDuration("SCORING_JOB_TIMEOUT", "10m"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !c.Assembly.UseMock && c.Assembly.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required when ASSEMBLYAI_USE_MOCK is false")
	}
	if c.Live.StabilityWindow < 1 {
		return fmt.Errorf("LIVE_STABILITY_WINDOW must be at least 1")
	}
	if c.Scoring.RelevanceThreshold < 0 || c.Scoring.RelevanceThreshold > 1 {
		return fmt.Errorf("SCORING_RELEVANCE_THRESHOLD must be between 0 and 1")
	}
	if c.Scoring.Workers < 1 {
		return fmt.Errorf("SCORING_WORKERS must be at least 1")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
