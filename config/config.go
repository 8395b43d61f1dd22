package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	S3Bucket      string
	S3Region      string
	S3AccessKeyID string
	S3SecretKey   string
	MaxUploadMB   int64

	// Quality regressor checkpoint, read once at first use.
	ModelPath string
	// Timeout for fetching hosted images during scoring.
	ImageFetchTimeout time.Duration

	// External OCR command for price-tag extraction.
	OCRCommand string
	OCRLang    string
	OCRTimeout time.Duration
}

func Load() (*Config, error) {
	maxMB := int64(50)
	if v := getEnv("MAX_UPLOAD_MB", "50"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxMB = n
		}
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:            getEnv("MONGODB_DB", "bookstore"),
		S3Bucket:          getEnv("AWS_S3_BUCKET", ""),
		S3Region:          getEnv("AWS_REGION", "us-east-1"),
		S3AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:       getEnv("AWS_SECRET_ACCESS_KEY", ""),
		MaxUploadMB:       maxMB,
		ModelPath:         getEnv("MODEL_CHECKPOINT_PATH", "model/book_quality_model.bin"),
		ImageFetchTimeout: getDuration("IMAGE_FETCH_TIMEOUT_SECONDS", 15*time.Second),
		OCRCommand:        getEnv("OCR_COMMAND", ""),
		OCRLang:           getEnv("OCR_LANG", "en"),
		OCRTimeout:        getDuration("OCR_TIMEOUT_SECONDS", 30*time.Second),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
