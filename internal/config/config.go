package config

import (
	"os"
	"strings"
	"time"
)

const (
	StorageMemory    = "memory"
	StorageFirestore = "firestore"

	AuthFirebase = "firebase"
	AuthNone     = "none"
)

type Config struct {
	ProjectID     string
	Region        string
	LogLevel      string
	LogFormat     string
	Port          string
	Storage       string
	AuthMode      string
	DemoUID       string
	ThinkDelay    time.Duration
	AITTL         time.Duration
	IntentLexicon string
	SampleData    string
}

func New() *Config {
	return &Config{
		ProjectID:     os.Getenv("PROJECTID"),
		Region:        os.Getenv("REGION"),
		LogLevel:      os.Getenv("LOGLEVEL"),
		LogFormat:     os.Getenv("LOGFORMAT"),
		Port:          getOr("PORT", "8080"),
		Storage:       getStorage(os.Getenv("STORAGE")),
		AuthMode:      getAuthMode(os.Getenv("AUTHMODE")),
		DemoUID:       getOr("DEMOUID", "demo-investor"),
		ThinkDelay:    getDuration("THINKDELAY", 1500*time.Millisecond),
		AITTL:         getDuration("AITTL", 30*24*time.Hour),
		IntentLexicon: os.Getenv("INTENTLEXICON"),
		SampleData:    os.Getenv("SAMPLEDATA"),
	}
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getStorage(s string) string {
	switch strings.ToLower(s) {
	case StorageFirestore:
		return StorageFirestore
	default: // "memory"
		return StorageMemory
	}
}

func getAuthMode(s string) string {
	switch strings.ToLower(s) {
	case AuthNone:
		return AuthNone
	default: // "firebase"
		return AuthFirebase
	}
}

// getDuration accepts Go duration strings ("1.5s", "720h"). Unset or
// unparsable values keep the fallback.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
