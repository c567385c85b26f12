package config

import (
	"fmt"
	"os"
	"time"

	"github.com/coursedesk/course-api/internal/common/constants"
	commonerrors "github.com/coursedesk/course-api/internal/common/errors"
)

type APIConfig struct {
	HTTPPort       string
	DatabaseURL    string
	RequestTimeout time.Duration
}

func LoadAPIConfig() (APIConfig, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return APIConfig{}, err
	}

	return APIConfig{
		HTTPPort:       getEnv("API_HTTP_PORT", constants.DefaultAPIHTTPPort),
		DatabaseURL:    databaseURL,
		RequestTimeout: getDurationEnv("API_REQUEST_TIMEOUT", constants.DefaultAPIRequestTimeout),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
