package config

import (
	"errors"
	"testing"
	"time"

	"github.com/coursedesk/course-api/internal/common/constants"
	commonerrors "github.com/coursedesk/course-api/internal/common/errors"
)

func TestLoadAPIConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/courses")

	cfg, err := LoadAPIConfig()
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.HTTPPort != constants.DefaultAPIHTTPPort {
		t.Errorf("expected default port %q, got %q", constants.DefaultAPIHTTPPort, cfg.HTTPPort)
	}
	if cfg.RequestTimeout != constants.DefaultAPIRequestTimeout {
		t.Errorf("expected default timeout %v, got %v", constants.DefaultAPIRequestTimeout, cfg.RequestTimeout)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/courses" {
		t.Errorf("unexpected database url %q", cfg.DatabaseURL)
	}
}

func TestLoadAPIConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/courses")
	t.Setenv("API_HTTP_PORT", "9090")
	t.Setenv("API_REQUEST_TIMEOUT", "45s")

	cfg, err := LoadAPIConfig()
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.HTTPPort)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("expected 45s timeout, got %v", cfg.RequestTimeout)
	}
}

func TestLoadAPIConfig_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := LoadAPIConfig()
	if !errors.Is(err, commonerrors.ErrMissingRequiredEnv) {
		t.Errorf("expected ErrMissingRequiredEnv, got %v", err)
	}
}

func TestGetDurationEnv_Invalid(t *testing.T) {
	t.Setenv("API_REQUEST_TIMEOUT", "soon")

	if d := getDurationEnv("API_REQUEST_TIMEOUT", 10*time.Second); d != 10*time.Second {
		t.Errorf("expected fallback for unparsable duration, got %v", d)
	}
}
