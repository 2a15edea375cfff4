package config

import (
	"testing"
	"time"

	constants "github.com/schoolattendance/backend/internal/constants"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv(constants.DATABASE_URL, "postgres://localhost/attendance")
	t.Setenv(constants.JWT_SECRET, "secret")
	t.Setenv(constants.PORT, "")
	t.Setenv(constants.TOKEN_TTL, "")
	t.Setenv(constants.LOGIN_RATE_LIMIT, "")
	t.Setenv(constants.DB_MAX_CONNS, "")
	t.Setenv(constants.CORS_ALLOWED_ORIGINS, "")
	t.Setenv(constants.LOG_LEVEL, "")
	t.Setenv(constants.TRUST_PROXY_HEADERS, "")
}

func TestFromEnvDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != constants.DEFAULT_PORT {
		t.Errorf("Port = %q, want %q", cfg.Port, constants.DEFAULT_PORT)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Errorf("TokenTTL = %v, want 12h", cfg.TokenTTL)
	}
	if cfg.LoginRateLimit != constants.DEFAULT_LOGIN_RATE_LIMIT {
		t.Errorf("LoginRateLimit = %d", cfg.LoginRateLimit)
	}
	if cfg.DBMaxConns != constants.DEFAULT_DB_MAX_CONNS {
		t.Errorf("DBMaxConns = %d", cfg.DBMaxConns)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want none", cfg.AllowedOrigins)
	}
	if cfg.TrustProxyHeaders {
		t.Error("proxy headers must not be trusted by default")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv(constants.PORT, "9090")
	t.Setenv(constants.TOKEN_TTL, "30m")
	t.Setenv(constants.CORS_ALLOWED_ORIGINS, "https://a.example, https://b.example ,")
	t.Setenv(constants.TRUST_PROXY_HEADERS, "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "9090" || cfg.TokenTTL != 30*time.Minute || !cfg.TrustProxyHeaders {
		t.Errorf("got port %q ttl %v trust proxy %v", cfg.Port, cfg.TokenTTL, cfg.TrustProxyHeaders)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing database url", constants.DATABASE_URL, ""},
		{"missing jwt secret", constants.JWT_SECRET, ""},
		{"bad ttl", constants.TOKEN_TTL, "soon"},
		{"negative ttl", constants.TOKEN_TTL, "-1h"},
		{"bad rate limit", constants.LOGIN_RATE_LIMIT, "many"},
		{"zero rate limit", constants.LOGIN_RATE_LIMIT, "0"},
		{"bad proxy flag", constants.TRUST_PROXY_HEADERS, "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := FromEnv(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
