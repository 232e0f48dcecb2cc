package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		DatabaseURL:             "postgres://localhost/hr",
		Environment:             "development",
		Timezone:                "Asia/Jakarta",
		SessionTTL:              time.Hour,
		MaxUploadBytes:          5 * 1024 * 1024,
		LoginRateLimit:          "10-M",
		DefaultEmployeePassword: "123456",
		DefaultClientPassword:   "client123",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing database url", mutate: func(c *Config) { c.DatabaseURL = " " }, wantErr: true},
		{name: "unknown timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "zero session ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: true},
		{name: "tiny upload limit", mutate: func(c *Config) { c.MaxUploadBytes = 10 }, wantErr: true},
		{
			name: "production without secret",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.CookieSecure = true
			},
			wantErr: true,
		},
		{
			name: "production with default seed password",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.SessionSecret = "s3cret"
				c.CookieSecure = true
				c.RunSeed = true
				c.SeedAdminPassword = "admin123"
			},
			wantErr: true,
		},
		{
			name: "production hardened",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.SessionSecret = "s3cret"
				c.CookieSecure = true
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("FEATURES", " Client, ,admin ")
	got := getEnvList("FEATURES", []string{"x"})
	if len(got) != 2 || got[0] != "client" || got[1] != "admin" {
		t.Fatalf("unexpected list: %v", got)
	}

	t.Setenv("FEATURES", "")
	if got := getEnvList("FEATURES", []string{"x"}); len(got) != 0 {
		t.Fatalf("expected empty list when explicitly blank, got %v", got)
	}
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")
	if got := getEnvDuration("SESSION_TTL", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	t.Setenv("MAX_UPLOAD_BYTES", "abc")
	if got := getEnvInt("MAX_UPLOAD_BYTES", 7); got != 7 {
		t.Fatalf("expected fallback, got %d", got)
	}
	t.Setenv("COOKIE_SECURE", "true")
	if !getEnvBool("COOKIE_SECURE", false) {
		t.Fatal("expected true")
	}
}
