package egress

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error: %v", err)
	}

	tests := []struct {
		status int
		want   bool
	}{
		{199, false},
		{200, true},
		{204, true},
		{299, true},
		{300, false},
		{404, false},
		{500, false},
	}
	for _, tt := range tests {
		if got := cfg.IsSuccess(tt.status); got != tt.want {
			t.Errorf("IsSuccess(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min below range", func(c *Config) { c.SuccessMin = 99 }},
		{"max above range", func(c *Config) { c.SuccessMax = 600 }},
		{"max below min", func(c *Config) { c.SuccessMin, c.SuccessMax = 300, 200 }},
		{"empty message", func(c *Config) { c.RejectMessage = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should return error")
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "egress.yaml")
	data := "success_max: 208\nreject_message: Internal error.\nmasking: false\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.SuccessMin != 200 || cfg.SuccessMax != 208 {
		t.Errorf("success range = %d-%d, want 200-208", cfg.SuccessMin, cfg.SuccessMax)
	}
	if cfg.RejectMessage != "Internal error." {
		t.Errorf("RejectMessage = %q", cfg.RejectMessage)
	}
	if cfg.Masking {
		t.Error("Masking = true, want false")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("EGRESS_SUCCESS_MAX", "226")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.SuccessMax != 226 {
		t.Errorf("SuccessMax = %d, want 226", cfg.SuccessMax)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "egress.yaml")
	if err := os.WriteFile(path, []byte("success_min: 400\nsuccess_max: 300\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should reject an inverted success range")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig() should fail for an explicit path that does not exist")
	}
}
