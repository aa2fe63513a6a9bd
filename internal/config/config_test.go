package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/inkwell"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	badEnv := &Config{
		App:    AppConfig{Environment: "testing"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/inkwell"},
	}
	if err := badEnv.Validate(); err == nil {
		t.Error("expected error for invalid environment")
	}

	badLevel := &Config{
		App:    AppConfig{Environment: "production"},
		Logger: LoggerConfig{Level: "verbose"},
		Data:   DataConfig{BasePath: "/tmp/inkwell"},
	}
	if err := badLevel.Validate(); err == nil {
		t.Error("expected error for invalid log level")
	}

	noPath := &Config{
		App:    AppConfig{Environment: "production"},
		Logger: LoggerConfig{Level: "info"},
	}
	if err := noPath.Validate(); err == nil {
		t.Error("expected error for empty data path")
	}
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != "/default/path" {
		t.Errorf("expected default path, got %q", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err = expandPath("~/data", "")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "data") {
		t.Errorf("tilde not expanded: got %q", got)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "/var/lib/inkwell"}}
	if got := cfg.DatabasePath(); got != "/var/lib/inkwell/inkwell.db" {
		t.Errorf("DatabasePath: got %q", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := "# comment\nINKWELL_TEST_KEY=hello\nINKWELL_TEST_QUOTED=\"quoted\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("INKWELL_TEST_KEY")
		os.Unsetenv("INKWELL_TEST_QUOTED")
	})

	if err := loadEnvFile(envPath); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}

	if got := os.Getenv("INKWELL_TEST_KEY"); got != "hello" {
		t.Errorf("INKWELL_TEST_KEY: got %q", got)
	}
	if got := os.Getenv("INKWELL_TEST_QUOTED"); got != "quoted" {
		t.Errorf("quotes not stripped: got %q", got)
	}
}

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("INKWELL_PRECEDENCE", "from-env")

	if got := getConfigValue("from-flag", "INKWELL_PRECEDENCE", "default"); got != "from-flag" {
		t.Errorf("flag should win: got %q", got)
	}
	if got := getConfigValue("", "INKWELL_PRECEDENCE", "default"); got != "from-env" {
		t.Errorf("env should win over default: got %q", got)
	}
	if got := getConfigValue("", "INKWELL_MISSING", "default"); got != "default" {
		t.Errorf("default expected: got %q", got)
	}
}
