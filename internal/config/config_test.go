package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "CFG_TEST_STR_1", "redis://localhost", "fallback", "redis://localhost"},
		{"uses default when unset", "CFG_TEST_STR_2", "", "fallback", "fallback"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			if got := getEnvOrDefault(tc.key, tc.defaultVal); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "CFG_TEST_INT_1", "30", 90, 30},
		{"uses default for empty", "CFG_TEST_INT_2", "", 90, 90},
		{"uses default for junk", "CFG_TEST_INT_3", "ninety", 90, 90},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			if got := getEnvAsIntOrDefault(tc.key, tc.defaultVal); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("CFG_TEST_REQUIRED_MISSING")
	mustGetEnv("CFG_TEST_REQUIRED_MISSING")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("CFG_TEST_REQUIRED", "secret")
	defer os.Unsetenv("CFG_TEST_REQUIRED")

	if got := mustGetEnv("CFG_TEST_REQUIRED"); got != "secret" {
		t.Errorf("Expected 'secret', got %q", got)
	}
}
