package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{
			name:  "variable set",
			key:   "LINKVAULT_TEST_VAR",
			value: "test_value",
		},
		{
			name:      "variable not set",
			key:       "LINKVAULT_TEST_VAR_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestGetenvInt64(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      int64
		expected int64
	}{
		{name: "valid value", value: "1048576", def: 1, expected: 1048576},
		{name: "invalid value uses default", value: "lots", def: 42, expected: 42},
		{name: "missing variable uses default", value: "", def: 7, expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINKVAULT_TEST_INT64", tt.value)

			if got := getenvInt64("LINKVAULT_TEST_INT64", tt.def); got != tt.expected {
				t.Errorf("getenvInt64() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINKVAULT_TEST_DURATION", tt.value)

			if got := mustDuration("LINKVAULT_TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINKVAULT_TEST_BOOL", tt.value)

			if got := mustBool("LINKVAULT_TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` links.home.lan, "vault.home.lan" ,,'10.0.0.2:8080' `)
	want := []string{"links.home.lan", "vault.home.lan", "10.0.0.2:8080"}

	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() length = %v, want %v", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("memory backend needs no redis address", func(t *testing.T) {
		t.Setenv("LINKVAULT_BACKEND", "memory")
		t.Setenv("LINKVAULT_REDIS_ADDR", "")
		t.Setenv("LINKVAULT_MAX_SUBFOLDERS", "4")

		cfg := Load()
		if cfg.Backend != BackendMemory {
			t.Errorf("Backend = %v, want %v", cfg.Backend, BackendMemory)
		}
		if cfg.MaxSubFolders != 4 {
			t.Errorf("MaxSubFolders = %v, want 4", cfg.MaxSubFolders)
		}
		if cfg.QuotaBytes != 5*1024*1024 {
			t.Errorf("QuotaBytes = %v, want default 5 MiB", cfg.QuotaBytes)
		}
		if cfg.Namespace != "linkvault" {
			t.Errorf("Namespace = %v, want linkvault", cfg.Namespace)
		}
	})

	t.Run("redis backend requires an address", func(t *testing.T) {
		t.Setenv("LINKVAULT_BACKEND", "redis")
		t.Setenv("LINKVAULT_REDIS_ADDR", "")

		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Load() should have panicked without LINKVAULT_REDIS_ADDR")
			}
		}()
		Load()
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("LINKVAULT_BACKEND", "floppy")

		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Load() should have panicked on unknown backend")
			}
		}()
		Load()
	})
}
