package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "mongo", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
		{
			name:    "sqlite with mattn driver",
			config:  Config{Backend: "sqlite", SQLiteDriver: DriverMattn},
			wantErr: nil,
		},
		{
			name:    "sqlite with unknown driver",
			config:  Config{Backend: "sqlite", SQLiteDriver: "sqlite4"},
			wantErr: ErrDriverUnknown,
		},
		{
			name:    "postgres without dsn",
			config:  Config{Backend: "postgres"},
			wantErr: ErrDSNEmpty,
		},
		{
			name:    "postgres with dsn",
			config:  Config{Backend: "postgres", PostgresDSN: "postgres://localhost/forms"},
			wantErr: nil,
		},
		{
			name:    "negative concurrency",
			config:  Config{Backend: "sqlite", Concurrency: -1},
			wantErr: ErrConcurrencyInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	if got := c.GetSQLiteDriver(); got != DriverModernc {
		t.Errorf("GetSQLiteDriver() = %q, want %q", got, DriverModernc)
	}
	if got := c.GetPostgresSchema(); got != "public" {
		t.Errorf("GetPostgresSchema() = %q, want public", got)
	}
	if got := c.GetConcurrency(); got != DefaultConcurrency {
		t.Errorf("GetConcurrency() = %d, want %d", got, DefaultConcurrency)
	}

	c = Config{SQLiteDriver: DriverMattn, PostgresSchema: "forms", Concurrency: 2}
	if got := c.GetSQLiteDriver(); got != DriverMattn {
		t.Errorf("GetSQLiteDriver() = %q, want %q", got, DriverMattn)
	}
	if got := c.GetPostgresSchema(); got != "forms" {
		t.Errorf("GetPostgresSchema() = %q, want forms", got)
	}
	if got := c.GetConcurrency(); got != 2 {
		t.Errorf("GetConcurrency() = %d, want 2", got)
	}
}
