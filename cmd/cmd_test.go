package cmd

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/taskboard/internal/auth"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
)

func TestParseMonth(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		year    int
		month   time.Month
		wantErr bool
	}{
		{"2024-06", 2024, time.June, false},
		{"2025-12", 2025, time.December, false},
		{"2024-13", 0, 0, true},
		{"2024", 0, 0, true},
		{"june", 0, 0, true},
	}
	for _, tt := range tests {
		y, m, err := parseMonth(tt.in)
		if tt.wantErr {
			var ce *clierr.Error
			if !errors.As(err, &ce) || ce.Code != clierr.InvalidDate {
				t.Errorf("parseMonth(%q) error = %v, want INVALID_DATE", tt.in, err)
			}
			continue
		}
		if err != nil || y != tt.year || m != tt.month {
			t.Errorf("parseMonth(%q) = %d, %v, %v", tt.in, y, m, err)
		}
	}
}

func TestConfigAccessors(t *testing.T) {
	t.Parallel()
	accessors := configAccessors()
	if len(accessors) != len(allConfigKeys()) {
		t.Errorf("%d accessors for %d keys", len(accessors), len(allConfigKeys()))
	}

	cfg := config.NewDefault("test")
	for _, key := range allConfigKeys() {
		acc, ok := accessors[key]
		if !ok {
			t.Fatalf("no accessor for %q", key)
		}
		_ = acc.get(cfg)
	}

	if accessors["version"].writable() {
		t.Error("version is writable")
	}
	if err := accessors["notifications.bell"].set(cfg, "false"); err != nil {
		t.Fatal(err)
	}
	if cfg.BellEnabled() {
		t.Error("bell still enabled")
	}
	if err := accessors["auth.timeout"].set(cfg, "soon"); err == nil {
		t.Error("invalid duration accepted")
	}
	if err := accessors["storage.quota_bytes"].set(cfg, "1k"); err == nil {
		t.Error("non-integer quota accepted")
	}
	if _, err := lookupConfigKey("statuses"); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestAuthError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		code string
	}{
		{auth.ErrTimeout, clierr.AuthTimeout},
		{fmt.Errorf("%w: bad password", auth.ErrInvalidCredentials), clierr.AuthFailed},
		{fmt.Errorf("%w: status 502", auth.ErrServer), clierr.AuthFailed},
		{auth.ErrNoToken, clierr.AuthFailed},
	}
	for _, tt := range tests {
		var ce *clierr.Error
		if err := authError(tt.err); !errors.As(err, &ce) || ce.Code != tt.code {
			t.Errorf("authError(%v) = %v, want %s", tt.err, err, tt.code)
		}
	}

	plain := errors.New("disk full")
	if got := authError(plain); got != plain {
		t.Errorf("authError passed through %v as %v", plain, got)
	}
}
