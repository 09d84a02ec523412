package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMatchingPIDsFindsSelf(t *testing.T) {
	// The test binary's own name is guaranteed to be in the process table.
	pattern := filepath.Base(os.Args[0])

	pids, err := MatchingPIDs(context.Background(), pattern, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	self := os.Getpid()
	found := false
	for _, pid := range pids {
		if pid == self {
			found = true
		}
	}
	if !found {
		t.Errorf("expected own pid %d in matches for %q, got %v", self, pattern, pids)
	}
}

func TestCheckExcludesSelf(t *testing.T) {
	// With a pattern unique to our own command line and self excluded,
	// the check must report no match.
	pattern := filepath.Base(os.Args[0])

	pids, err := MatchingPIDs(context.Background(), pattern, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, pid := range pids {
		if pid == os.Getpid() {
			t.Error("own pid must be excluded")
		}
	}
}

func TestCheckNoMatch(t *testing.T) {
	ok, err := Check(context.Background(), "no-such-process-:16aa0e67c3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no match for random pattern")
	}
}

func TestCheckIsProcessPresenceOnly(t *testing.T) {
	// Weak liveness: the check consults the process table only. This test
	// process has no listening socket at all, yet it must be reported
	// present. Any future change that dials the service port breaks this.
	pattern := filepath.Base(os.Args[0])

	pids, err := MatchingPIDs(context.Background(), pattern, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pids) == 0 {
		t.Error("process with no open socket must still count as alive")
	}
}

func TestCheckCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := MatchingPIDs(ctx, "anything", true); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestEffectiveUID(t *testing.T) {
	uid := EffectiveUID()
	if uid != os.Geteuid() {
		t.Errorf("expected %d, got %d", os.Geteuid(), uid)
	}
	if IsRoot() != (uid == 0) {
		t.Error("IsRoot disagrees with EffectiveUID")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Pattern != DefaultPattern {
		t.Errorf("expected pattern %q, got %q", DefaultPattern, cfg.Pattern)
	}
	if cfg.Interval != DefaultInterval || cfg.Timeout != DefaultTimeout {
		t.Errorf("unexpected interval/timeout: %s/%s", cfg.Interval, cfg.Timeout)
	}
	if cfg.StartPeriod != DefaultStartPeriod || cfg.Retries != DefaultRetries {
		t.Errorf("unexpected start period/retries: %s/%d", cfg.StartPeriod, cfg.Retries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Retries: -1}
	cfg.Interval = DefaultInterval
	cfg.Timeout = DefaultTimeout
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative retries")
	}
}
