package access_test

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"gymdesk/internal/domain/access"
)

// TestNewCode checks the shape and the timestamp segment.
func TestNewCode(t *testing.T) {
	now := time.UnixMilli(1760611234567)
	code, err := access.NewCode(now, rand.Reader)
	if err != nil {
		t.Fatalf("NewCode: %v", err)
	}
	if !access.IsWellFormed(code) {
		t.Fatalf("code %q is not well formed", code)
	}
	if !strings.HasPrefix(code, "GYMKEY-234567-") {
		t.Errorf("code %q should carry the last 6 ms digits", code)
	}
}

// TestNewCodePadsTimestamp keeps six digits when the ms remainder is small.
func TestNewCodePadsTimestamp(t *testing.T) {
	code, err := access.NewCode(time.UnixMilli(5_000_042), rand.Reader)
	if err != nil {
		t.Fatalf("NewCode: %v", err)
	}
	if !strings.HasPrefix(code, "GYMKEY-000042-") {
		t.Errorf("got %q", code)
	}
}

// TestNewCodeRandomFailure surfaces reader errors.
func TestNewCodeRandomFailure(t *testing.T) {
	if _, err := access.NewCode(time.Now(), bytes.NewReader(nil)); err == nil {
		t.Error("expected error from exhausted reader")
	}
}

// TestVerify grants only the current code.
func TestVerify(t *testing.T) {
	cred, err := access.Rotate(time.Now())
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	if res, _ := cred.Verify(cred.Code); res != access.ResultGranted {
		t.Errorf("current code: got %s", res)
	}
	if res, _ := cred.Verify("  " + cred.Code + "\n"); res != access.ResultGranted {
		t.Errorf("padded code: got %s", res)
	}
	if res, reason := cred.Verify("GYMKEY-000000-AAAAAAAA"); res != access.ResultDenied || reason == "" {
		t.Errorf("stale code: got %s %q", res, reason)
	}
	if res, _ := cred.Verify("let me in"); res != access.ResultDenied {
		t.Errorf("malformed code: got %s", res)
	}
	if res, _ := (access.Credential{}).Verify(cred.Code); res != access.ResultDenied {
		t.Errorf("no credential: got %s", res)
	}
}
