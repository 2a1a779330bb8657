package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/domain/access"
	"gymdesk/internal/domain/audit"
)

// SettingStore reads and writes single values by key.
type SettingStore interface {
	Get(ctx context.Context, key string) (string, time.Time, error)
	Put(ctx context.Context, key, value string, at time.Time) error
}

// AccessLogWriter records door scans.
type AccessLogWriter interface {
	Record(ctx context.Context, e access.LogEntry) error
}

// Actor identifies who triggered an admin action.
type Actor = audit.Actor

// AccessDeps holds dependencies for the access orchestrators.
type AccessDeps struct {
	Settings SettingStore
	Log      AccessLogWriter
	Audit    AuditRecorder
	Now      func() time.Time
}

// LoadCredential returns the current access credential.
// POST: Returns access.ErrNoCredential when none has been issued
func LoadCredential(ctx context.Context, settings SettingStore) (access.Credential, error) {
	raw, _, err := settings.Get(ctx, access.SettingKey)
	if errors.Is(err, storage.ErrNotFound) {
		return access.Credential{}, access.ErrNoCredential
	}
	if err != nil {
		return access.Credential{}, err
	}
	var c access.Credential
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return access.Credential{}, fmt.Errorf("decode access credential: %w", err)
	}
	return c, nil
}

// ExecuteRotateAccessCode issues a new gym access code.
// POST: the stored credential is replaced and an audit event written
// INVARIANT: the previous code stops verifying as soon as this returns
func ExecuteRotateAccessCode(ctx context.Context, actor Actor, deps AccessDeps) (access.Credential, error) {
	cred, err := access.Rotate(clock(deps.Now).UTC())
	if err != nil {
		return access.Credential{}, err
	}
	raw, err := json.Marshal(cred)
	if err != nil {
		return access.Credential{}, err
	}
	if err := deps.Settings.Put(ctx, access.SettingKey, string(raw), cred.UpdatedAt); err != nil {
		return access.Credential{}, fmt.Errorf("store access credential: %w", err)
	}
	record(ctx, deps.Audit, audit.NewEvent(actor, audit.CategoryAccess, audit.ActionRotate).
		WithSeverity(audit.SeverityWarning).
		WithResource("access_code", access.SettingKey))
	slog.Info("access_event", "event", "code_rotated", "actor_id", actor.ID)
	return cred, nil
}

// VerifyResult is what the door scanner receives.
type VerifyResult struct {
	Result string `json:"result"`
	Reason string `json:"reason,omitempty"`
}

// ExecuteVerifyAccess checks a presented code and logs the scan.
// POST: exactly one access log entry is written, granted or denied
func ExecuteVerifyAccess(ctx context.Context, presented string, deps AccessDeps) (VerifyResult, error) {
	cred, err := LoadCredential(ctx, deps.Settings)
	if err != nil && !errors.Is(err, access.ErrNoCredential) {
		return VerifyResult{}, err
	}
	result, reason := cred.Verify(presented)

	entry := access.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: clock(deps.Now).UTC(),
		Result:    result,
		Presented: maskCode(presented),
		Reason:    reason,
	}
	if err := deps.Log.Record(ctx, entry); err != nil {
		return VerifyResult{}, fmt.Errorf("record access: %w", err)
	}
	slog.Info("access_event", "event", "scan", "result", result, "reason", reason)
	return VerifyResult{Result: result, Reason: reason}, nil
}

// maskCode keeps the prefix and timestamp of a code but hides its random part.
func maskCode(code string) string {
	if len(code) > 64 {
		code = code[:64]
	}
	if access.IsWellFormed(code) {
		return code[:len(code)-8] + "********"
	}
	return code
}
