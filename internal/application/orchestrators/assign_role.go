package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/audit"
	"gymdesk/internal/domain/profile"
)

// AccountStoreForRole defines the store interface needed by AssignRole.
type AccountStoreForRole interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ProfileStoreForRole defines the profile store interface needed by AssignRole.
type ProfileStoreForRole interface {
	GetByID(ctx context.Context, accountID string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// AuditRecorder persists audit events.
type AuditRecorder interface {
	Save(ctx context.Context, e audit.Event) error
}

// SessionRefresher re-resolves live sessions of an account.
type SessionRefresher interface {
	Refresh(ctx context.Context, accountID string) int
}

// AssignRoleInput carries input for AssignRole.
type AssignRoleInput struct {
	ActorID  string `json:"-"`
	TargetID string `json:"accountId"`
	Role     string `json:"role"`
	IP       string `json:"-"`
}

// AssignRoleDeps holds dependencies for AssignRole.
type AssignRoleDeps struct {
	AccountStore AccountStoreForRole
	ProfileStore ProfileStoreForRole
	Audit        AuditRecorder
	Sessions     SessionRefresher
}

var (
	ErrNotAdmin       = errors.New("only admins can change roles")
	ErrSelfAssignment = errors.New("admins cannot change their own role")
)

// ExecuteAssignRole changes another account's role.
// PRE: ActorID is the signed-in account
// POST: account and profile carry the new role; the target's sessions are refreshed
// INVARIANT: an admin can never change their own role
func ExecuteAssignRole(ctx context.Context, input AssignRoleInput, deps AssignRoleDeps) error {
	actor, err := deps.AccountStore.GetByID(ctx, input.ActorID)
	if err != nil {
		return fmt.Errorf("load actor: %w", err)
	}
	if !actor.IsAdmin() {
		slog.Warn("auth_event", "event", "role_change_denied", "actor_id", actor.ID, "reason", "not_admin")
		return ErrNotAdmin
	}
	if input.TargetID == actor.ID {
		return ErrSelfAssignment
	}
	if !account.IsValidRole(input.Role) {
		return account.ErrInvalidRole
	}

	target, err := deps.AccountStore.GetByID(ctx, input.TargetID)
	if err != nil {
		return err
	}
	previous := target.Role
	target.Role = input.Role
	if err := deps.AccountStore.Save(ctx, target); err != nil {
		return err
	}

	prof, err := deps.ProfileStore.GetByID(ctx, target.ID)
	if err != nil {
		prof = profile.Profile{ID: target.ID, Email: target.Email}
	}
	prof.Role = input.Role
	if err := deps.ProfileStore.Save(ctx, prof); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	record(ctx, deps.Audit, audit.NewEvent(audit.Actor{ID: actor.ID, Email: actor.Email, Role: actor.Role, IP: input.IP}, audit.CategoryAccount, audit.ActionRoleChange).
		WithSeverity(audit.SeverityWarning).
		WithResource("account", target.ID).
		WithDescription(fmt.Sprintf("%s: %s -> %s", target.Email, previous, input.Role)))

	if deps.Sessions != nil {
		deps.Sessions.Refresh(ctx, target.ID)
	}
	slog.Info("auth_event", "event", "role_changed", "actor_id", actor.ID, "target_id", target.ID, "role", input.Role)
	return nil
}

// record saves e and logs instead of failing the caller.
func record(ctx context.Context, rec AuditRecorder, e audit.Event) {
	if rec == nil {
		return
	}
	if err := rec.Save(ctx, e); err != nil {
		slog.Error("audit_write_failed", "action", e.Action, "error", err)
	}
}
