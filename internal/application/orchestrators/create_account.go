package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/profile"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// ProfileStoreForCreate defines the store interface needed to attach a profile.
type ProfileStoreForCreate interface {
	Save(ctx context.Context, p profile.Profile) error
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email     string `schema:"email"`
	Password  string `schema:"password"`
	Role      string `schema:"-"`
	FirstName string `schema:"firstName"`
	LastName  string `schema:"lastName"`
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	ProfileStore ProfileStoreForCreate
	Now          func() time.Time
}

var (
	ErrEmailAlreadyExists  = errors.New("an account with this email already exists")
	ErrAlreadyBootstrapped = errors.New("an account already exists; ask an admin to grant access")
)

// ExecuteCreateAccount creates an account and its profile.
// PRE: Role is a valid role
// POST: account and profile share the same id and role
// INVARIANT: emails are unique after normalisation
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	email := account.NormalizeEmail(input.Email)
	_, err := deps.AccountStore.GetByEmail(ctx, email)
	if err == nil {
		return account.Account{}, ErrEmailAlreadyExists
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return account.Account{}, fmt.Errorf("check email: %w", err)
	}

	acct := account.Account{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      input.Role,
		CreatedAt: clock(deps.Now),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}
	prof := profile.Profile{
		ID:        acct.ID,
		Email:     email,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Role:      acct.Role,
	}
	if err := prof.Validate(); err != nil {
		return account.Account{}, err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}
	if err := deps.ProfileStore.Save(ctx, prof); err != nil {
		// The session manager tolerates a missing profile, so the account stays.
		slog.Error("auth_event", "event", "profile_not_created", "account_id", acct.ID, "error", err)
	}

	slog.Info("auth_event", "event", "account_created", "email", email, "role", acct.Role)
	return acct, nil
}

// ExecuteBootstrapAdmin creates the first admin.
// POST: Returns ErrAlreadyBootstrapped once any account exists
func ExecuteBootstrapAdmin(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return account.Account{}, err
	}
	if count > 0 {
		return account.Account{}, ErrAlreadyBootstrapped
	}
	input.Role = account.RoleAdmin
	acct, err := ExecuteCreateAccount(ctx, input, deps)
	if err != nil {
		return account.Account{}, err
	}
	slog.Info("auth_event", "event", "admin_bootstrapped", "email", acct.Email)
	return acct, nil
}

// ExecuteSeedAdmin creates an admin at startup when no accounts exist and a password is configured.
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, email, password string) error {
	if password == "" {
		slog.Info("auth_event", "event", "admin_seed_skipped", "reason", "no password configured")
		return nil
	}
	_, err := ExecuteBootstrapAdmin(ctx, CreateAccountInput{Email: email, Password: password, FirstName: "Admin"}, deps)
	if errors.Is(err, ErrAlreadyBootstrapped) {
		return nil
	}
	return err
}
