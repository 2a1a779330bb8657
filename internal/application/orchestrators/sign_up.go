package orchestrators

import (
	"context"
	"log/slog"

	"gymdesk/internal/application/authsession"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/email"
)

// MessageDeliverer sends an email now or queues it for retry.
type MessageDeliverer interface {
	Deliver(ctx context.Context, msg email.Message) (Delivery, error)
}

// SignUpDeps holds dependencies for SignUp.
type SignUpDeps struct {
	Accounts CreateAccountDeps
	Mail     MessageDeliverer
}

// ExecuteSignUp registers a member account and sends a welcome email.
// POST: the account exists even when the welcome email could not be delivered or queued
func ExecuteSignUp(ctx context.Context, input authsession.SignUpInput, deps SignUpDeps) (account.Account, error) {
	acct, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:     input.Email,
		Password:  input.Password,
		Role:      account.RoleMember,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}, deps.Accounts)
	if err != nil {
		return account.Account{}, err
	}
	if deps.Mail != nil {
		if _, err := deps.Mail.Deliver(ctx, email.Welcome(acct.Email, input.FirstName)); err != nil {
			slog.Error("email_event", "event", "welcome_not_sent", "account_id", acct.ID, "error", err)
		}
	}
	return acct, nil
}

// AuthService lets the session manager call the login and sign-up orchestrators.
type AuthService struct {
	Login  LoginDeps
	SignUp SignUpDeps
}

var (
	_ authsession.Authenticator = AuthService{}
	_ authsession.Registrar     = AuthService{}
)

// Authenticate runs ExecuteLogin.
func (s AuthService) Authenticate(ctx context.Context, emailAddr, password string) (authsession.Identity, error) {
	res, err := ExecuteLogin(ctx, LoginInput{Email: emailAddr, Password: password}, s.Login)
	if err != nil {
		return authsession.Identity{}, err
	}
	return authsession.Identity{AccountID: res.AccountID, Email: res.Email, Role: res.Role}, nil
}

// Register runs ExecuteSignUp.
func (s AuthService) Register(ctx context.Context, in authsession.SignUpInput) (authsession.Identity, error) {
	acct, err := ExecuteSignUp(ctx, in, s.SignUp)
	if err != nil {
		return authsession.Identity{}, err
	}
	return authsession.Identity{AccountID: acct.ID, Email: acct.Email, Role: acct.Role}, nil
}
