// Package auth implements credential verification for local and federated
// identities.
package auth

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Method identifies how an identity is verified.
type Method string

const (
	// MethodLocal verifies an email/password pair against a stored bcrypt hash.
	MethodLocal Method = "local"
	// MethodGoogle trusts a profile returned by Google's OAuth2 exchange.
	MethodGoogle Method = "google"
)

// Outcome is the result of a local credential check. Unknown identity and bad
// credential are distinct here for testability; callers surface both as the
// same login failure.
type Outcome int

const (
	OutcomeVerified Outcome = iota
	OutcomeBadCredential
	OutcomeUnknownIdentity
)

// String returns the outcome name for logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeVerified:
		return "verified"
	case OutcomeBadCredential:
		return "bad_credential"
	case OutcomeUnknownIdentity:
		return "unknown_identity"
	default:
		return "unknown"
	}
}

// Verifier checks credentials against the user store.
type Verifier struct {
	users repository.UserRepository
}

// NewVerifier returns a Verifier backed by the given user repository.
func NewVerifier(users repository.UserRepository) *Verifier {
	return &Verifier{users: users}
}

// HashPassword computes the bcrypt hash stored for local credentials.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hashed), nil
}

// VerifyLocal checks an email/password pair. The returned user is non-nil only
// for OutcomeVerified. A non-nil error means the store failed, not that the
// credential was wrong.
func (v *Verifier) VerifyLocal(ctx context.Context, email, password string) (Outcome, *models.User, error) {
	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		return OutcomeBadCredential, nil, err
	}
	if user == nil {
		return OutcomeUnknownIdentity, nil, nil
	}

	// Federated accounts hold the sentinel, which is not a bcrypt hash;
	// CompareHashAndPassword rejects every password against it.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return OutcomeBadCredential, nil, nil
	}

	return OutcomeVerified, user, nil
}

// ResolveFederated maps a provider profile to a local user, creating one with
// the sentinel credential on first federated login. An existing row is reused
// regardless of whether it was created locally or federated.
func (v *Verifier) ResolveFederated(ctx context.Context, email, name string) (*models.User, error) {
	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		Username: name,
		Email:    email,
		Password: models.FederatedCredential,
	}
	if err := v.users.Create(ctx, user); err != nil {
		// A concurrent first login for the same email loses the insert race;
		// the row the winner created is the account.
		if models.ErrorCode(err) == models.CodeValidation {
			existing, refetchErr := v.users.GetByEmail(ctx, email)
			if refetchErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return user, nil
}
