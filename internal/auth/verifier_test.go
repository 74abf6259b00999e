package auth

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository for verifier tests.
type fakeUserRepo struct {
	byEmail   map[string]*models.User
	nextID    uint
	getErr    error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User", id)
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return models.NewValidationError("Email is already registered")
	}
	user.ID = r.nextID
	r.nextID++
	r.byEmail[user.Email] = user
	return nil
}

func TestVerifyLocal(t *testing.T) {
	ctx := context.Background()

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	repo := newFakeUserRepo()
	repo.byEmail["ann@example.com"] = &models.User{ID: 1, Username: "ann", Email: "ann@example.com", Password: hash}
	repo.byEmail["fed@example.com"] = &models.User{ID: 2, Username: "fed", Email: "fed@example.com", Password: models.FederatedCredential}

	v := NewVerifier(repo)

	t.Run("Verified", func(t *testing.T) {
		outcome, user, err := v.VerifyLocal(ctx, "ann@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, OutcomeVerified, outcome)
		require.NotNil(t, user)
		assert.Equal(t, uint(1), user.ID)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		outcome, user, err := v.VerifyLocal(ctx, "ann@example.com", "wrong")
		require.NoError(t, err)
		assert.Equal(t, OutcomeBadCredential, outcome)
		assert.Nil(t, user)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		outcome, user, err := v.VerifyLocal(ctx, "ghost@example.com", "anything")
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnknownIdentity, outcome)
		assert.Nil(t, user)
	})

	t.Run("Sentinel Never Matches", func(t *testing.T) {
		// The federated sentinel is not a bcrypt hash; no password can verify
		// against it, including the sentinel string itself.
		for _, pw := range []string{models.FederatedCredential, "", "password"} {
			outcome, user, err := v.VerifyLocal(ctx, "fed@example.com", pw)
			require.NoError(t, err)
			assert.Equal(t, OutcomeBadCredential, outcome)
			assert.Nil(t, user)
		}
	})

	t.Run("Store Failure", func(t *testing.T) {
		broken := newFakeUserRepo()
		broken.getErr = models.NewInternalError(errors.New("db down"))
		_, user, err := NewVerifier(broken).VerifyLocal(ctx, "ann@example.com", "pw")
		assert.Error(t, err)
		assert.Nil(t, user)
	})
}

func TestResolveFederated(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates On First Login", func(t *testing.T) {
		repo := newFakeUserRepo()
		v := NewVerifier(repo)

		user, err := v.ResolveFederated(ctx, "ann@example.com", "Ann")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Ann", user.Username)
		assert.Equal(t, models.FederatedCredential, user.Password)
		assert.True(t, user.IsFederated())
	})

	t.Run("Reuses Existing Account", func(t *testing.T) {
		hash, err := HashPassword("pw")
		require.NoError(t, err)

		repo := newFakeUserRepo()
		repo.byEmail["ann@example.com"] = &models.User{ID: 7, Username: "ann", Email: "ann@example.com", Password: hash}
		v := NewVerifier(repo)

		user, err := v.ResolveFederated(ctx, "ann@example.com", "Different Name")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, uint(7), user.ID)
		// An account created locally keeps its credential and name.
		assert.Equal(t, "ann", user.Username)
		assert.False(t, user.IsFederated())
	})

	t.Run("Insert Race Loser Refetches", func(t *testing.T) {
		// First lookup misses, insert fails on the unique constraint, and the
		// refetch finds the row the concurrent login created.
		winner := &models.User{ID: 3, Username: "Ann", Email: "ann@example.com", Password: models.FederatedCredential}
		calls := 0
		repo := &racingUserRepo{inner: newFakeUserRepo(), winner: winner, calls: &calls}

		user, err := NewVerifier(repo).ResolveFederated(ctx, "ann@example.com", "Ann")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, uint(3), user.ID)
		assert.Equal(t, 2, calls)
	})

	t.Run("Create Failure Propagates", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.createErr = models.NewInternalError(errors.New("db down"))
		user, err := NewVerifier(repo).ResolveFederated(ctx, "ann@example.com", "Ann")
		assert.Error(t, err)
		assert.Nil(t, user)
	})
}

// racingUserRepo misses on the first GetByEmail and serves the winner's row on
// the refetch after the unique violation.
type racingUserRepo struct {
	inner  *fakeUserRepo
	winner *models.User
	calls  *int
}

func (r *racingUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *racingUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	*r.calls++
	if *r.calls == 1 {
		return nil, nil
	}
	return r.winner, nil
}

func (r *racingUserRepo) Create(_ context.Context, _ *models.User) error {
	return models.NewValidationError("Email is already registered")
}
