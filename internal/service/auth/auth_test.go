package auth

import (
	"cashflow/internal/apperr"
	"cashflow/internal/metrics"
	"cashflow/internal/model"
	"cashflow/internal/service"
	"cashflow/internal/service/token"
	"cashflow/internal/testutil/memstore"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type jwtCfg struct{}

func (jwtCfg) AccessTokenSecretKey() []byte        { return []byte("a") }
func (jwtCfg) RefreshTokenSecretKey() []byte       { return []byte("r") }
func (jwtCfg) AccessTokenDuration() time.Duration  { return time.Minute }
func (jwtCfg) RefreshTokenDuration() time.Duration { return time.Hour }

type fixedBalance string

func (f fixedBalance) InitialBalance() decimal.Decimal {
	return decimal.RequireFromString(string(f))
}

type fixture struct {
	auth   service.AuthService
	tokens service.TokenService
	store  *memstore.Store
}

func newFixture(t *testing.T, initial string) fixture {
	t.Helper()
	store := memstore.New()
	log := zap.NewNop()
	tokens := token.NewTokenService(store, store, store, jwtCfg{}, log)
	return fixture{
		auth:   NewAuthService(store, store, store, tokens, fixedBalance(initial), metrics.New(), log),
		tokens: tokens,
		store:  store,
	}
}

func register(t *testing.T, f fixture, email string) *model.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(),
		&model.User{Email: email, FirstName: "Ann", LastName: "Lee"}, "secret")
	require.NoError(t, err)
	return u
}

func TestRegister_CreatesUserAndAccount(t *testing.T) {
	f := newFixture(t, "125.50")

	u := register(t, f, " Ann@Example.COM ")

	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, "secret", u.PasswordHash)
	assert.True(t, decimal.RequireFromString("125.50").Equal(f.store.Balance(u.ID)))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t, "0")
	register(t, f, "ann@example.com")

	_, err := f.auth.Register(context.Background(),
		&model.User{Email: "ANN@example.com", FirstName: "A", LastName: "B"}, "secret")
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t, "0")

	_, err := f.auth.Register(context.Background(), &model.User{Email: "a@b.io"}, "secret")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.auth.Register(context.Background(),
		&model.User{Email: "a@b.io", FirstName: "A", LastName: "B"}, "abc")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRegister_AccountFailureRollsBackUser(t *testing.T) {
	f := newFixture(t, "-1")

	user := &model.User{Email: "a@b.io", FirstName: "A", LastName: "B"}
	_, err := f.auth.Register(context.Background(), user, "secret")
	require.Error(t, err)

	_, err = f.store.GetUserByEmail(context.Background(), "a@b.io")
	assert.Error(t, err, "user must not survive a failed signup")
	assert.Zero(t, user.ID, "rolled back id must not leak to the caller")
}

func TestLogin(t *testing.T) {
	f := newFixture(t, "0")
	u := register(t, f, "ann@example.com")
	ctx := context.Background()

	data, err := f.auth.Login(ctx, "ANN@example.com", "secret")
	require.NoError(t, err)

	id, err := f.tokens.ValidateAccessToken(data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)

	_, err = f.auth.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrIncorrectPassword)

	_, err = f.auth.Login(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestLogoutThenRefreshFails(t *testing.T) {
	f := newFixture(t, "0")
	u := register(t, f, "ann@example.com")
	ctx := context.Background()

	data, err := f.auth.Login(ctx, "ann@example.com", "secret")
	require.NoError(t, err)

	next, err := f.auth.Refresh(ctx, data.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, u.ID))
	assert.Equal(t, 0, f.store.SessionCount(u.ID))

	_, err = f.auth.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrSessionRevoked)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, "0")
	u := register(t, f, "ann@example.com")
	ctx := context.Background()

	name := " Jo "
	require.NoError(t, f.auth.UpdateProfile(ctx, u.ID, model.ProfileUpdate{FirstName: &name}))

	got, err := f.auth.CurrentUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jo", got.FirstName)
	assert.Equal(t, "Lee", got.LastName)

	blank := "  "
	err = f.auth.UpdateProfile(ctx, u.ID, model.ProfileUpdate{LastName: &blank})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdatePassword(t *testing.T) {
	f := newFixture(t, "0")
	u := register(t, f, "ann@example.com")
	ctx := context.Background()

	err := f.auth.UpdatePassword(ctx, u.ID, "wrong-old", "newpass")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, f.auth.UpdatePassword(ctx, u.ID, "secret", "newpass"))

	_, err = f.auth.Login(ctx, "ann@example.com", "secret")
	assert.ErrorIs(t, err, apperr.ErrIncorrectPassword)
	_, err = f.auth.Login(ctx, "ann@example.com", "newpass")
	assert.NoError(t, err)
}
