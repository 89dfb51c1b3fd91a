package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/repository"
)

type fakeUserRepo struct {
	users  map[string]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[string]domain.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}
	for _, existing := range f.users {
		if existing.Address == user.Address {
			return domain.User{}, repository.ErrUserAddressExists
		}
	}

	f.nextID++
	user.ID = f.nextID
	f.users[user.Email] = user

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestAuthService_Signup(t *testing.T) {
	t.Run("creates a user with a hashed password", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo)

		created, err := svc.Signup(context.Background(), domain.User{
			Email:    "alice@example.com",
			Password: "Pass123!",
			Address:  testSeller,
			Role:     "trader",
		})

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("Pass123!")))
	})

	t.Run("rejects a malformed address", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo())

		_, err := svc.Signup(context.Background(), domain.User{
			Email:    "alice@example.com",
			Password: "Pass123!",
			Address:  "not-an-address",
		})

		assert.ErrorIs(t, err, ErrInvalidPrincipal)
	})

	t.Run("rejects duplicate email and address", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo())

		_, err := svc.Signup(context.Background(), domain.User{
			Email:    "alice@example.com",
			Password: "Pass123!",
			Address:  testSeller,
		})
		require.NoError(t, err)

		_, err = svc.Signup(context.Background(), domain.User{
			Email:    "alice@example.com",
			Password: "Pass123!",
			Address:  testBuyer,
		})
		assert.ErrorIs(t, err, ErrUserEmailExists)

		_, err = svc.Signup(context.Background(), domain.User{
			Email:    "bob@example.com",
			Password: "Pass123!",
			Address:  testSeller,
		})
		assert.ErrorIs(t, err, ErrUserAddressExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "alice@example.com",
		Password: "Pass123!",
		Address:  testSeller,
	})
	require.NoError(t, err)

	t.Run("returns the user on a matching password", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "alice@example.com", "Pass123!")

		require.NoError(t, err)
		assert.Equal(t, testSeller, user.Address)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "alice@example.com", "nope")

		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "bob@example.com", "Pass123!")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
