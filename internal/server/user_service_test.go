package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobtrackr/internal/config"
	"github.com/jonathan/jobtrackr/internal/db"
	"github.com/jonathan/jobtrackr/internal/types"
)

// fakeUserStore keeps users in memory.
type fakeUserStore struct {
	users map[uuid.UUID]*db.User
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*db.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	id := uuid.New()
	f.users[id] = &db.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	return id, nil
}

func (f *fakeUserStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	u, _ := f.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	if f.err != nil {
		return f.err
	}
	if u, ok := f.users[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func newTestUserService(t *testing.T, store UserStore) *UserService {
	t.Helper()
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "")

	passwordConfig, err := config.NewPasswordConfig()
	require.NoError(t, err)
	return NewUserService(store, passwordConfig)
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestUserService(t, store)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEqual(t, uuid.Nil, user.ID)

	loggedIn, err := svc.Login(ctx, &types.LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestUserService(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &types.RegisterRequest{
		Name:     "Other Jane",
		Email:    "jane@example.com",
		Password: "different123",
	})
	require.Error(t, err)

	var dup *ErrEmailAlreadyExists
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, "jane@example.com", dup.Email)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestUserService(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &types.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrongpassword",
	})
	var invalid *ErrInvalidCredentials
	assert.True(t, errors.As(err, &invalid))
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	svc := newTestUserService(t, newFakeUserStore())

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	var invalid *ErrInvalidCredentials
	assert.True(t, errors.As(err, &invalid))
}

func TestUserService_UpdatePassword(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestUserService(t, store)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "password123", "newpassword456"))

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "jane@example.com", Password: "password123"})
	assert.Error(t, err, "old password must stop working")

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "jane@example.com", Password: "newpassword456"})
	assert.NoError(t, err)
}

func TestUserService_UpdatePassword_WrongCurrent(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestUserService(t, store)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.ID, "notmypassword", "newpassword456")
	var mismatch *ErrPasswordMismatch
	assert.True(t, errors.As(err, &mismatch))
}

func TestUserService_UpdatePassword_UnknownUser(t *testing.T) {
	svc := newTestUserService(t, newFakeUserStore())

	err := svc.UpdatePassword(context.Background(), uuid.New(), "whatever1", "newpassword456")
	var notFound *ErrUserNotFound
	assert.True(t, errors.As(err, &notFound))
}
