package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvinseyidov/acteezer-web/internal/domain"
	apperrors "github.com/alvinseyidov/acteezer-web/pkg/errors"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, 30*24*time.Hour), mr
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:               42,
		Phone:            "+994501234567",
		FirstName:        "Leyla",
		LastName:         "Aliyeva",
		FullName:         "Leyla Aliyeva",
		IsPhoneVerified:  true,
		RegistrationStep: 3,
	}
}

// ---------------------------------------------------------------------------
// Raw key operations
// ---------------------------------------------------------------------------

func TestStore_GetSetRemove(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))

	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	require.NoError(t, store.Remove(ctx, "k"))

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_RemoveAbsentKeyIsNoError(t *testing.T) {
	store, _ := setupTestStore(t)
	assert.NoError(t, store.Remove(context.Background(), "never-set"))
}

func TestStore_SetAppliesTTL(t *testing.T) {
	store, mr := setupTestStore(t)
	require.NoError(t, store.Set(context.Background(), "k", "v"))
	assert.Positive(t, mr.TTL("session:k"))
}

// ---------------------------------------------------------------------------
// Login pair semantics
// ---------------------------------------------------------------------------

func TestStore_SaveLogin_ThenLookupsReturnExactValues(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	user := sampleUser()

	require.NoError(t, store.SaveLogin(ctx, "sid-1", "tok-abc", user))

	token, err := store.Token(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)

	got, err := store.User(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Phone, got.Phone)
	assert.Equal(t, user.RegistrationStep, got.RegistrationStep)
}

func TestStore_SaveLogin_OverwritesPreviousPair(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLogin(ctx, "sid-1", "tok-old", sampleUser()))

	newUser := sampleUser()
	newUser.ID = 77
	require.NoError(t, store.SaveLogin(ctx, "sid-1", "tok-new", newUser))

	token, err := store.Token(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-new", token)

	got, err := store.User(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, 77, got.ID)
}

func TestStore_Clear_RemovesBoth(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLogin(ctx, "sid-1", "tok-abc", sampleUser()))
	require.NoError(t, store.Clear(ctx, "sid-1"))

	token, err := store.Token(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, token)

	user, err := store.User(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, user)
}

// ---------------------------------------------------------------------------
// Optimistic lookups
// ---------------------------------------------------------------------------

func TestStore_Token_AbsentIsEmptyNotError(t *testing.T) {
	store, _ := setupTestStore(t)

	token, err := store.Token(context.Background(), "unknown-sid")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_User_CorruptedRecordYieldsAbsence(t *testing.T) {
	store, mr := setupTestStore(t)

	require.NoError(t, mr.Set("session:sid-1:user", "{{not-json"))

	user, err := store.User(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestStore_Token_RedisDownIsError(t *testing.T) {
	store, mr := setupTestStore(t)
	mr.Close()

	_, err := store.Token(context.Background(), "sid-1")
	assert.Error(t, err)
}

func TestStore_SaveUser_ReplacesOnlyUser(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLogin(ctx, "sid-1", "tok-abc", sampleUser()))

	updated := sampleUser()
	updated.Bio = "coffee and hiking"
	require.NoError(t, store.SaveUser(ctx, "sid-1", updated))

	token, err := store.Token(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)

	got, err := store.User(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "coffee and hiking", got.Bio)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLogin(ctx, "sid-a", "tok-a", sampleUser()))

	token, err := store.Token(ctx, "sid-b")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_UserRecordIsJSON(t *testing.T) {
	store, mr := setupTestStore(t)

	require.NoError(t, store.SaveLogin(context.Background(), "sid-1", "tok", sampleUser()))

	raw, err := mr.Get("session:sid-1:user")
	require.NoError(t, err)

	var decoded domain.User
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, 42, decoded.ID)
}
