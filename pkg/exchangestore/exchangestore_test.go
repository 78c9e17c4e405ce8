package exchangestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/hominsu/srp6a/pkg/exchangestore"
	"github.com/hominsu/srp6a/pkg/srp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *exchangestore.State {
	salt := srp.FromInt64(1, 2)
	verifier := srp.FromInt64(2, 2)
	secret := srp.FromInt64(3, 2)
	public := srp.FromInt64(4, 2)
	return exchangestore.NewState("demo@example.com", salt, verifier, secret, public)
}

func TestState_IntegersRoundTrip(t *testing.T) {
	state := sampleState()
	salt, verifier, secret, public, err := state.Integers()
	require.NoError(t, err)
	assert.True(t, salt.Equal(srp.FromInt64(1, 2)))
	assert.True(t, verifier.Equal(srp.FromInt64(2, 2)))
	assert.True(t, secret.Equal(srp.FromInt64(3, 2)))
	assert.True(t, public.Equal(srp.FromInt64(4, 2)))
}

func TestMemoryStore_PutThenTakeSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	store := exchangestore.NewMemoryStore()
	state := sampleState()

	require.NoError(t, store.Put(ctx, "tk1", state, time.Minute))

	got, err := store.Take(ctx, "tk1")
	require.NoError(t, err)
	assert.Equal(t, state.Identity, got.Identity)

	_, err = store.Take(ctx, "tk1")
	assert.ErrorIs(t, err, exchangestore.ErrNotFound)
}

func TestMemoryStore_TakeMissingTicket(t *testing.T) {
	ctx := context.Background()
	store := exchangestore.NewMemoryStore()

	_, err := store.Take(ctx, "ghost")
	assert.ErrorIs(t, err, exchangestore.ErrNotFound)
}

func TestMemoryStore_ExpiredEntryIsNotReturned(t *testing.T) {
	ctx := context.Background()
	store := exchangestore.NewMemoryStore()
	state := sampleState()

	require.NoError(t, store.Put(ctx, "tk1", state, -time.Second))

	_, err := store.Take(ctx, "tk1")
	assert.ErrorIs(t, err, exchangestore.ErrNotFound)
}
