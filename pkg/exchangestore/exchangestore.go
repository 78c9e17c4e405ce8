// Package exchangestore holds the server-side state an SRP-6a exchange
// needs between its two round trips: the ephemeral secret b and the
// verifier it was generated against, keyed by the ticket the client
// presents on the second round. Entries are single-use and short-lived.
package exchangestore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hominsu/srp6a/pkg/srp"
)

// ErrNotFound is returned by Take when the ticket is unknown, already
// consumed, or expired.
var ErrNotFound = errors.New("exchangestore: ticket not found or expired")

// State is everything the server must remember between GenerateEphemeral
// and DeriveSession for one in-flight exchange.
type State struct {
	Identity string
	Salt     string // hex, srp.Integer.Hex()
	Verifier string // hex
	Secret   string // hex, the server's ephemeral b
	Public   string // hex, the server's ephemeral B
}

// NewState captures the values DeriveSession will need once the client's
// proof arrives.
func NewState(identity string, salt, verifier, secret, public *srp.Integer) *State {
	return &State{
		Identity: identity,
		Salt:     salt.Hex(),
		Verifier: verifier.Hex(),
		Secret:   secret.Hex(),
		Public:   public.Hex(),
	}
}

// Integers decodes the hex fields back into the *srp.Integer values
// DeriveSession takes.
func (s *State) Integers() (salt, verifier, secret, public *srp.Integer, err error) {
	if salt, err = srp.FromHex(s.Salt); err != nil {
		return nil, nil, nil, nil, err
	}
	if verifier, err = srp.FromHex(s.Verifier); err != nil {
		return nil, nil, nil, nil, err
	}
	if secret, err = srp.FromHex(s.Secret); err != nil {
		return nil, nil, nil, nil, err
	}
	if public, err = srp.FromHex(s.Public); err != nil {
		return nil, nil, nil, nil, err
	}
	return salt, verifier, secret, public, nil
}

// Store holds pending exchange State, keyed by ticket. Take is a
// single-use read: a second Take for the same ticket must miss, whether or
// not the first Take succeeded, so a replayed second-round message cannot
// resurrect a finished exchange.
type Store interface {
	Put(ctx context.Context, ticket string, state *State, ttl time.Duration) error
	Take(ctx context.Context, ticket string) (*State, error)
}

// RedisStore persists exchange State in Redis, mirroring the key-prefix and
// SetEX/Get/Del shape pallas's session RedisStore uses for cookie-backed
// sessions, with the HTTP cookie and gorilla/sessions coupling removed: a
// ticket string is the only key a caller ever needs.
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewRedisStore wraps an existing redis.Cmdable. keyPrefix namespaces keys
// so an exchangestore deployment can share a Redis instance with other
// subsystems.
func NewRedisStore(client redis.Cmdable, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (r *RedisStore) key(ticket string) string {
	return r.keyPrefix + ticket
}

func (r *RedisStore) Put(ctx context.Context, ticket string, state *State, ttl time.Duration) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.SetEx(ctx, r.key(ticket), b, ttl).Err()
}

func (r *RedisStore) Take(ctx context.Context, ticket string) (*State, error) {
	key := r.key(ticket)
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// best-effort delete; a failure here only risks a second successful
	// Take before the TTL expires, not data corruption.
	_ = r.client.Del(ctx, key).Err()

	var state State
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

type memoryEntry struct {
	state     *State
	expiresAt time.Time
}

// MemoryStore is an in-process Store, useful for tests and single-instance
// deployments that do not need a shared Redis backend.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Put(_ context.Context, ticket string, state *State, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[ticket] = memoryEntry{state: state, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Take(_ context.Context, ticket string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[ticket]
	delete(m.entries, ticket)
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return entry.state, nil
}
