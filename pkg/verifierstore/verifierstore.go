// Package verifierstore persists the long-term SRP-6a enrollment tuple for
// an identity: its salt and verifier. It holds no ephemeral exchange state
// and no password material — those live in pkg/exchangestore and are never
// written here.
package verifierstore

import (
	"context"
	"errors"
	"sync"

	"github.com/hominsu/srp6a/pkg/srp"
)

// ErrNotFound is returned by GetByIdentity when no record exists for the
// given identity.
var ErrNotFound = errors.New("verifierstore: identity not found")

// ErrAlreadyExists is returned by Create when the identity has already
// enrolled.
var ErrAlreadyExists = errors.New("verifierstore: identity already exists")

// Record is the (identity, salt, verifier) tuple the server retains after
// enrollment. Salt and Verifier are rendered as hex strings so a Record can
// be marshaled by any codec without custom (un)marshalers.
type Record struct {
	Identity string
	Salt     string
	Verifier string
}

// Repo stores one Record per identity. Implementations must treat Create
// and GetByIdentity as safe for concurrent use by multiple goroutines.
type Repo interface {
	Create(ctx context.Context, rec *Record) error
	GetByIdentity(ctx context.Context, identity string) (*Record, error)
}

// NewRecord builds a Record from the salt and verifier an enrollment
// produced, hex-encoding both so the result is storage-agnostic.
func NewRecord(identity string, salt, verifier *srp.Integer) *Record {
	return &Record{
		Identity: identity,
		Salt:     salt.Hex(),
		Verifier: verifier.Hex(),
	}
}

// Integers decodes Salt and Verifier back into the *srp.Integer pair that
// server-side session derivation consumes.
func (r *Record) Integers() (salt, verifier *srp.Integer, err error) {
	salt, err = srp.FromHex(r.Salt)
	if err != nil {
		return nil, nil, err
	}
	verifier, err = srp.FromHex(r.Verifier)
	if err != nil {
		return nil, nil, err
	}
	return salt, verifier, nil
}

// MemoryRepo is an in-memory Repo, intended as the reference implementation
// a real account store sits behind in production deployments.
type MemoryRepo struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{records: make(map[string]*Record)}
}

func (m *MemoryRepo) Create(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.Identity]; exists {
		return ErrAlreadyExists
	}
	stored := *rec
	m.records[rec.Identity] = &stored
	return nil
}

func (m *MemoryRepo) GetByIdentity(_ context.Context, identity string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[identity]
	if !ok {
		return nil, ErrNotFound
	}
	stored := *rec
	return &stored, nil
}
