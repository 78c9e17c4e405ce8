// Package authflow orchestrates a full SRP-6a enrollment and three-round
// authentication against the storage and ticketing primitives in
// pkg/verifierstore, pkg/exchangestore, and pkg/ticket. It owns no crypto
// itself; every SRP-6a computation runs through pkg/srp.
package authflow

import (
	"context"
	"errors"
	"time"

	kratoserrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/hominsu/srp6a/pkg/exchangestore"
	"github.com/hominsu/srp6a/pkg/srp"
	"github.com/hominsu/srp6a/pkg/ticket"
	"github.com/hominsu/srp6a/pkg/verifierstore"
)

// Reason codes for the errors Service returns, mirrored on the generated
// v1.ErrorXxx reason strings a protoc-wired deployment of this flow would
// carry.
const (
	reasonIllegalParameter = "ILLEGAL_PARAMETER"
	reasonBadClientProof   = "BAD_CLIENT_PROOF"
	reasonBadServerProof   = "BAD_SERVER_PROOF"
	reasonConfiguration    = "CONFIGURATION"
	reasonAlreadyEnrolled  = "IDENTITY_ALREADY_ENROLLED"
	reasonUnknownIdentity  = "IDENTITY_NOT_FOUND"
	reasonExchangeExpired  = "EXCHANGE_EXPIRED"
)

// DefaultExchangeTTL bounds how long a BeginAuthentication exchange may sit
// unfinished before FinishAuthentication must be called.
const DefaultExchangeTTL = 2 * time.Minute

// Service wires an SRP-6a parameter set to the three stores an identity
// provider needs to run enrollment and authentication end to end.
type Service struct {
	params      *srp.Parameters
	verifiers   verifierstore.Repo
	exchanges   exchangestore.Store
	tickets     *ticket.Issuer
	exchangeTTL time.Duration
	log         *log.Helper
}

// NewService assembles a Service. exchangeTTL of zero uses DefaultExchangeTTL.
func NewService(
	params *srp.Parameters,
	verifiers verifierstore.Repo,
	exchanges exchangestore.Store,
	tickets *ticket.Issuer,
	exchangeTTL time.Duration,
	logger log.Logger,
) *Service {
	if exchangeTTL <= 0 {
		exchangeTTL = DefaultExchangeTTL
	}
	return &Service{
		params:      params,
		verifiers:   verifiers,
		exchanges:   exchanges,
		tickets:     tickets,
		exchangeTTL: exchangeTTL,
		log:         log.NewHelper(log.With(logger, "module", "authflow")),
	}
}

// Enroll records a new identity's salt and verifier. The caller is
// responsible for having derived them client-side; Enroll never sees a
// password.
func (s *Service) Enroll(ctx context.Context, identity string, salt, verifier *srp.Integer) error {
	if identity == "" {
		return kratoserrors.BadRequest(reasonIllegalParameter, "identity must not be empty")
	}
	rec := verifierstore.NewRecord(identity, salt, verifier)
	if err := s.verifiers.Create(ctx, rec); err != nil {
		if errors.Is(err, verifierstore.ErrAlreadyExists) {
			return kratoserrors.Conflict(reasonAlreadyEnrolled, "identity already enrolled")
		}
		return kratoserrors.InternalServer(reasonConfiguration, err.Error())
	}
	s.log.WithContext(ctx).Infof("enrolled identity %q", identity)
	return nil
}

// BeginChallenge is the first authentication round trip: given the
// client's public ephemeral A, it looks up the identity's (s, v), derives
// the server's ephemeral pair, stashes the pending exchange, and returns a
// ticket the client must present on the second round along with the
// server's salt and public ephemeral B.
func (s *Service) BeginChallenge(ctx context.Context, identity string, a *srp.Integer) (tk string, salt, b *srp.Integer, err error) {
	rec, err := s.verifiers.GetByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, verifierstore.ErrNotFound) {
			return "", nil, nil, kratoserrors.NotFound(reasonUnknownIdentity, "identity not found")
		}
		return "", nil, nil, kratoserrors.InternalServer(reasonConfiguration, err.Error())
	}

	recSalt, verifier, err := rec.Integers()
	if err != nil {
		return "", nil, nil, kratoserrors.InternalServer(reasonConfiguration, err.Error())
	}

	server := srp.NewServer(s.params)
	eph, err := server.GenerateEphemeral(verifier, nil)
	if err != nil {
		return "", nil, nil, translateSRPError(err)
	}

	tk, err = s.tickets.Issue(identity)
	if err != nil {
		return "", nil, nil, kratoserrors.InternalServer(reasonConfiguration, err.Error())
	}

	state := exchangestore.NewState(identity, recSalt, verifier, eph.Secret, eph.Public)
	if err := s.exchanges.Put(ctx, tk, state, s.exchangeTTL); err != nil {
		return "", nil, nil, kratoserrors.InternalServer(reasonConfiguration, err.Error())
	}

	s.log.WithContext(ctx).Infof("began exchange for identity %q", identity)
	return tk, recSalt, eph.Public, nil
}

// FinishChallenge is the second round trip: given the ticket from
// BeginChallenge, the client's public ephemeral A, and its proof M1, it
// verifies the client and returns the server's own proof M2 and the shared
// session key. Any failure leaves no trace of the session key in the
// returned error.
func (s *Service) FinishChallenge(ctx context.Context, tk string, a, clientM1 *srp.Integer) (sessionKey, m2 *srp.Integer, err error) {
	identity, err := s.tickets.Verify(tk)
	if err != nil {
		return nil, nil, kratoserrors.Unauthorized(reasonExchangeExpired, "ticket invalid or expired")
	}

	state, err := s.exchanges.Take(ctx, tk)
	if err != nil {
		if errors.Is(err, exchangestore.ErrNotFound) {
			return nil, nil, kratoserrors.Unauthorized(reasonExchangeExpired, "exchange not found or already completed")
		}
		return nil, nil, kratoserrors.InternalServer(reasonConfiguration, err.Error())
	}
	if state.Identity != identity {
		return nil, nil, kratoserrors.Unauthorized(reasonExchangeExpired, "ticket does not match pending exchange")
	}

	salt, verifier, secret, public, err := state.Integers()
	if err != nil {
		return nil, nil, kratoserrors.InternalServer(reasonConfiguration, err.Error())
	}

	server := srp.NewServer(s.params)
	session, err := server.DeriveSession(secret, a, salt, identity, verifier, clientM1)
	if err != nil {
		s.log.WithContext(ctx).Warnf("authentication failed for identity %q: %v", identity, err)
		return nil, nil, translateSRPError(err)
	}

	_ = public // the server's own public ephemeral played no further role once B has been sent
	s.log.WithContext(ctx).Infof("completed exchange for identity %q", identity)
	return session.Key, session.Proof, nil
}

// translateSRPError maps a *srp.Error to the kratos error with the matching
// reason code, so callers never need to import pkg/srp just to inspect
// error kinds.
func translateSRPError(err error) error {
	var srpErr *srp.Error
	if !errors.As(err, &srpErr) {
		return kratoserrors.InternalServer(reasonConfiguration, err.Error())
	}
	switch srpErr.Kind {
	case srp.IllegalParameter:
		return kratoserrors.BadRequest(reasonIllegalParameter, srpErr.Error())
	case srp.BadClientProof:
		return kratoserrors.Unauthorized(reasonBadClientProof, srpErr.Error())
	case srp.BadServerProof:
		return kratoserrors.Unauthorized(reasonBadServerProof, srpErr.Error())
	default:
		return kratoserrors.InternalServer(reasonConfiguration, srpErr.Error())
	}
}
