// Package ticket mints and verifies the opaque handle a client presents
// between the two round trips of an SRP-6a exchange: it carries the
// identity under negotiation without exposing it, or any exchange state,
// to whoever holds the ticket.
package ticket

import (
	"errors"

	"github.com/gorilla/securecookie"
)

// ErrInvalid is returned by Verify when a ticket fails to decode, is
// expired (per the codec's MaxAge), or was signed with a different key.
var ErrInvalid = errors.New("ticket: invalid or expired")

// ticketName is the fixed cookie "name" gorilla/securecookie's
// EncodeMulti/DecodeMulti key their HMAC to. It has no meaning beyond that;
// tickets here never travel as HTTP cookies.
const ticketName = "srp_exchange"

// Issuer mints and verifies tickets using one or more key pairs, following
// the same securecookie.Codec rotation pallas's RedisStore uses for session
// cookies: the newest pair signs, and every pair is tried when verifying,
// so a key can be rotated without invalidating tickets issued under the
// previous one.
type Issuer struct {
	codecs []securecookie.Codec
}

// NewIssuer builds an Issuer from key pairs ordered newest-first, each pair
// being a 32-byte (or 64-byte) hash key followed by an optional block key,
// exactly as securecookie.CodecsFromPairs expects.
func NewIssuer(keyPairs ...[]byte) *Issuer {
	return &Issuer{codecs: securecookie.CodecsFromPairs(keyPairs...)}
}

// GenerateKeyPair produces a fresh 64-byte hash key suitable for NewIssuer.
func GenerateKeyPair() []byte {
	return securecookie.GenerateRandomKey(64)
}

// Issue returns an opaque, signed ticket string that Verify can later
// resolve back to identity.
func (i *Issuer) Issue(identity string) (string, error) {
	encoded, err := securecookie.EncodeMulti(ticketName, identity, i.codecs...)
	if err != nil {
		return "", err
	}
	return encoded, nil
}

// Verify recovers the identity embedded in a ticket previously produced by
// Issue. It returns ErrInvalid for any decode, signature, or expiry
// failure, never the underlying securecookie error, so callers cannot
// distinguish "wrong signature" from "expired" by inspecting the error.
func (i *Issuer) Verify(t string) (identity string, err error) {
	if err := securecookie.DecodeMulti(ticketName, t, &identity, i.codecs...); err != nil {
		return "", ErrInvalid
	}
	return identity, nil
}
