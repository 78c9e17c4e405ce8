package srp

// Client is the SRP-6a client-side endpoint. It holds only an immutable
// reference to Parameters; every method is a pure function of its explicit
// inputs and is safe to call concurrently from multiple goroutines, because
// no call mutates the Client or retains state for the next call. Callers
// thread the protocol values (salt, ephemerals, session) between calls
// themselves.
type Client struct {
	Params *Parameters
}

// NewClient binds a Client to a negotiated Parameters value.
func NewClient(params *Parameters) *Client {
	return &Client{Params: params}
}

// GenerateSalt returns a uniform random salt of HashSizeBytes bytes,
// rendered at width 2*HashSizeBytes hex digits.
func (c *Client) GenerateSalt(r RandReader) (*Integer, error) {
	return Random(r, c.Params.HashSizeBytes())
}

// DerivePrivateKey computes x = H(s || H(I || ":" || P)). identity and
// password are taken as raw UTF-8 bytes and are never normalized or
// otherwise transformed.
func (c *Client) DerivePrivateKey(salt *Integer, identity, password string) (*Integer, error) {
	inner, err := c.Params.Hash.ComputeHash([]byte(identity), []byte(":"), []byte(password))
	if err != nil {
		return nil, err
	}
	return c.Params.Hash.ComputeHash(salt, inner)
}

// DeriveVerifier computes v = g^x mod N, padded to Params.PaddedLength.
func (c *Client) DeriveVerifier(x *Integer) (*Integer, error) {
	return c.Params.G.ModExp(x, c.Params.N)
}

// GenerateEphemeral samples a private scalar a (HashSizeBytes random bytes)
// and computes the public value A = g^a mod N, resampling if A reduces to
// zero mod N, per the SRP-6a safety requirement that a public value never
// be a multiple of N.
func (c *Client) GenerateEphemeral(r RandReader) (*Ephemeral, error) {
	for {
		a, err := Random(r, c.Params.HashSizeBytes())
		if err != nil {
			return nil, err
		}
		A, err := c.Params.G.ModExp(a, c.Params.N)
		if err != nil {
			return nil, err
		}
		if A.IsZero() {
			continue
		}
		return &Ephemeral{Secret: a, Public: A}, nil
	}
}

// DeriveSession derives the session key and client proof from the client's
// ephemeral secret a, the server's public value B, the enrollment salt and
// identity, and the client's private key x. A is recomputed internally from
// a; callers do not need to have retained it.
func (c *Client) DeriveSession(a, B *Integer, salt *Integer, identity string, x *Integer) (*Session, error) {
	p := c.Params

	A, err := p.G.ModExp(a, p.N)
	if err != nil {
		return nil, err
	}

	if B.IsZeroMod(p.N) {
		return nil, illegalParameter("server public value B is zero mod N")
	}

	u, err := computeU(p, A, B)
	if err != nil {
		return nil, err
	}
	if u.IsZero() {
		return nil, illegalParameter("scrambling parameter u hashed to zero")
	}

	gx, err := p.G.ModExp(x, p.N)
	if err != nil {
		return nil, err
	}
	base := B.Sub(p.K.Mul(gx))
	exponent := a.Add(u.Mul(x))
	S, err := base.ModExp(exponent, p.N)
	if err != nil {
		return nil, err
	}

	K, err := p.Hash.ComputeHash(S)
	if err != nil {
		return nil, err
	}
	M1, err := computeM1(p, A, B, salt, identity, K)
	if err != nil {
		return nil, err
	}

	return &Session{Key: K, Proof: M1}, nil
}

// VerifySession checks the server's proof M2 against the session the
// client just derived. A mismatch means the server does not hold the same
// verifier the client's password would produce; the caller MUST discard
// clientSession.Key in that case.
func (c *Client) VerifySession(A *Integer, clientSession *Session, serverM2 *Integer) error {
	expected, err := computeM2(c.Params, A, clientSession.Proof, clientSession.Key)
	if err != nil {
		return err
	}
	if !expected.Equal(serverM2) {
		return badServerProof("server proof M2 does not match expected value")
	}
	return nil
}

// computeU implements u = H(PAD(A) || PAD(B)). The operands must be hashed
// at their padded byte length, not their minimal one, so that two values
// with the same numeric magnitude but different padded widths still hash
// identically once padded to N's width.
func computeU(p *Parameters, A, B *Integer) (*Integer, error) {
	return p.Hash.ComputeHash(A.Pad(p.PaddedLength), B.Pad(p.PaddedLength))
}

// computeM1 implements M1 = H(H(N) XOR H(g) || H(I) || s || PAD(A) || PAD(B) || K).
func computeM1(p *Parameters, A, B, salt *Integer, identity string, K *Integer) (*Integer, error) {
	hN, err := p.Hash.ComputeHash(p.N)
	if err != nil {
		return nil, err
	}
	hG, err := p.Hash.ComputeHash(p.G)
	if err != nil {
		return nil, err
	}
	hI, err := p.Hash.ComputeHash([]byte(identity))
	if err != nil {
		return nil, err
	}
	xorNG := xorBytes(hN.Bytes(), hG.Bytes())

	return p.Hash.ComputeHash(xorNG, hI, salt, A.Pad(p.PaddedLength), B.Pad(p.PaddedLength), K)
}

// computeM2 implements M2 = H(PAD(A) || M1 || K).
func computeM2(p *Parameters, A, M1, K *Integer) (*Integer, error) {
	return p.Hash.ComputeHash(A.Pad(p.PaddedLength), M1, K)
}

// ComputeVerifier is an enrollment-time convenience: it derives x from
// (salt, identity, password) and returns v = g^x mod N in one call, for
// callers who do not otherwise need to keep x around.
func ComputeVerifier(params *Parameters, salt *Integer, identity, password string) (*Integer, error) {
	c := NewClient(params)
	x, err := c.DerivePrivateKey(salt, identity, password)
	if err != nil {
		return nil, err
	}
	return c.DeriveVerifier(x)
}
