package srp

// Server is the SRP-6a server-side endpoint. Like Client, it holds only an
// immutable reference to Parameters and retains no state between calls;
// the caller is responsible for carrying the verifier and ephemeral values
// from one round to the next (see pkg/exchangestore for a store that does
// exactly that across a request/response boundary).
type Server struct {
	Params *Parameters
}

// NewServer binds a Server to a negotiated Parameters value.
func NewServer(params *Parameters) *Server {
	return &Server{Params: params}
}

// GenerateEphemeral samples a private scalar b (HashSizeBytes random bytes)
// and computes the public value B = (k*v + g^b) mod N against the supplied
// verifier, resampling if B reduces to zero mod N.
func (s *Server) GenerateEphemeral(v *Integer, r RandReader) (*Ephemeral, error) {
	p := s.Params
	for {
		b, err := Random(r, p.HashSizeBytes())
		if err != nil {
			return nil, err
		}
		gb, err := p.G.ModExp(b, p.N)
		if err != nil {
			return nil, err
		}
		sum := p.K.Mul(v).Add(gb)
		B, err := sum.Mod(p.N)
		if err != nil {
			return nil, err
		}
		B = B.Pad(p.PaddedLength)
		if B.IsZero() {
			continue
		}
		return &Ephemeral{Secret: b, Public: B}, nil
	}
}

// DeriveSession derives the session key and server proof from the server's
// ephemeral secret b, the client's public value A, the enrollment salt,
// identity and verifier, and the client's claimed proof clientM1. B is
// recomputed internally from b and v.
//
// If clientM1 does not match the value the server computes, DeriveSession
// returns a BadClientProof error and the caller MUST NOT reveal K — the
// zero value of the returned Session's Key in that case is never the real
// session key, and callers MUST discard whatever Session is returned on
// error.
func (s *Server) DeriveSession(b, A *Integer, salt *Integer, identity string, v *Integer, clientM1 *Integer) (*Session, error) {
	p := s.Params

	if A.IsZeroMod(p.N) {
		return nil, illegalParameter("client public value A is zero mod N")
	}

	gb, err := p.G.ModExp(b, p.N)
	if err != nil {
		return nil, err
	}
	Bsum, err := p.K.Mul(v).Add(gb).Mod(p.N)
	if err != nil {
		return nil, err
	}
	B := Bsum.Pad(p.PaddedLength)

	u, err := computeU(p, A, B)
	if err != nil {
		return nil, err
	}
	if u.IsZero() {
		return nil, illegalParameter("scrambling parameter u hashed to zero")
	}

	vu, err := v.ModExp(u, p.N)
	if err != nil {
		return nil, err
	}
	base := A.Mul(vu)
	S, err := base.ModExp(b, p.N)
	if err != nil {
		return nil, err
	}

	K, err := p.Hash.ComputeHash(S)
	if err != nil {
		return nil, err
	}

	expectedM1, err := computeM1(p, A, B, salt, identity, K)
	if err != nil {
		return nil, err
	}
	if !expectedM1.Equal(clientM1) {
		return nil, badClientProof("client proof M1 does not match expected value")
	}

	M2, err := computeM2(p, A, expectedM1, K)
	if err != nil {
		return nil, err
	}

	return &Session{Key: K, Proof: M2}, nil
}
