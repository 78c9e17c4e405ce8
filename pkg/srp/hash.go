package srp

import (
	"crypto"
	_ "crypto/md5"    // register crypto.MD5
	_ "crypto/sha1"   // register crypto.SHA1
	_ "crypto/sha256" // register crypto.SHA256, crypto.SHA384's sibling
	_ "crypto/sha512" // register crypto.SHA384, crypto.SHA512
	"math/big"
	"strings"
)

// Hash adapts a registered crypto.Hash to SRP-6a's "hash a concatenation of
// mixed-typed values, interpret the digest as an integer" idiom. It is
// stateless and safe to share across goroutines.
type Hash struct {
	algo crypto.Hash
	name string
}

var hashByName = map[string]crypto.Hash{
	"sha1":   crypto.SHA1,
	"sha256": crypto.SHA256,
	"sha384": crypto.SHA384,
	"sha512": crypto.SHA512,
	"md5":    crypto.MD5,
}

// NewHash resolves a hash algorithm by name (case-insensitive; "sha-256" and
// "sha256" are both accepted). Returns a Configuration error for unknown
// names or for an algorithm whose implementation was not registered.
func NewHash(name string) (*Hash, error) {
	key := strings.ToLower(strings.ReplaceAll(name, "-", ""))
	algo, ok := hashByName[key]
	if !ok {
		return nil, configuration("unknown hash algorithm %q", name)
	}
	if !algo.Available() {
		return nil, configuration("hash algorithm %q is not linked into the binary", name)
	}
	return &Hash{algo: algo, name: name}, nil
}

// HashSizeBytes is the digest byte length of the underlying algorithm.
func (h *Hash) HashSizeBytes() int {
	return h.algo.Size()
}

// AlgorithmName is a diagnostic-only identifier; it has no protocol meaning.
func (h *Hash) AlgorithmName() string {
	return h.name
}

// ComputeHash hashes the concatenation of its arguments' byte
// representations and returns the digest as an Integer at width
// 2*HashSizeBytes hex digits. Each argument must be a string (hex, decoded
// to its padded byte form), an *Integer (its Bytes()), []byte, or nil (which
// contributes zero bytes — matching SrpHash.ComputeHash's "null/empty
// contributes zero bytes" contract).
func (h *Hash) ComputeHash(values ...interface{}) (*Integer, error) {
	sum := h.algo.New()
	for _, v := range values {
		b, err := hashInputBytes(v)
		if err != nil {
			return nil, err
		}
		sum.Write(b)
	}
	digest := sum.Sum(nil)
	return &Integer{v: new(big.Int).SetBytes(digest), width: 2 * len(digest)}, nil
}

func hashInputBytes(v interface{}) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return t, nil
	case string:
		n, err := FromHex(t)
		if err != nil {
			return nil, err
		}
		return n.Bytes(), nil
	case *Integer:
		if t == nil {
			return nil, nil
		}
		return t.Bytes(), nil
	default:
		return nil, configuration("ComputeHash: unsupported argument type %T", v)
	}
}
