package srp_test

import (
	"sync"
	"testing"

	"github.com/hominsu/srp6a/pkg/srp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exchange runs one full SRP-6a enrollment and three-round authentication,
// returning the derived client and server sessions and the public
// ephemeral values exchanged along the way, for assertions against.
type exchangeResult struct {
	clientSession *srp.Session
	serverSession *srp.Session
	A, B          *srp.Integer
	salt          *srp.Integer
}

func runExchange(t *testing.T, params *srp.Parameters, identity, password string) *exchangeResult {
	t.Helper()

	client := srp.NewClient(params)
	server := srp.NewServer(params)

	salt, err := client.GenerateSalt(nil)
	require.NoError(t, err)

	x, err := client.DerivePrivateKey(salt, identity, password)
	require.NoError(t, err)
	v, err := client.DeriveVerifier(x)
	require.NoError(t, err)

	clientEph, err := client.GenerateEphemeral(nil)
	require.NoError(t, err)
	serverEph, err := server.GenerateEphemeral(v, nil)
	require.NoError(t, err)

	clientSession, err := client.DeriveSession(clientEph.Secret, serverEph.Public, salt, identity, x)
	require.NoError(t, err)

	serverSession, err := server.DeriveSession(serverEph.Secret, clientEph.Public, salt, identity, v, clientSession.Proof)
	require.NoError(t, err)

	err = client.VerifySession(clientEph.Public, clientSession, serverSession.Proof)
	require.NoError(t, err)

	return &exchangeResult{
		clientSession: clientSession,
		serverSession: serverSession,
		A:             clientEph.Public,
		B:             serverEph.Public,
		salt:          salt,
	}
}

// S1: default parameters.
func TestScenario_DefaultParameters(t *testing.T) {
	params := srp.DefaultParameters()
	res := runExchange(t, params, "linus@folkdatorn.se", "$uper$ecure")
	assert.True(t, res.clientSession.Key.Equal(res.serverSession.Key))
}

// S2: custom 512-bit safe prime, custom generator, SHA-512.
func TestScenario_CustomPrime512(t *testing.T) {
	const n512 = "E5BEB93B3E3C491A7A51AC1139984022CBEC5542CDE6C9B9FED5FF00F3579A1" +
		"3772852E18F5BAE7D5668568D1CCEF22837E1F59544221BDE45B0D2238FD396F7"
	params, err := srp.NewParameters(n512, "03", "sha512")
	require.NoError(t, err)

	res := runExchange(t, params, "yallie@yandex.ru", "h4ck3r$")
	assert.True(t, res.clientSession.Key.Equal(res.serverSession.Key))
}

// S3: custom 1024-bit prime, g=07, SHA-384.
func TestScenario_CustomPrime1024(t *testing.T) {
	const n1024 = "9B7405885D49BD825BDB8C54B843F1073781821A24DA6D72AE2CE27CE195107D" +
		"539830B05FCD1B3DD28C2AC5737DF8CE2F0E4CC06423158F65ECE1733F6607EA" +
		"ABBE06B8925D4C996A28F9204AD0654398DABE3982897940B24BFE0867361FCA" +
		"1EA016D9C3095E9FDC94432BA2AC90AF495301FBD81975B8D65A49FE5B5D8661"
	params, err := srp.NewParameters(n1024, "07", "sha384")
	require.NoError(t, err)

	res := runExchange(t, params, "bozo", "h4ck3r")
	assert.True(t, res.clientSession.Key.Equal(res.serverSession.Key))
}

// S4: every standard group with SHA-1.
func TestScenario_AllStandardGroups(t *testing.T) {
	for _, bits := range []int{1024, 1536, 2048, 3072, 4096, 6144, 8192} {
		t.Run(intToLabel(bits), func(t *testing.T) {
			params, err := srp.NewParametersFromGroup(bits, "sha1")
			require.NoError(t, err)

			res := runExchange(t, params, "hello", "world")
			assert.True(t, res.clientSession.Key.Equal(res.serverSession.Key))
			assertWidthDiscipline(t, params, res)
		})
	}
}

// S5: concurrency safety, property 6.
func TestScenario_ConcurrentExchanges(t *testing.T) {
	params := srp.DefaultParameters()
	server := srp.NewServer(params)

	const n = 100
	var wg sync.WaitGroup
	errs := make([]error, n)
	keysMatch := make([]bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			client := srp.NewClient(params)
			identity := "demo"
			password := "insecure"

			salt, err := client.GenerateSalt(nil)
			if err != nil {
				errs[i] = err
				return
			}
			x, err := client.DerivePrivateKey(salt, identity, password)
			if err != nil {
				errs[i] = err
				return
			}
			v, err := client.DeriveVerifier(x)
			if err != nil {
				errs[i] = err
				return
			}
			clientEph, err := client.GenerateEphemeral(nil)
			if err != nil {
				errs[i] = err
				return
			}
			serverEph, err := server.GenerateEphemeral(v, nil)
			if err != nil {
				errs[i] = err
				return
			}
			clientSession, err := client.DeriveSession(clientEph.Secret, serverEph.Public, salt, identity, x)
			if err != nil {
				errs[i] = err
				return
			}
			serverSession, err := server.DeriveSession(serverEph.Secret, clientEph.Public, salt, identity, v, clientSession.Proof)
			if err != nil {
				errs[i] = err
				return
			}
			keysMatch[i] = clientSession.Key.Equal(serverSession.Key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.True(t, keysMatch[i])
	}
}

// S6: mutation test. Flipping M1's low bit must make the server reject with
// BadClientProof, and the server must not disclose a session key.
func TestScenario_TamperedM1Rejected(t *testing.T) {
	params := srp.DefaultParameters()
	client := srp.NewClient(params)
	server := srp.NewServer(params)

	identity, password := "linus@folkdatorn.se", "$uper$ecure"

	salt, err := client.GenerateSalt(nil)
	require.NoError(t, err)
	x, err := client.DerivePrivateKey(salt, identity, password)
	require.NoError(t, err)
	v, err := client.DeriveVerifier(x)
	require.NoError(t, err)

	clientEph, err := client.GenerateEphemeral(nil)
	require.NoError(t, err)
	serverEph, err := server.GenerateEphemeral(v, nil)
	require.NoError(t, err)

	clientSession, err := client.DeriveSession(clientEph.Secret, serverEph.Public, salt, identity, x)
	require.NoError(t, err)

	tampered := flipLowBit(t, clientSession.Proof)

	serverSession, err := server.DeriveSession(serverEph.Secret, clientEph.Public, salt, identity, v, tampered)
	require.Error(t, err)
	assert.Nil(t, serverSession)

	var srpErr *srp.Error
	require.ErrorAs(t, err, &srpErr)
	assert.Equal(t, srp.BadClientProof, srpErr.Kind)
}

// Regression: a client that sends A = N (a multiple of N, not merely the
// literal value 0) must be rejected. A's raw value is nonzero here, but
// A mod N == 0, which would otherwise force a predictable premaster secret
// and let an attacker complete authentication without knowing the password
// (the "zero key" attack).
func TestScenario_ServerRejectsPublicValueThatIsMultipleOfN(t *testing.T) {
	params := srp.DefaultParameters()
	client := srp.NewClient(params)
	server := srp.NewServer(params)

	identity, password := "demo", "insecure"
	salt, err := client.GenerateSalt(nil)
	require.NoError(t, err)
	x, err := client.DerivePrivateKey(salt, identity, password)
	require.NoError(t, err)
	v, err := client.DeriveVerifier(x)
	require.NoError(t, err)

	serverEph, err := server.GenerateEphemeral(v, nil)
	require.NoError(t, err)

	zeroA := params.N.Pad(params.PaddedLength)
	clientM1, err := srp.FromHex("00")
	require.NoError(t, err)

	serverSession, err := server.DeriveSession(serverEph.Secret, zeroA, salt, identity, v, clientM1)
	require.Error(t, err)
	assert.Nil(t, serverSession)

	var srpErr *srp.Error
	require.ErrorAs(t, err, &srpErr)
	assert.Equal(t, srp.IllegalParameter, srpErr.Kind)
}

// Regression: the symmetric client-side check on the server's B.
func TestScenario_ClientRejectsPublicValueThatIsMultipleOfN(t *testing.T) {
	params := srp.DefaultParameters()
	client := srp.NewClient(params)

	identity, password := "demo", "insecure"
	salt, err := client.GenerateSalt(nil)
	require.NoError(t, err)
	x, err := client.DerivePrivateKey(salt, identity, password)
	require.NoError(t, err)

	clientEph, err := client.GenerateEphemeral(nil)
	require.NoError(t, err)

	zeroB := params.N.Pad(params.PaddedLength)

	clientSession, err := client.DeriveSession(clientEph.Secret, zeroB, salt, identity, x)
	require.Error(t, err)
	assert.Nil(t, clientSession)

	var srpErr *srp.Error
	require.ErrorAs(t, err, &srpErr)
	assert.Equal(t, srp.IllegalParameter, srpErr.Kind)
}

// Property 3/4: password sensitivity and tamper rejection on A/B.
func TestProperty_WrongPasswordFailsAtServer(t *testing.T) {
	params := srp.DefaultParameters()
	client := srp.NewClient(params)
	server := srp.NewServer(params)

	identity := "bozo"
	salt, err := client.GenerateSalt(nil)
	require.NoError(t, err)
	x, err := client.DerivePrivateKey(salt, identity, "correct-password")
	require.NoError(t, err)
	v, err := client.DeriveVerifier(x)
	require.NoError(t, err)

	wrongX, err := client.DerivePrivateKey(salt, identity, "wrong-password")
	require.NoError(t, err)
	assert.False(t, x.Equal(wrongX))

	clientEph, err := client.GenerateEphemeral(nil)
	require.NoError(t, err)
	serverEph, err := server.GenerateEphemeral(v, nil)
	require.NoError(t, err)

	clientSession, err := client.DeriveSession(clientEph.Secret, serverEph.Public, salt, identity, wrongX)
	require.NoError(t, err) // the client itself cannot tell it has the wrong password

	_, err = server.DeriveSession(serverEph.Secret, clientEph.Public, salt, identity, v, clientSession.Proof)
	require.Error(t, err)
	var srpErr *srp.Error
	require.ErrorAs(t, err, &srpErr)
	assert.Equal(t, srp.BadClientProof, srpErr.Kind)
}

func TestProperty_TamperedM2Rejected(t *testing.T) {
	params := srp.DefaultParameters()
	client := srp.NewClient(params)
	server := srp.NewServer(params)
	identity, password := "demo", "insecure"

	salt, err := client.GenerateSalt(nil)
	require.NoError(t, err)
	x, err := client.DerivePrivateKey(salt, identity, password)
	require.NoError(t, err)
	v, err := client.DeriveVerifier(x)
	require.NoError(t, err)

	clientEph, err := client.GenerateEphemeral(nil)
	require.NoError(t, err)
	serverEph, err := server.GenerateEphemeral(v, nil)
	require.NoError(t, err)

	clientSession, err := client.DeriveSession(clientEph.Secret, serverEph.Public, salt, identity, x)
	require.NoError(t, err)
	serverSession, err := server.DeriveSession(serverEph.Secret, clientEph.Public, salt, identity, v, clientSession.Proof)
	require.NoError(t, err)

	tamperedM2 := flipLowBit(t, serverSession.Proof)
	err = client.VerifySession(clientEph.Public, clientSession, tamperedM2)
	require.Error(t, err)
	var srpErr *srp.Error
	require.ErrorAs(t, err, &srpErr)
	assert.Equal(t, srp.BadServerProof, srpErr.Kind)
}

// Property 7: padded-hash equivalence — an under-padded A/B must produce a
// different u than the correctly padded pair.
func TestProperty_PaddedHashEquivalence(t *testing.T) {
	params := srp.DefaultParameters()
	h := params.Hash

	a, err := srp.FromHex("ff")
	require.NoError(t, err)
	b, err := srp.FromHex("ff")
	require.NoError(t, err)

	underPadded, err := h.ComputeHash(a, b)
	require.NoError(t, err)
	padded, err := h.ComputeHash(a.Pad(params.PaddedLength), b.Pad(params.PaddedLength))
	require.NoError(t, err)

	assert.False(t, underPadded.Equal(padded))
}

func assertWidthDiscipline(t *testing.T, params *srp.Parameters, res *exchangeResult) {
	t.Helper()
	assert.Equal(t, params.PaddedLength, res.A.Width())
	assert.Equal(t, params.PaddedLength, res.B.Width())
	assert.Equal(t, 2*params.HashSizeBytes(), res.salt.Width())
	assert.Equal(t, 2*params.HashSizeBytes(), res.clientSession.Key.Width())
	assert.Equal(t, 2*params.HashSizeBytes(), res.clientSession.Proof.Width())
	assert.Equal(t, 2*params.HashSizeBytes(), res.serverSession.Proof.Width())
}

func flipLowBit(t *testing.T, n *srp.Integer) *srp.Integer {
	t.Helper()
	b := n.Bytes()
	tampered := make([]byte, len(b))
	copy(tampered, b)
	tampered[len(tampered)-1] ^= 0x01
	return srp.FromBytes(tampered).Pad(n.Width())
}
