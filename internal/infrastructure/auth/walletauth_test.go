package auth

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// memoryChallengeStore mirrors the redis store's single-use contract.
type memoryChallengeStore struct {
	challenges map[string]string
}

func newMemoryChallengeStore() *memoryChallengeStore {
	return &memoryChallengeStore{challenges: map[string]string{}}
}

func (s *memoryChallengeStore) Put(_ context.Context, address, message string, _ time.Duration) error {
	s.challenges[strings.ToLower(address)] = message
	return nil
}

func (s *memoryChallengeStore) Take(_ context.Context, address string) (string, error) {
	message, ok := s.challenges[strings.ToLower(address)]
	if !ok {
		return "", errors.NewUnauthorizedError("no pending challenge for this wallet")
	}
	delete(s.challenges, strings.ToLower(address))
	return message, nil
}

// testWallet is a key pair that signs the way a browser wallet does.
type testWallet struct {
	key     *secp256k1.PrivateKey
	address string
}

func newTestWallet(t *testing.T) *testWallet {
	t.Helper()
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	uncompressed := key.PubKey().SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	hash := h.Sum(nil)

	return &testWallet{
		key:     key,
		address: "0x" + hex.EncodeToString(hash[12:]),
	}
}

// sign produces the 65-byte r||s||v hex signature of personal_sign.
func (w *testWallet) sign(message string) string {
	compact := secpecdsa.SignCompact(w.key, personalMessageDigest(message), false)
	sig := make([]byte, 65)
	copy(sig[:64], compact[1:])
	sig[64] = compact[0] // v moves to the end, keeping the 27 offset
	return "0x" + hex.EncodeToString(sig)
}

func newTestService(store ChallengeStore) *WalletAuthService {
	tokens := NewSessionTokenService("test-secret", 24)
	return NewWalletAuthService(store, tokens, 5*time.Minute, testLogger())
}

func TestWalletAuth_FullHandshake(t *testing.T) {
	store := newMemoryChallengeStore()
	svc := newTestService(store)
	wallet := newTestWallet(t)
	ctx := context.Background()

	message, err := svc.IssueChallenge(ctx, wallet.address)
	require.NoError(t, err)
	assert.Contains(t, message, "Nonce:")

	token, err := svc.VerifySignature(ctx, wallet.address, wallet.sign(message))
	require.NoError(t, err)

	addr, err := svc.VerifySession(token)
	require.NoError(t, err)
	assert.Equal(t, wallet.address, addr)
}

func TestWalletAuth_ChallengeIsSingleUse(t *testing.T) {
	store := newMemoryChallengeStore()
	svc := newTestService(store)
	wallet := newTestWallet(t)
	ctx := context.Background()

	message, err := svc.IssueChallenge(ctx, wallet.address)
	require.NoError(t, err)
	signature := wallet.sign(message)

	_, err = svc.VerifySignature(ctx, wallet.address, signature)
	require.NoError(t, err)

	_, err = svc.VerifySignature(ctx, wallet.address, signature)
	require.Error(t, err)
}

func TestWalletAuth_RejectsWrongSigner(t *testing.T) {
	store := newMemoryChallengeStore()
	svc := newTestService(store)
	wallet := newTestWallet(t)
	impostor := newTestWallet(t)
	ctx := context.Background()

	message, err := svc.IssueChallenge(ctx, wallet.address)
	require.NoError(t, err)

	_, err = svc.VerifySignature(ctx, wallet.address, impostor.sign(message))
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeUnauthorized, appErr.Type)
}

func TestWalletAuth_RejectsGarbageSignature(t *testing.T) {
	store := newMemoryChallengeStore()
	svc := newTestService(store)
	wallet := newTestWallet(t)
	ctx := context.Background()

	_, err := svc.IssueChallenge(ctx, wallet.address)
	require.NoError(t, err)

	_, err = svc.VerifySignature(ctx, wallet.address, "0xdeadbeef")
	require.Error(t, err)
}

func TestSessionToken_RejectsTampered(t *testing.T) {
	tokens := NewSessionTokenService("secret-a", 1)
	token, err := tokens.Generate("0x1111111111111111111111111111111111111abc")
	require.NoError(t, err)

	otherService := NewSessionTokenService("secret-b", 1)
	_, err = otherService.Verify(token)
	assert.Error(t, err)
}

func TestRecoverSigner_RoundTrip(t *testing.T) {
	wallet := newTestWallet(t)
	message := "hello payment buttons"

	signer, err := RecoverSigner(message, wallet.sign(message))
	require.NoError(t, err)
	assert.Equal(t, wallet.address, signer)

	// A different message recovers a different key.
	signer, err = RecoverSigner("another message", wallet.sign(message))
	if err == nil {
		assert.NotEqual(t, wallet.address, signer)
	}
}
