package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/http/handlers/testutil"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
)

type mockWalletAuth struct {
	message   string
	token     string
	issueErr  error
	verifyErr error
}

func (m *mockWalletAuth) IssueChallenge(ctx context.Context, address string) (string, error) {
	return m.message, m.issueErr
}

func (m *mockWalletAuth) VerifySignature(ctx context.Context, address, signature string) (string, error) {
	return m.token, m.verifyErr
}

func TestAuthHandler_Challenge_Success(t *testing.T) {
	mockAuth := &mockWalletAuth{message: "Sign this message.\n\nNonce: abc"}
	handler := NewAuthHandler(mockAuth, testutil.NewMockLogger())

	reqBody := ChallengeRequest{WalletAddress: testOwner}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/challenge", reqBody)

	handler.Challenge(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var data ChallengeResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Contains(t, data.Message, "Nonce:")
}

func TestAuthHandler_Challenge_MissingAddress(t *testing.T) {
	handler := NewAuthHandler(&mockWalletAuth{}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/auth/challenge", map[string]string{})

	handler.Challenge(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Verify_Success(t *testing.T) {
	mockAuth := &mockWalletAuth{token: "session-token"}
	handler := NewAuthHandler(mockAuth, testutil.NewMockLogger())

	reqBody := VerifyRequest{WalletAddress: testOwner, Signature: "0xdeadbeef"}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/verify", reqBody)

	handler.Verify(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var data VerifyResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "session-token", data.Token)
}

func TestAuthHandler_Verify_BadSignature(t *testing.T) {
	mockAuth := &mockWalletAuth{verifyErr: errors.NewUnauthorizedError("signature does not match wallet")}
	handler := NewAuthHandler(mockAuth, testutil.NewMockLogger())

	reqBody := VerifyRequest{WalletAddress: testOwner, Signature: "0xdeadbeef"}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/verify", reqBody)

	handler.Verify(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
