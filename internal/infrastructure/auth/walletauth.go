// Package auth implements the wallet sign-in handshake: a single-use
// challenge is signed by the wallet (personal_sign), the signer is recovered
// server-side, and a session token is issued for the proven address.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

const challengeKeyPrefix = "authchallenge:"

// ChallengeStore persists pending sign-in challenges. Take removes the
// challenge so each one can be used at most once.
type ChallengeStore interface {
	Put(ctx context.Context, address, message string, ttl time.Duration) error
	Take(ctx context.Context, address string) (string, error)
}

// RedisChallengeStore keeps challenges in redis with their TTL.
type RedisChallengeStore struct {
	client *redis.Client
}

func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

func (s *RedisChallengeStore) Put(ctx context.Context, address, message string, ttl time.Duration) error {
	key := challengeKeyPrefix + strings.ToLower(address)
	if err := s.client.Set(ctx, key, message, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	return nil
}

func (s *RedisChallengeStore) Take(ctx context.Context, address string) (string, error) {
	key := challengeKeyPrefix + strings.ToLower(address)
	message, err := s.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", errors.NewUnauthorizedError("no pending challenge for this wallet")
	}
	if err != nil {
		return "", fmt.Errorf("failed to load challenge: %w", err)
	}
	return message, nil
}

// WalletAuthService runs the two-step handshake.
type WalletAuthService struct {
	challenges ChallengeStore
	tokens     *SessionTokenService
	ttl        time.Duration
	logger     logger.Interface
}

func NewWalletAuthService(
	challenges ChallengeStore,
	tokens *SessionTokenService,
	challengeTTL time.Duration,
	logger logger.Interface,
) *WalletAuthService {
	return &WalletAuthService{
		challenges: challenges,
		tokens:     tokens,
		ttl:        challengeTTL,
		logger:     logger,
	}
}

// IssueChallenge creates a single-use message for the wallet to sign.
func (s *WalletAuthService) IssueChallenge(ctx context.Context, address string) (string, error) {
	addr, err := vo.NewAddress(address)
	if err != nil {
		return "", errors.NewValidationError("invalid wallet address", err.Error())
	}

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.NewInternalError("failed to generate nonce", err.Error())
	}

	message := fmt.Sprintf(
		"Sign this message to manage your payment buttons.\n\nWallet: %s\nNonce: %s\nIssued: %s",
		addr.Checksum(),
		hex.EncodeToString(nonce),
		time.Now().UTC().Format(time.RFC3339),
	)

	if err := s.challenges.Put(ctx, addr.String(), message, s.ttl); err != nil {
		return "", errors.NewUnavailableError("failed to store challenge", err.Error())
	}
	return message, nil
}

// VerifySignature checks the signed challenge and issues a session token.
func (s *WalletAuthService) VerifySignature(ctx context.Context, address, signature string) (string, error) {
	addr, err := vo.NewAddress(address)
	if err != nil {
		return "", errors.NewValidationError("invalid wallet address", err.Error())
	}

	message, err := s.challenges.Take(ctx, addr.String())
	if err != nil {
		return "", err
	}

	signer, err := RecoverSigner(message, signature)
	if err != nil {
		return "", errors.NewUnauthorizedError("signature verification failed", err.Error())
	}
	if !addr.EqualsString(signer) {
		s.logger.Warnw("challenge signed by a different wallet",
			"claimed", addr.String(),
			"signer", signer,
		)
		return "", errors.NewUnauthorizedError("signature does not match wallet")
	}

	token, err := s.tokens.Generate(addr.String())
	if err != nil {
		return "", errors.NewInternalError("failed to issue session token", err.Error())
	}
	return token, nil
}

// VerifySession validates a session token and returns the wallet it belongs to.
func (s *WalletAuthService) VerifySession(tokenString string) (string, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return "", errors.NewUnauthorizedError("invalid session", err.Error())
	}
	return claims.WalletAddress, nil
}
