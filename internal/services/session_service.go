package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"marketplace-api/internal/config"
	"marketplace-api/internal/database"

	"github.com/redis/go-redis/v9"
)

// SessionService manages bearer tokens and claim cooldowns in Redis
type SessionService struct {
	client *redis.Client
}

// NewSessionService creates a new session service
func NewSessionService() *SessionService {
	return &SessionService{client: database.GetRedis()}
}

// GenerateToken generates an opaque bearer token
func (s *SessionService) GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// StoreSession maps a bearer token to an account id with TTL
func (s *SessionService) StoreSession(token, accountID string) error {
	ctx := context.Background()
	key := fmt.Sprintf("session:%s", token)
	expire := time.Duration(config.AppConfig.SessionExpireHours) * time.Hour
	return s.client.Set(ctx, key, accountID, expire).Err()
}

// ResolveSession returns the account id for a bearer token
func (s *SessionService) ResolveSession(token string) (string, error) {
	ctx := context.Background()
	key := fmt.Sprintf("session:%s", token)

	accountID, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("session not found or expired")
		}
		return "", err
	}
	return accountID, nil
}

// RevokeSession deletes a bearer token
func (s *SessionService) RevokeSession(token string) error {
	ctx := context.Background()
	key := fmt.Sprintf("session:%s", token)
	return s.client.Del(ctx, key).Err()
}

// SetClaimCooldown marks the creator as having just claimed
func (s *SessionService) SetClaimCooldown(creatorID string) error {
	seconds := config.AppConfig.ClaimCooldownSeconds
	if seconds <= 0 {
		return nil
	}
	ctx := context.Background()
	key := fmt.Sprintf("claim_cooldown:%s", creatorID)
	return s.client.Set(ctx, key, "1", time.Duration(seconds)*time.Second).Err()
}

// CheckClaimCooldown reports whether the creator must wait before claiming again
func (s *SessionService) CheckClaimCooldown(creatorID string) (bool, error) {
	if config.AppConfig.ClaimCooldownSeconds <= 0 {
		return false, nil
	}
	ctx := context.Background()
	key := fmt.Sprintf("claim_cooldown:%s", creatorID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
