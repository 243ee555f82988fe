package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisResetIssueScript = `
redis.call("HSET", KEYS[1], "code", ARGV[1], "expires", ARGV[2], "attempts", 0)
redis.call("EXPIRE", KEYS[1], ARGV[3])
return 1
`

// La entrada se retiene mas alla de su expiracion logica para poder
// distinguir "expirado" de "sin codigo activo"; redis la barre despues.
const redisResetVerifyScript = `
local code = redis.call("HGET", KEYS[1], "code")
if not code then
  return "none"
end
local expires = tonumber(redis.call("HGET", KEYS[1], "expires") or "0")
if tonumber(ARGV[2]) > expires then
  redis.call("DEL", KEYS[1])
  return "expired"
end
local attempts = tonumber(redis.call("HGET", KEYS[1], "attempts") or "0")
if attempts >= tonumber(ARGV[3]) then
  redis.call("DEL", KEYS[1])
  return "locked"
end
if code ~= ARGV[1] then
  redis.call("HINCRBY", KEYS[1], "attempts", 1)
  return "mismatch"
end
redis.call("DEL", KEYS[1])
return "valid"
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisResetCodeStore struct {
	client redisEvaler
	ttl    time.Duration
	prefix string
}

// NewRedisResetCodeStore crea un store compartido para despliegues multi-instancia.
// Los scripts mantienen atomico el read-modify-write del contador de intentos.
func NewRedisResetCodeStore(client *redis.Client, ttl time.Duration) ResetCodeStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = resetCodeTTL
	}
	return &redisResetCodeStore{
		client: client,
		ttl:    ttl,
		prefix: "reset:code:",
	}
}

func (s *redisResetCodeStore) TTL() time.Duration {
	return s.ttl
}

func (s *redisResetCodeStore) Issue(ctx context.Context, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	code, err := generateResetCode()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	expires := now.Add(s.ttl).Unix()
	retention := int(s.ttl.Seconds()) * 2
	err = s.client.Eval(ctx, redisResetIssueScript, []string{s.prefix + userID},
		code, expires, retention).Err()
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *redisResetCodeStore) Verify(ctx context.Context, userID, code string) (CodeVerdict, error) {
	userID = strings.TrimSpace(userID)
	code = strings.TrimSpace(code)

	now := time.Now().UTC().Unix()
	result, err := s.client.Eval(ctx, redisResetVerifyScript, []string{s.prefix + userID},
		code, now, maxCodeAttempts).Text()
	if err != nil {
		return CodeNoActive, err
	}

	switch result {
	case "none":
		return CodeNoActive, nil
	case "expired":
		return CodeExpired, nil
	case "locked":
		return CodeTooManyAttempts, nil
	case "mismatch":
		return CodeMismatch, nil
	case "valid":
		return CodeValid, nil
	default:
		return CodeNoActive, fmt.Errorf("unexpected verify result %q", result)
	}
}
