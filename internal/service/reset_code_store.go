package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

// CodeVerdict es el resultado de verificar un codigo de recuperacion.
type CodeVerdict int

const (
	CodeNoActive CodeVerdict = iota
	CodeExpired
	CodeTooManyAttempts
	CodeMismatch
	CodeValid
)

const (
	resetCodeTTL    = 15 * time.Minute
	resetCodeDigits = 6
	maxCodeAttempts = 5
)

// ResetCodeStore guarda codigos de recuperacion de un solo uso por usuario.
// Emitir un codigo nuevo pisa cualquier codigo anterior del mismo usuario.
type ResetCodeStore interface {
	Issue(ctx context.Context, userID string) (string, error)
	Verify(ctx context.Context, userID, code string) (CodeVerdict, error)
	TTL() time.Duration
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", resetCodeDigits, n.Int64()), nil
}

type resetCodeEntry struct {
	code     string
	expires  time.Time
	attempts int
}

type memoryResetCodeStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]*resetCodeEntry
}

// NewMemoryResetCodeStore crea un store en memoria para despliegues de una sola instancia.
func NewMemoryResetCodeStore(ttl time.Duration) ResetCodeStore {
	if ttl <= 0 {
		ttl = resetCodeTTL
	}
	return &memoryResetCodeStore{
		ttl:   ttl,
		codes: make(map[string]*resetCodeEntry),
	}
}

func (s *memoryResetCodeStore) TTL() time.Duration {
	return s.ttl
}

func (s *memoryResetCodeStore) Issue(_ context.Context, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	code, err := generateResetCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[userID] = &resetCodeEntry{
		code:    code,
		expires: time.Now().UTC().Add(s.ttl),
	}
	return code, nil
}

// Verify chequea en orden: existencia, expiracion, tope de intentos, igualdad.
// Un codigo expirado nunca se reporta como bloqueado, y un codigo bloqueado
// no revela si el valor enviado era el correcto.
func (s *memoryResetCodeStore) Verify(_ context.Context, userID, code string) (CodeVerdict, error) {
	userID = strings.TrimSpace(userID)
	code = strings.TrimSpace(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[userID]
	if !ok {
		return CodeNoActive, nil
	}
	if time.Now().UTC().After(entry.expires) {
		delete(s.codes, userID)
		return CodeExpired, nil
	}
	if entry.attempts >= maxCodeAttempts {
		delete(s.codes, userID)
		return CodeTooManyAttempts, nil
	}
	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		entry.attempts++
		return CodeMismatch, nil
	}

	// Un solo uso: el codigo se consume al validar.
	delete(s.codes, userID)
	return CodeValid, nil
}
