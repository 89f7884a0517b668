package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the deliberately slow hashing the credential store was
// designed around.
const bcryptCost = 12

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenIssuer produces the signed session token carrying identity and role
// claims with a fixed validity window.
type TokenIssuer interface {
	Issue(userID string, email string, role string) (string, time.Duration, error)
}

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email string, token string) error
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
