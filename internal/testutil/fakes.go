// Package testutil provides in-memory repository fakes for tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"shopadmin/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// FakeStore backs every repository fake so cross-repository invariants
// (unique emails, the user/credential link) live in one place.
type FakeStore struct {
	mu sync.Mutex

	users       []*entity.User
	credentials []*entity.Credential
	products    []*entity.Product
	tokens      []*entity.VerificationToken
	AuditLogs   []*entity.AuditLog
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (s *FakeStore) Users() *FakeUserRepo               { return &FakeUserRepo{store: s} }
func (s *FakeStore) Credentials() *FakeCredentialRepo   { return &FakeCredentialRepo{store: s} }
func (s *FakeStore) Accounts() *FakeAccountRepo         { return &FakeAccountRepo{store: s} }
func (s *FakeStore) Products() *FakeProductRepo         { return &FakeProductRepo{store: s} }
func (s *FakeStore) Verifications() *FakeTokenRepo      { return &FakeTokenRepo{store: s} }
func (s *FakeStore) Audit() *FakeAuditRepo              { return &FakeAuditRepo{store: s} }

func (s *FakeStore) emailTaken(email string) bool {
	for _, c := range s.credentials {
		if c.Email == email {
			return true
		}
	}
	for _, u := range s.users {
		if u.Email == email {
			return true
		}
	}
	return false
}

func (s *FakeStore) insertUser(user *entity.User) error {
	if s.emailTaken(user.Email) {
		return gorm.ErrDuplicatedKey
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users = append(s.users, user)
	return nil
}

type FakeUserRepo struct {
	store *FakeStore
}

func (r *FakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.insertUser(user)
}

func (r *FakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.ID == id && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, u := range r.store.users {
		if u.ID == user.ID {
			for _, other := range r.store.users {
				if other.ID != user.ID && other.Email == user.Email {
					return gorm.ErrDuplicatedKey
				}
			}
			user.UpdatedAt = time.Now()
			copied := *user
			copied.CreatedAt = u.CreatedAt
			r.store.users[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakeUserRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, u := range r.store.users {
		if u.ID == id {
			r.store.users = append(r.store.users[:i], r.store.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeUserRepo) MarkLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.ID == id {
			stamp := at
			u.LastLogin = &stamp
			return nil
		}
	}
	return nil
}

func (r *FakeUserRepo) VerifyEmail(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.ID == id {
			u.IsEmailVerified = true
			return nil
		}
	}
	return nil
}

func (r *FakeUserRepo) List(_ context.Context, limit, offset int) ([]entity.User, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	active := make([]entity.User, 0, len(r.store.users))
	// newest first
	for i := len(r.store.users) - 1; i >= 0; i-- {
		if r.store.users[i].IsActive {
			active = append(active, *r.store.users[i])
		}
	}
	total := int64(len(active))
	if offset >= len(active) {
		return []entity.User{}, total, nil
	}
	active = active[offset:]
	if limit > 0 && limit < len(active) {
		active = active[:limit]
	}
	return active, total, nil
}

type FakeCredentialRepo struct {
	store *FakeStore
}

func (r *FakeCredentialRepo) FindByEmail(_ context.Context, email string) (*entity.Credential, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.credentials {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FakeCredentialRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Credential, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.credentials {
		if c.UserID == userID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FakeCredentialRepo) MarkLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.credentials {
		if c.ID == id {
			stamp := at
			c.LastLogin = &stamp
			return nil
		}
	}
	return nil
}

// SetActive flips a credential's active flag, simulating a deactivated
// account.
func (r *FakeCredentialRepo) SetActive(email string, active bool) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.credentials {
		if c.Email == email {
			c.IsActive = active
		}
	}
}

type FakeAccountRepo struct {
	store *FakeStore
}

func (r *FakeAccountRepo) CreateWithCredential(
	_ context.Context,
	user *entity.User,
	credential *entity.Credential,
) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.insertUser(user); err != nil {
		return err
	}
	credential.ID = uuid.New()
	credential.UserID = user.ID
	now := time.Now()
	credential.CreatedAt = now
	credential.UpdatedAt = now
	r.store.credentials = append(r.store.credentials, credential)
	return nil
}

type FakeProductRepo struct {
	store *FakeStore
}

func (r *FakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.store.products = append(r.store.products, product)
	return nil
}

func (r *FakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, p := range r.store.products {
		if p.ID == product.ID {
			product.UpdatedAt = time.Now()
			copied := *product
			copied.CreatedAt = p.CreatedAt
			r.store.products[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakeProductRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, p := range r.store.products {
		if p.ID == id {
			r.store.products = append(r.store.products[:i], r.store.products[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeProductRepo) List(_ context.Context, limit, offset int) ([]entity.Product, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	active := make([]entity.Product, 0, len(r.store.products))
	for i := len(r.store.products) - 1; i >= 0; i-- {
		if r.store.products[i].IsActive {
			active = append(active, *r.store.products[i])
		}
	}
	total := int64(len(active))
	if offset >= len(active) {
		return []entity.Product{}, total, nil
	}
	active = active[offset:]
	if limit > 0 && limit < len(active) {
		active = active[:limit]
	}
	return active, total, nil
}

type FakeTokenRepo struct {
	store *FakeStore
}

func (r *FakeTokenRepo) Create(_ context.Context, token *entity.VerificationToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	r.store.tokens = append(r.store.tokens, token)
	return nil
}

func (r *FakeTokenRepo) Consume(
	_ context.Context,
	tokenHash string,
	tokenType entity.VerificationType,
	now time.Time,
) (*entity.VerificationToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, t := range r.store.tokens {
		if t.TokenHash == tokenHash && t.Type == tokenType && t.Usable(now) {
			t.UsedAt = &now
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

type FakeAuditRepo struct {
	store *FakeStore
}

func (r *FakeAuditRepo) Log(_ context.Context, log *entity.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now()
	r.store.AuditLogs = append(r.store.AuditLogs, log)
	return nil
}

// Actions returns the recorded audit actions in order.
func (s *FakeStore) Actions() []entity.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]entity.AuditAction, 0, len(s.AuditLogs))
	for _, log := range s.AuditLogs {
		actions = append(actions, log.Action)
	}
	return actions
}

// FakeImageStore records uploads and hands back deterministic URLs.
type FakeImageStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Fail    bool
}

func NewFakeImageStore() *FakeImageStore {
	return &FakeImageStore{Objects: make(map[string][]byte)}
}

func (s *FakeImageStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return "", errUploadRefused
	}
	s.Objects[key] = data
	return "https://img.test/" + key, nil
}

var errUploadRefused = errString("upload refused")

type errString string

func (e errString) Error() string { return string(e) }
