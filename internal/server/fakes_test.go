package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onelink/portfolio-api/internal/config"
	"github.com/onelink/portfolio-api/internal/db"
	"github.com/onelink/portfolio-api/internal/ingestion"
	"github.com/onelink/portfolio-api/internal/types"
)

// testPasswordConfig uses the minimum bcrypt cost to keep tests fast.
func testPasswordConfig() *config.PasswordConfig {
	return &config.PasswordConfig{BcryptCost: 4}
}

// fakeDB is an in-memory DBClient and Pinger.
type fakeDB struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db.User

	pingErr           error
	createErr         error
	updatePasswordErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{users: make(map[uuid.UUID]*db.User)}
}

func (f *fakeDB) Ping(context.Context) error { return f.pingErr }

func (f *fakeDB) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	now := time.Now().UTC()
	u := &db.User{ID: uuid.New(), Name: name, Email: email, Phone: phone, CreatedAt: now, UpdatedAt: now}
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeDB) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := f.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (f *fakeDB) UpdateUser(_ context.Context, u *db.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.users[u.ID]
	if !ok {
		return fmt.Errorf("failed to update user %s: %w", u.ID, db.ErrNotFound)
	}
	existing.Name, existing.Email, existing.Phone = u.Name, u.Email, u.Phone
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeDB) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updatePasswordErr != nil {
		return f.updatePasswordErr
	}
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("failed to update password %s: %w", id, db.ErrNotFound)
	}
	u.PasswordHash = hash
	u.PasswordSet = true
	return nil
}

func (f *fakeDB) DeleteUser(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("failed to delete user %s: %w", id, db.ErrNotFound)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeDB) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

// seed inserts a user with a hashed password and returns its ID.
func (f *fakeDB) seed(email, password string) uuid.UUID {
	hash, err := testPasswordConfig().HashPassword(password)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	u := &db.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		PasswordSet:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[u.ID] = u
	return u.ID
}

// fakeResumes records calls made by the résumé handlers.
type fakeResumes struct {
	mu        sync.Mutex
	uploads   []ingestion.Upload
	ingestErr error
	texts     map[uuid.UUID]string
	textErr   error
	forgotten []uuid.UUID
}

func newFakeResumes() *fakeResumes {
	return &fakeResumes{texts: make(map[uuid.UUID]string)}
}

func (f *fakeResumes) Ingest(_ context.Context, upload ingestion.Upload, userID uuid.UUID) (*types.UploadResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, upload)
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	raw := "Jane Doe\nPython"
	f.texts[userID] = raw
	data := types.NewStructuredResumeData()
	data.Skills = []string{"Python"}
	return ingestion.BuildResponse(upload.Filename, raw, data), nil
}

func (f *fakeResumes) GetStoredText(_ context.Context, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.texts[userID], nil
}

func (f *fakeResumes) Forget(_ context.Context, userID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotten = append(f.forgotten, userID)
}
