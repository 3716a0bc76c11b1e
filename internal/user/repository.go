// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/kv"
)

// Key layout:
//
//	user:<email>     -> User document
//	password:<email> -> Credential document
//	userid:<id>      -> index entry pointing back at the email
//
// The userid index exists so point lookups by id do not need a prefix scan
// over every profile.
const (
	userKeyPrefix       = "user:"
	credentialKeyPrefix = "password:"
	idIndexKeyPrefix    = "userid:"
)

type Repository interface {
	// Create persists a new profile with its credential. At most one caller
	// wins for a given email; losers get core.ErrDuplicateKey.
	Create(ctx context.Context, u *User, credentialHash string) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetCredentialHash(ctx context.Context, email string) (string, error)
	Update(ctx context.Context, u *User) error
	// Swap replaces the stored profile only while it still matches old.
	Swap(ctx context.Context, old, next *User) (bool, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	store kv.Store
}

func NewRepository(store kv.Store) Repository {
	return &repository{store: store}
}

type idIndexEntry struct {
	Email string `json:"email"`
}

func (r *repository) Create(
	ctx context.Context,
	u *User,
	credentialHash string,
) error {
	email := NormalizeEmail(u.Email)

	userDoc, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	ok, err := r.store.SetNX(ctx, userKeyPrefix+email, userDoc)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if !ok {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	credDoc, err := json.Marshal(Credential{Hash: credentialHash})
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	indexDoc, err := json.Marshal(idIndexEntry{Email: email})
	if err != nil {
		return fmt.Errorf("marshal id index: %w", err)
	}

	err = r.store.SetMulti(ctx, []kv.Pair{
		{Key: credentialKeyPrefix + email, Value: credDoc},
		{Key: idIndexKeyPrefix + u.ID, Value: indexDoc},
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	raw, err := r.store.Get(ctx, userKeyPrefix+NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &u, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	raw, err := r.store.Get(ctx, idIndexKeyPrefix+id)
	if err == nil {
		var entry idIndexEntry
		if decodeErr := json.Unmarshal(raw, &entry); decodeErr != nil {
			return nil, fmt.Errorf("decode id index: %w", decodeErr)
		}
		return r.GetByEmail(ctx, entry.Email)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	// Profiles written before the index existed are still reachable by scan.
	values, err := r.store.GetByPrefix(ctx, userKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	for _, value := range values {
		var u User
		if err := json.Unmarshal(value, &u); err != nil {
			continue
		}
		if u.ID == id {
			return &u, nil
		}
	}

	return nil, fmt.Errorf("get user by id %q: %w", id, core.ErrNotFound)
}

func (r *repository) GetCredentialHash(
	ctx context.Context,
	email string,
) (string, error) {
	raw, err := r.store.Get(ctx, credentialKeyPrefix+NormalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("get credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return "", fmt.Errorf("decode credential: %w", err)
	}

	return cred.Hash, nil
}

func (r *repository) Update(ctx context.Context, u *User) error {
	doc, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	err = r.store.Set(ctx, userKeyPrefix+NormalizeEmail(u.Email), doc)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) Swap(
	ctx context.Context,
	old, next *User,
) (bool, error) {
	oldDoc, err := json.Marshal(old)
	if err != nil {
		return false, fmt.Errorf("marshal user: %w", err)
	}

	nextDoc, err := json.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("marshal user: %w", err)
	}

	ok, err := r.store.CompareAndSwap(
		ctx,
		userKeyPrefix+NormalizeEmail(old.Email),
		oldDoc,
		nextDoc,
	)
	if err != nil {
		return false, fmt.Errorf("swap user: %w", err)
	}

	return ok, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	values, err := r.store.GetByPrefix(ctx, userKeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return len(values), nil
}
