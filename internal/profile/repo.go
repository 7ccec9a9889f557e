// Package profile stores user profiles in the users collection.
package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"saas-platform/backend/internal/firebase"
)

// Store is the document access the repo needs; *firebase.Database
// satisfies it.
type Store interface {
	Get(ctx context.Context, path string) (map[string]any, error)
	Set(ctx context.Context, path string, data map[string]any) (queued bool, err error)
}

type Repo struct {
	db  Store
	now func() time.Time
}

func NewRepo(db Store) *Repo {
	return &Repo{db: db, now: time.Now}
}

func docPath(uid string) (string, error) {
	if uid == "" || strings.Contains(uid, "/") {
		return "", fmt.Errorf("%w: uid %q", firebase.ErrInvalidPath, uid)
	}
	return "users/" + uid, nil
}

// Get returns firebase.ErrNotFound when the user has no profile yet and
// firebase.ErrNetworkDisabled while offline.
func (r *Repo) Get(ctx context.Context, uid string) (*Profile, error) {
	path, err := docPath(uid)
	if err != nil {
		return nil, err
	}
	data, err := r.db.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return fromData(uid, data), nil
}

// Upsert merges the uid, email and any set fields of u into the profile.
// While offline the write is queued and queued is true.
func (r *Repo) Upsert(ctx context.Context, uid, email string, u Update) (queued bool, err error) {
	path, err := docPath(uid)
	if err != nil {
		return false, err
	}
	data := map[string]any{
		"uid":       uid,
		"updatedAt": r.now().UTC(),
	}
	if email != "" {
		data["email"] = email
	}
	if u.DisplayName != "" {
		data["displayName"] = u.DisplayName
	}
	return r.db.Set(ctx, path, data)
}
