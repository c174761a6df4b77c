package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/qa-forum/server/src/server/data"
	"github.com/qa-forum/server/src/server/store"
)

type Users struct {
	mu   sync.Mutex
	coll collection[data.User]
}

func NewUsers(b store.Backend) *Users {
	return &Users{coll: collection[data.User]{name: store.Users, backend: b}}
}

// Create inserts a new user. The password is stored as given; callers hash it.
func (r *Users) Create(ctx context.Context, u data.User) error {
	if u.Username == "" || u.Password == "" {
		return store.Invalid("username and password are required.")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := users[u.Username]; ok {
		return store.Conflict("User with username %s already exists.", u.Username)
	}
	users[u.Username] = data.NewUser(u.Username, u.Password, u.RegistrationName)
	if err := r.coll.save(ctx, users); err != nil {
		return err
	}
	slog.Debug("user created", "username", u.Username)
	return nil
}

func (r *Users) Get(ctx context.Context, username string) (data.User, error) {
	users, err := r.coll.load(ctx)
	if err != nil {
		return data.User{}, err
	}
	u, ok := users[username]
	if !ok {
		return data.User{}, store.NotFound("User with username %s doesn't exist.", username)
	}
	return u, nil
}

// Update overwrites the stored fields of username. Any username inside u is
// ignored; the record keeps its key.
func (r *Users) Update(ctx context.Context, username string, u data.User) error {
	if username == "" {
		return store.Invalid("username is required.")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := users[username]; !ok {
		return store.NotFound("User with username %s doesn't exist.", username)
	}
	users[username] = data.NewUser(username, u.Password, u.RegistrationName)
	return r.coll.save(ctx, users)
}

// Delete removes username. Deleting an absent user is not an error.
func (r *Users) Delete(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := users[username]; !ok {
		return nil
	}
	delete(users, username)
	return r.coll.save(ctx, users)
}
