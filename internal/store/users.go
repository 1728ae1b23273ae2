package store

import (
	"context"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

const (
	RolePlayer        = "player"
	RoleAdministrator = "administrator"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`

	// Never serialized or logged.
	PasswordHash string `json:"-"`
}

type CreateUserParams struct {
	Name         string
	Contact      string
	Role         string
	PasswordHash string
}

// CreateUser inserts a new user. The unique index on contact is the
// authority on duplicate registrations; violations surface as ErrContactTaken.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	result, err := q.db.ExecContext(ctx, `
		INSERT INTO users (name, contact, role, password_hash, active)
		VALUES (?, ?, ?, ?, 1)`,
		arg.Name, arg.Contact, arg.Role, arg.PasswordHash,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return User{}, ErrContactTaken
		}
		return User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return q.GetUser(ctx, id)
}

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, contact, role, password_hash, active, created_at
		FROM users WHERE id = ?`, id,
	)
	return scanUser(row)
}

func (q *Queries) GetUserByContact(ctx context.Context, contact string) (User, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, contact, role, password_hash, active, created_at
		FROM users WHERE contact = ?`, contact,
	)
	return scanUser(row)
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Contact, &u.Role, &u.PasswordHash, &u.Active, &u.CreatedAt)
	return u, err
}
