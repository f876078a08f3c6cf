package database

import (
	"context"
	"fmt"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
}

// GetUserByEmail matches the email exactly (case sensitive). Returns
// pgx.ErrNoRows when no user has the email.
func (d *Database) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := d.Pool.QueryRow(ctx,
		`SELECT id, email, password_hash FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (d *Database) GetUserByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := d.Pool.QueryRow(ctx,
		`SELECT id, email, password_hash FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (d *Database) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	var id int64
	err := d.Pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, passwordHash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return id, nil
}

func (d *Database) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := d.Pool.Query(ctx, `SELECT id, email, password_hash FROM users`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
