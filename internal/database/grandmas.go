package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

type Grandma struct {
	ID        int64
	Name      string
	Lastname  string
	City      pgtype.Text
	Province  pgtype.Text
	Country   pgtype.Text
	BirthYear pgtype.Int4
	Bio       pgtype.Text
	Photo     pgtype.Text
}

type GrandmaParams struct {
	Name      string
	Lastname  string
	City      string
	Province  string
	Country   string
	BirthYear int32
	Bio       string
	Photo     string
}

const grandmaColumns = `id, name, lastname, city, province, country, birth_year, bio, photo`

func scanGrandma(row interface{ Scan(...any) error }) (Grandma, error) {
	var g Grandma
	err := row.Scan(&g.ID, &g.Name, &g.Lastname, &g.City, &g.Province,
		&g.Country, &g.BirthYear, &g.Bio, &g.Photo)
	return g, err
}

func (d *Database) ListGrandmas(ctx context.Context) ([]Grandma, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+grandmaColumns+` FROM grandmas`)
	if err != nil {
		return nil, fmt.Errorf("querying grandmas: %w", err)
	}
	defer rows.Close()

	grandmas := []Grandma{}
	for rows.Next() {
		g, err := scanGrandma(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning grandma: %w", err)
		}
		grandmas = append(grandmas, g)
	}
	return grandmas, rows.Err()
}

// GetGrandma returns pgx.ErrNoRows for an unknown id.
func (d *Database) GetGrandma(ctx context.Context, id int64) (Grandma, error) {
	return scanGrandma(d.Pool.QueryRow(ctx,
		`SELECT `+grandmaColumns+` FROM grandmas WHERE id = $1`, id))
}

func (d *Database) CreateGrandma(ctx context.Context, p GrandmaParams) (int64, error) {
	var id int64
	err := d.Pool.QueryRow(ctx,
		`INSERT INTO grandmas (name, lastname, city, province, country, birth_year, bio, photo)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, 0), NULLIF($7, ''), NULLIF($8, ''))
		 RETURNING id`,
		p.Name, p.Lastname, p.City, p.Province, p.Country, p.BirthYear, p.Bio, p.Photo).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting grandma: %w", err)
	}
	return id, nil
}

// LinkGrandmaToUser records which user submitted a grandma.
func (d *Database) LinkGrandmaToUser(ctx context.Context, userID, grandmaID int64) error {
	_, err := d.Pool.Exec(ctx,
		`INSERT INTO user_grandmas (user_id, grandma_id) VALUES ($1, $2)`,
		userID, grandmaID)
	if err != nil {
		return fmt.Errorf("linking grandma to user: %w", err)
	}
	return nil
}

// UpdateGrandma replaces every mutable field and reports the affected row
// count. Zero means the id does not exist.
func (d *Database) UpdateGrandma(ctx context.Context, id int64, p GrandmaParams) (int64, error) {
	tag, err := d.Pool.Exec(ctx,
		`UPDATE grandmas
		 SET name = $1, lastname = $2, city = NULLIF($3, ''), province = NULLIF($4, ''),
		     country = NULLIF($5, ''), birth_year = NULLIF($6, 0), bio = NULLIF($7, ''), photo = NULLIF($8, '')
		 WHERE id = $9`,
		p.Name, p.Lastname, p.City, p.Province, p.Country, p.BirthYear, p.Bio, p.Photo, id)
	if err != nil {
		return 0, fmt.Errorf("updating grandma: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteGrandma is unconditional; recipes referencing the grandma are left
// orphaned, matching the documented service behavior.
func (d *Database) DeleteGrandma(ctx context.Context, id int64) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM grandmas WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("deleting grandma: %w", err)
	}
	return tag.RowsAffected(), nil
}
