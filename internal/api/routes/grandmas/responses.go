package grandmas

import (
	"github.com/recetas-abuela/backend/internal/database"
)

// Grandma is the serializable contributor view. Nullable columns serialize
// as JSON null, not as zero values.
type Grandma struct {
	ID        int64   `json:"idGrandma"`
	Name      string  `json:"name"`
	Lastname  string  `json:"lastname"`
	City      *string `json:"city"`
	Province  *string `json:"province"`
	Country   *string `json:"country"`
	BirthYear *int32  `json:"birthYear"`
	Bio       *string `json:"bio"`
	Photo     *string `json:"photo"`
}

func newGrandma(g database.Grandma) Grandma {
	out := Grandma{
		ID:       g.ID,
		Name:     g.Name,
		Lastname: g.Lastname,
	}
	if g.City.Valid {
		out.City = &g.City.String
	}
	if g.Province.Valid {
		out.Province = &g.Province.String
	}
	if g.Country.Valid {
		out.Country = &g.Country.String
	}
	if g.BirthYear.Valid {
		out.BirthYear = &g.BirthYear.Int32
	}
	if g.Bio.Valid {
		out.Bio = &g.Bio.String
	}
	if g.Photo.Valid {
		out.Photo = &g.Photo.String
	}
	return out
}

type listInfo struct {
	Count int `json:"count"`
}

type ListGrandmasResponse struct {
	Success bool      `json:"success"`
	Info    listInfo  `json:"info"`
	Results []Grandma `json:"results"`
}

type GetGrandmaResponse struct {
	Success bool    `json:"success"`
	Data    Grandma `json:"data"`
}

type createInfo struct {
	GrandmaID int64 `json:"idGrandma"`
	UserID    int64 `json:"idUser"`
}

// CreateGrandmaResponse reports the new contributor id and the submitting
// user id.
type CreateGrandmaResponse struct {
	Success bool       `json:"success"`
	Info    createInfo `json:"info"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
