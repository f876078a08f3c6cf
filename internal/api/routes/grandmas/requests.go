package grandmas

// GrandmaRequest carries the full set of mutable contributor fields. It is
// used by both create and update; update is a full-row replace, so omitted
// fields are cleared.
type GrandmaRequest struct {
	Name      string `json:"name" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	BirthYear int32  `json:"birthYear"`
	Bio       string `json:"bio"`
	Photo     string `json:"photo"`
}
