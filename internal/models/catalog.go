package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Catalogues de référence : mutés par le propriétaire, lus partout.

type Manufacturer struct {
	ID        gocql.UUID `json:"id,omitempty"`
	Name      string     `json:"name"`
	Country   string     `json:"country,omitempty"`
	Website   string     `json:"website,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type Category struct {
	ID        gocql.UUID `json:"id,omitempty"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type Tag struct {
	ID        gocql.UUID `json:"id,omitempty"`
	Name      string     `json:"name"`
	Color     string     `json:"color,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Source est le lieu d'achat (boutique, site, brocante…)
type Source struct {
	ID        gocql.UUID `json:"id,omitempty"`
	Name      string     `json:"name"`
	URL       string     `json:"url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Edition regroupe les puzzles d'une même gamme d'un fabricant
type Edition struct {
	ID             gocql.UUID  `json:"id,omitempty"`
	Name           string      `json:"name"`
	ManufacturerID *gocql.UUID `json:"manufacturer_id,omitempty"`
	CreatedAt      *time.Time  `json:"created_at,omitempty"`
}
