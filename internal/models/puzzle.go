package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Puzzle est un puzzle possédé, dans la collection
type Puzzle struct {
	ID             gocql.UUID   `json:"id" db:"puzzle_id"`
	Name           string       `json:"name" db:"name"`
	ManufacturerID *gocql.UUID  `json:"manufacturer_id,omitempty" db:"manufacturer_id"`
	EditionID      *gocql.UUID  `json:"edition_id,omitempty" db:"edition_id"`
	Pieces         int          `json:"pieces" db:"pieces"`
	Price          *float64     `json:"price,omitempty" db:"price"`
	AcquiredAt     *time.Time   `json:"acquired_at,omitempty" db:"acquired_at"`
	Notes          string       `json:"notes,omitempty" db:"notes"`
	SourceID       *gocql.UUID  `json:"source_id,omitempty" db:"source_id"`
	CategoryIDs    []gocql.UUID `json:"category_ids,omitempty" db:"category_ids"`
	TagIDs         []gocql.UUID `json:"tag_ids,omitempty" db:"tag_ids"`
	PhotoURL       string       `json:"photo_url,omitempty" db:"photo_url"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	DeletedAt      *time.Time   `json:"deleted_at,omitempty" db:"deleted_at"`
}

// AssemblySession est une séance de montage d'un puzzle
type AssemblySession struct {
	ID              gocql.UUID `json:"id" db:"session_id"`
	PuzzleID        gocql.UUID `json:"puzzle_id" db:"puzzle_id"`
	StartedAt       time.Time  `json:"started_at" db:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	DurationMinutes int        `json:"duration_minutes" db:"duration_minutes"`
	Notes           string     `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}
