package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Priorités possibles d'un article de wishlist
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// WishlistItem représente un puzzle convoité mais pas encore acquis.
// La suppression est logicielle (deleted_at) : l'article disparaît des
// listes mais la ligne reste, notamment après conversion en puzzle.
type WishlistItem struct {
	ID             gocql.UUID   `json:"id" db:"item_id"`
	Name           string       `json:"name" db:"name"`
	ManufacturerID *gocql.UUID  `json:"manufacturer_id,omitempty" db:"manufacturer_id"`
	Pieces         int          `json:"pieces" db:"pieces"`
	Price          *float64     `json:"price,omitempty" db:"price"`
	InStock        bool         `json:"in_stock" db:"in_stock"`
	Priority       string       `json:"priority" db:"priority"`
	Notes          string       `json:"notes,omitempty" db:"notes"`
	SourceID       *gocql.UUID  `json:"source_id,omitempty" db:"source_id"`
	CategoryIDs    []gocql.UUID `json:"category_ids,omitempty" db:"category_ids"`
	TagIDs         []gocql.UUID `json:"tag_ids,omitempty" db:"tag_ids"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	DeletedAt      *time.Time   `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Reservation est la revendication d'un tiers sur exactement un article.
// Son existence est l'unique vérité de « cet article est pris » — pas de
// booléen dupliqué sur l'article.
type Reservation struct {
	ID           gocql.UUID `json:"id" db:"reservation_id"`
	ItemID       gocql.UUID `json:"item_id" db:"item_id"`
	ReserverName string     `json:"reserver_name" db:"reserver_name"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// IsValidPriority vérifie qu'une priorité fait partie des valeurs connues
func IsValidPriority(p string) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}
