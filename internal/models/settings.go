package models

import "time"

// SettingsRowID est la clé de l'unique ligne de réglages
const SettingsRowID = "app"

// Settings est la ligne singleton de réglages de l'application.
// public_wishlist est lu par chaque accès anonyme à la wishlist.
type Settings struct {
	PublicWishlist bool      `json:"public_wishlist"`
	OwnerEmail     string    `json:"owner_email,omitempty"`
	Theme          string    `json:"theme,omitempty"`
	ItemsPerPage   int       `json:"items_per_page,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}
