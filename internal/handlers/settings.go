package handlers

import (
	"log"
	"net/http"
	"time"

	"puzzelle_back_end/internal/cache"
	"puzzelle_back_end/internal/database"
	"puzzelle_back_end/internal/middleware"
	"puzzelle_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GetSettings renvoie la ligne de réglages unique (propriétaire seul)
func GetSettings(c *gin.Context) {
	settings, err := cache.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture des réglages"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings met à jour la ligne de réglages en place. La bascule de
// public_wishlist invalide immédiatement le gate de visibilité : les
// anonymes voient le changement sans attendre l'expiration du TTL.
func UpdateSettings(c *gin.Context) {
	var input struct {
		PublicWishlist *bool   `json:"public_wishlist"`
		OwnerEmail     *string `json:"owner_email"`
		Theme          *string `json:"theme"`
		ItemsPerPage   *int    `json:"items_per_page"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()

	current, err := cache.GetSettings(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture des réglages"})
		return
	}

	if input.PublicWishlist != nil {
		current.PublicWishlist = *input.PublicWishlist
	}
	if input.OwnerEmail != nil {
		current.OwnerEmail = *input.OwnerEmail
	}
	if input.Theme != nil {
		current.Theme = *input.Theme
	}
	if input.ItemsPerPage != nil {
		current.ItemsPerPage = *input.ItemsPerPage
	}
	current.UpdatedAt = time.Now().UTC()

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`
		UPDATE settings SET public_wishlist = ?, owner_email = ?, theme = ?, items_per_page = ?, updated_at = ?
		WHERE id = ?
	`, current.PublicWishlist, current.OwnerEmail, current.Theme, current.ItemsPerPage,
		current.UpdatedAt, models.SettingsRowID).WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur mise à jour réglages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour des réglages"})
		return
	}

	// Invalider le cache Redis puis le gate
	cache.InvalidateSettings(ctx)
	middleware.WishlistGate.Invalidate()

	if input.PublicWishlist != nil {
		log.Printf("⚙️ Wishlist publique: %v", current.PublicWishlist)
	}

	c.JSON(http.StatusOK, current)
}
