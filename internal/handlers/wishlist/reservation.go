package wishlist

import (
	"context"
	"errors"
	"log"
	"net/http"

	"puzzelle_back_end/internal/cache"
	"puzzelle_back_end/internal/reservation"
	"puzzelle_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

type reservationInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// CreateReservation réserve un article au nom d'un visiteur. Le nom est
// pris tel quel : les visiteurs sont des proches, pas des inconnus.
func CreateReservation(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	var input reservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	store, err := getStore()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	ctx := c.Request.Context()
	r, err := store.Reserve(ctx, gocql.UUID(itemID), input.Name)
	switch {
	case errors.Is(err, reservation.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom du réservant invalide"})
		return
	case errors.Is(err, reservation.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
		return
	case errors.Is(err, reservation.ErrAlreadyReserved):
		c.JSON(http.StatusConflict, gin.H{"error": "Cet article est déjà réservé"})
		return
	case err != nil:
		log.Printf("❌ Erreur réservation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la réservation"})
		return
	}

	// L'état "réservé" est une facette : le cache de liste est périmé
	cache.InvalidateWishlist(ctx)
	log.Printf("🎁 Article %s réservé par %s", itemID, r.ReserverName)

	// La notification part après le commit : son échec ne remet jamais
	// la réservation en cause
	go notifyReservation(gocql.UUID(itemID), input.Email)

	c.JSON(http.StatusCreated, r)
}

// notifyReservation envoie les emails de réservation en arrière-plan :
// confirmation au visiteur s'il a laissé une adresse, et alerte au
// propriétaire si son adresse est configurée. Meilleur effort, les
// échecs sont seulement journalisés.
func notifyReservation(itemID gocql.UUID, reserverEmail string) {
	ctx := context.Background()

	item, found, err := getItem(ctx, itemID)
	if err != nil || !found {
		log.Printf("⚠️ Notification réservation: article %s illisible: %v", itemID, err)
		return
	}

	if reserverEmail != "" {
		if err := utils.SendReservationEmail(reserverEmail, item.Name); err != nil {
			log.Printf("⚠️ Confirmation de réservation non envoyée à %s: %v", reserverEmail, err)
		}
	}

	settings, err := cache.GetSettings(ctx)
	if err != nil {
		log.Printf("⚠️ Notification réservation: paramètres illisibles: %v", err)
		return
	}
	if settings.OwnerEmail != "" {
		if err := utils.SendReservationEmail(settings.OwnerEmail, item.Name); err != nil {
			log.Printf("⚠️ Alerte propriétaire non envoyée: %v", err)
		}
	}
}

// CancelReservation annule une réservation (propriétaire uniquement,
// la route n'est montée que derrière l'authentification)
func CancelReservation(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID réservation invalide"})
		return
	}

	store, err := getStore()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	ctx := c.Request.Context()
	err = store.Cancel(ctx, gocql.UUID(reservationID))
	switch {
	case errors.Is(err, reservation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Réservation introuvable"})
		return
	case err != nil:
		log.Printf("❌ Erreur annulation réservation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'annulation"})
		return
	}

	cache.InvalidateWishlist(ctx)
	log.Printf("↩️ Réservation %s annulée", reservationID)

	c.JSON(http.StatusOK, gin.H{"message": "Réservation annulée"})
}

// GetItemReservation renvoie l'état de réservation d'un article, pour
// afficher "réservé par X" sur la fiche
func GetItemReservation(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	store, err := getStore()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	r, err := store.GetForItem(c.Request.Context(), gocql.UUID(itemID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture réservation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservation": r})
}
