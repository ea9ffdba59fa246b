package handlers

import (
	"errors"
	"log"
	"net/http"

	"puzzelle_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// SendFunc est la signature de l'expéditeur de notifications.
// En production c'est utils.SendReservationEmail.
type SendFunc func(to, puzzleName string) error

// Notify est l'endpoint de notification consommé par le formulaire
// public de réservation. CORS entièrement ouvert : l'appelant est un
// navigateur quelconque. Contrat : OPTIONS → 204, POST seul accepté,
// 405 sinon.
func Notify(send SendFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Content-Type", "application/json")

		switch c.Request.Method {
		case http.MethodOptions:
			// Pré-vol CORS
			c.Status(http.StatusNoContent)
			return
		case http.MethodPost:
			// On continue
		default:
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
			return
		}

		var input struct {
			To         string `json:"to"`
			PuzzleName string `json:"puzzleName"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Corps de requête invalide",
				"details": err.Error(),
			})
			return
		}
		if input.To == "" || input.PuzzleName == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Corps de requête invalide",
				"details": "champs to et puzzleName requis",
			})
			return
		}

		if err := send(input.To, input.PuzzleName); err != nil {
			if errors.Is(err, utils.ErrInvalidRecipient) {
				// Rejet local, le serveur SMTP n'a jamais été contacté
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Destinataire invalide",
					"details": err.Error(),
				})
				return
			}

			log.Printf("❌ Échec envoi notification à %s: %v", input.To, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Échec d'envoi de la notification",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Notification envoyée",
			"to":      input.To,
		})
	}
}
