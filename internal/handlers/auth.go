package handlers

import (
	"log"
	"net/http"

	"puzzelle_back_end/internal/database"
	"puzzelle_back_end/internal/models"
	"puzzelle_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// Login authentifie le propriétaire et renvoie un token JWT.
// L'application est mono-utilisateur : pas d'inscription publique, le
// compte est créé au provisionnement.
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()

	var userID gocql.UUID
	q := database.GetPreparedGetUserByEmail()
	if q == nil {
		session, err := database.GetUsersSession()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
			return
		}
		q = session.Query("SELECT user_id FROM users_by_email WHERE email = ?")
	}
	if err := q.WithContext(ctx).Bind(input.Email).Scan(&userID); err != nil {
		// Même message que pour un mauvais mot de passe : on ne révèle
		// pas si l'adresse existe
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	var email, password, name string
	qu := database.GetPreparedGetUserByID()
	if qu == nil {
		session, err := database.GetUsersSession()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
			return
		}
		qu = session.Query("SELECT email, password, name FROM users WHERE user_id = ?")
	}
	if err := qu.WithContext(ctx).Bind(userID).Scan(&email, &password, &name); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	user := models.User{ID: userID.String(), Email: email, Name: name}
	token, err := utils.GenerateJWT(user)
	if err != nil {
		log.Printf("❌ Erreur génération JWT: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
		return
	}

	log.Printf("✅ Propriétaire connecté: %s", email)

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
	})
}
