package middleware

import (
	"fmt"
	"net/http"
	"time"

	"puzzelle_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	// Limites par endpoint
	LoginMaxAttempts       = 5
	ReservationMaxAttempts = 10 // Par fenêtre, par IP

	// Durées de cooldown
	LoginCooldown       = 15 * time.Minute
	ReservationCooldown = 10 * time.Minute
)

// ReservationRateLimit limite les tentatives de réservation par IP :
// le formulaire public est accessible sans compte, c'est la seule
// protection contre un script qui arroserait la wishlist.
func ReservationRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "reservation_attempts:" + c.ClientIP()

		count, err := database.Redis.Incr(ctx, key).Result()
		if err != nil {
			// Redis indisponible : on laisse passer, la réservation
			// elle-même reste protégée par sa contrainte d'unicité
			c.Next()
			return
		}

		if count == 1 {
			database.Redis.Expire(ctx, key, ReservationCooldown)
		}

		if count > ReservationMaxAttempts {
			ttl := database.Redis.TTL(ctx, key).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoginRateLimit limite les tentatives de connexion par IP
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "login_attempts:" + c.ClientIP()

		count, err := database.Redis.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}

		if count == 1 {
			database.Redis.Expire(ctx, key, LoginCooldown)
		}

		if count > LoginMaxAttempts {
			ttl := database.Redis.TTL(ctx, key).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives de connexion. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
