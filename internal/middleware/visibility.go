package middleware

import (
	"net/http"

	"puzzelle_back_end/internal/cache"
	"puzzelle_back_end/internal/visibility"

	"github.com/gin-gonic/gin"
)

// WishlistGate est le gate partagé de visibilité de la wishlist. Le
// handler des réglages l'invalide quand le propriétaire bascule
// public_wishlist.
var WishlistGate = visibility.NewGate(cache.SettingsSource{}, visibility.DefaultTTL)

// PublicWishlist autorise le propriétaire toujours, et les anonymes
// seulement quand la wishlist est publique. Les refusés sont redirigés
// vers la connexion avec le chemin demandé préservé. À monter derrière
// OptionalAuth.
func PublicWishlist() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := visibility.Caller{
			IsOwner: c.GetBool("is_owner"),
			Path:    c.Request.URL.RequestURI(),
		}

		decision := WishlistGate.Authorize(c.Request.Context(), caller)
		if !decision.Allow {
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}

		c.Next()
	}
}
