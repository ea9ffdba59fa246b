package routes

import (
	"os"
	"strings"
	"time"

	"puzzelle_back_end/internal/handlers"
	"puzzelle_back_end/internal/handlers/catalog"
	"puzzelle_back_end/internal/handlers/puzzle"
	"puzzelle_back_end/internal/handlers/wishlist"
	"puzzelle_back_end/internal/middleware"
	"puzzelle_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(corsConfig()))

	// Point de notification : gère lui-même CORS, méthodes et erreurs
	r.Any("/api/notify", handlers.Notify(utils.SendReservationEmail))

	// Authentification du propriétaire
	r.POST("/api/auth/login", middleware.LoginRateLimit(), handlers.Login)

	// Vue publique de la wishlist : ouverte aux visiteurs quand le
	// propriétaire l'a rendue visible, sinon redirection vers /login
	public := r.Group("/api/public", middleware.OptionalAuth(), middleware.PublicWishlist())
	{
		public.GET("/wishlist", wishlist.ListWishlist)
		public.GET("/wishlist/share/qr", wishlist.ShareQR)
		public.GET("/wishlist/:id/reservations", wishlist.GetItemReservation)
		public.POST("/wishlist/:id/reservations",
			middleware.ReservationRateLimit(), wishlist.CreateReservation)
	}

	// Espace propriétaire
	owner := r.Group("/api", middleware.AuthRequired())
	{
		owner.GET("/wishlist", wishlist.ListWishlist)
		owner.POST("/wishlist", wishlist.CreateItem)
		owner.PUT("/wishlist/:id", wishlist.UpdateItem)
		owner.DELETE("/wishlist/:id", wishlist.DeleteItem)
		owner.POST("/wishlist/:id/convert", wishlist.ConvertItem)
		owner.GET("/wishlist/:id/reservation", wishlist.GetItemReservation)
		owner.DELETE("/wishlist/reservations/:id", wishlist.CancelReservation)

		owner.GET("/puzzles", puzzle.ListPuzzles)
		owner.GET("/puzzles/search", puzzle.SearchPuzzles)
		owner.GET("/puzzles/:id", puzzle.GetPuzzle)
		owner.POST("/puzzles", puzzle.CreatePuzzle)
		owner.PUT("/puzzles/:id", puzzle.UpdatePuzzle)
		owner.DELETE("/puzzles/:id", puzzle.DeletePuzzle)
		owner.POST("/puzzles/:id/photo", puzzle.UploadPhoto)
		owner.GET("/puzzles/:id/sessions", puzzle.ListSessions)
		owner.POST("/puzzles/:id/sessions", puzzle.CreateSession)
		owner.DELETE("/puzzles/:id/sessions/:sessionId", puzzle.DeleteSession)

		owner.GET("/settings", handlers.GetSettings)
		owner.PUT("/settings", handlers.UpdateSettings)

		owner.POST("/manufacturers", catalog.CreateManufacturer)
		owner.PUT("/manufacturers/:id", catalog.UpdateManufacturer)
		owner.DELETE("/manufacturers/:id", catalog.DeleteManufacturer)
		owner.POST("/categories", catalog.CreateCategory)
		owner.PUT("/categories/:id", catalog.UpdateCategory)
		owner.DELETE("/categories/:id", catalog.DeleteCategory)
		owner.POST("/tags", catalog.CreateTag)
		owner.PUT("/tags/:id", catalog.UpdateTag)
		owner.DELETE("/tags/:id", catalog.DeleteTag)
		owner.POST("/sources", catalog.CreateSource)
		owner.PUT("/sources/:id", catalog.UpdateSource)
		owner.DELETE("/sources/:id", catalog.DeleteSource)
		owner.POST("/editions", catalog.CreateEdition)
		owner.PUT("/editions/:id", catalog.UpdateEdition)
		owner.DELETE("/editions/:id", catalog.DeleteEdition)
	}

	// Les catalogues se lisent sans authentification : la vue publique
	// de la wishlist affiche les noms de fabricants et de catégories
	r.GET("/api/manufacturers", catalog.ListManufacturers)
	r.GET("/api/categories", catalog.ListCategories)
	r.GET("/api/tags", catalog.ListTags)
	r.GET("/api/sources", catalog.ListSources)
	r.GET("/api/editions", catalog.ListEditions)
}

func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	config.MaxAge = 12 * time.Hour

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.AllowOrigins = strings.Split(origins, ",")
		config.AllowCredentials = true
	} else {
		config.AllowAllOrigins = true
	}

	return config
}
