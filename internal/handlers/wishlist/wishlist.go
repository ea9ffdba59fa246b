package wishlist

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"puzzelle_back_end/internal/cache"
	"puzzelle_back_end/internal/database"
	"puzzelle_back_end/internal/models"
	"puzzelle_back_end/internal/query"
	"puzzelle_back_end/internal/reservation"
	"puzzelle_back_end/internal/services"
	"puzzelle_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Moteur de filtrage partagé par la vue propriétaire et la vue publique
var engine = query.NewEngine()

// getStore construit le store de réservations sur la session collection.
// Les sessions sont mises en cache par le manager, l'appel est bon marché.
func getStore() (*reservation.Store, error) {
	session, err := database.GetCollectionSession()
	if err != nil {
		return nil, err
	}
	return reservation.NewStore(reservation.NewScyllaTable(session)), nil
}

// itemView est un article accompagné de son éventuelle réservation
type itemView struct {
	models.WishlistItem
	Reservation *models.Reservation `json:"reservation,omitempty"`
}

// ListWishlist calcule la vue filtrée, triée et paginée de la wishlist.
// La même vue sert au propriétaire et aux visiteurs : la visibilité se
// joue au niveau de la route, pas du contenu.
func ListWishlist(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := cache.GetWishlistItems(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture wishlist"})
		return
	}

	reservations, err := loadReservations(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture réservations"})
		return
	}

	reserved := make(map[gocql.UUID]bool, len(reservations))
	for itemID := range reservations {
		reserved[itemID] = true
	}

	filters := parseFilters(c)
	sort := query.Sort{
		Key:       c.Query("sort"),
		Direction: c.DefaultQuery("dir", query.DirNone),
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result := engine.ListVisible(items, reserved, filters, c.Query("q"), sort, page)

	views := make([]itemView, 0, len(result.Items))
	for _, item := range result.Items {
		view := itemView{WishlistItem: item}
		if r, ok := reservations[item.ID]; ok {
			view.Reservation = &r
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    views,
		"has_more": result.HasMore,
	})
}

// loadReservations charge toutes les réservations vivantes, indexées par
// article. La table est petite : une wishlist personnelle.
func loadReservations(ctx context.Context) (map[gocql.UUID]models.Reservation, error) {
	session, err := database.GetCollectionSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		"SELECT item_id, reservation_id, reserver_name, created_at FROM wishlist_reservations").
		WithContext(ctx).Iter()

	reservations := make(map[gocql.UUID]models.Reservation)
	var r models.Reservation
	for iter.Scan(&r.ItemID, &r.ID, &r.ReserverName, &r.CreatedAt) {
		reservations[r.ItemID] = r
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return reservations, nil
}

// parseFilters lit les facettes depuis la query string. Les listes sont
// séparées par des virgules ; une valeur illisible est ignorée plutôt
// que de faire échouer toute la vue.
func parseFilters(c *gin.Context) query.Filters {
	f := query.Filters{
		Manufacturers: parseUUIDList(c.Query("manufacturer")),
		Categories:    parseUUIDList(c.Query("category")),
		Tags:          parseUUIDList(c.Query("tag")),
		Sources:       parseUUIDList(c.Query("source")),
	}

	if p := c.Query("priority"); p != "" {
		for _, v := range strings.Split(p, ",") {
			if models.IsValidPriority(v) {
				f.Priorities = append(f.Priorities, v)
			}
		}
	}

	if v := c.Query("in_stock"); v != "" {
		b := v == "true"
		f.InStock = &b
	}
	if v := c.Query("reserved"); v != "" {
		b := v == "true"
		f.Reserved = &b
	}
	if v := c.Query("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.PriceMin = &p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.PriceMax = &p
		}
	}

	return f
}

func parseUUIDList(raw string) []gocql.UUID {
	if raw == "" {
		return nil
	}
	var ids []gocql.UUID
	for _, part := range strings.Split(raw, ",") {
		if id, err := uuid.Parse(strings.TrimSpace(part)); err == nil {
			ids = append(ids, gocql.UUID(id))
		}
	}
	return ids
}

type itemInput struct {
	Name           string   `json:"name" binding:"required"`
	ManufacturerID *string  `json:"manufacturer_id"`
	Pieces         int      `json:"pieces"`
	Price          *float64 `json:"price"`
	InStock        bool     `json:"in_stock"`
	Priority       string   `json:"priority"`
	Notes          string   `json:"notes"`
	SourceID       *string  `json:"source_id"`
	CategoryIDs    []string `json:"category_ids"`
	TagIDs         []string `json:"tag_ids"`
}

func (in *itemInput) apply(item *models.WishlistItem) bool {
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(in.Priority) {
		return false
	}

	item.Name = in.Name
	item.Pieces = in.Pieces
	item.Price = in.Price
	item.InStock = in.InStock
	item.Priority = in.Priority
	item.Notes = in.Notes

	item.ManufacturerID = nil
	if in.ManufacturerID != nil {
		id, err := uuid.Parse(*in.ManufacturerID)
		if err != nil {
			return false
		}
		u := gocql.UUID(id)
		item.ManufacturerID = &u
	}

	item.SourceID = nil
	if in.SourceID != nil {
		id, err := uuid.Parse(*in.SourceID)
		if err != nil {
			return false
		}
		u := gocql.UUID(id)
		item.SourceID = &u
	}

	item.CategoryIDs = nil
	for _, raw := range in.CategoryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return false
		}
		item.CategoryIDs = append(item.CategoryIDs, gocql.UUID(id))
	}

	item.TagIDs = nil
	for _, raw := range in.TagIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return false
		}
		item.TagIDs = append(item.TagIDs, gocql.UUID(id))
	}

	return true
}

// CreateItem ajoute un article à la wishlist (propriétaire)
func CreateItem(c *gin.Context) {
	var input itemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	item := models.WishlistItem{
		ID:        gocql.TimeUUID(),
		CreatedAt: time.Now().UTC(),
	}
	if !input.apply(&item) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`
		INSERT INTO wishlist (item_id, name, manufacturer_id, pieces, price, in_stock,
		                      priority, notes, source_id, category_ids, tag_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Name, item.ManufacturerID, item.Pieces, item.Price, item.InStock,
		item.Priority, item.Notes, item.SourceID, item.CategoryIDs, item.TagIDs, item.CreatedAt).
		WithContext(c.Request.Context()).Exec()
	if err != nil {
		log.Printf("❌ Erreur ajout wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout à la wishlist"})
		return
	}

	cache.InvalidateWishlist(c.Request.Context())
	log.Printf("⭐ Article ajouté à la wishlist: %s", item.Name)

	c.JSON(http.StatusCreated, item)
}

// UpdateItem modifie un article existant (propriétaire)
func UpdateItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	var input itemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()
	item, found, err := getItem(ctx, gocql.UUID(itemID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture wishlist"})
		return
	}
	if !found || item.DeletedAt != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
		return
	}

	if !input.apply(&item) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`
		UPDATE wishlist SET name = ?, manufacturer_id = ?, pieces = ?, price = ?, in_stock = ?,
		                    priority = ?, notes = ?, source_id = ?, category_ids = ?, tag_ids = ?
		WHERE item_id = ?
	`, item.Name, item.ManufacturerID, item.Pieces, item.Price, item.InStock,
		item.Priority, item.Notes, item.SourceID, item.CategoryIDs, item.TagIDs, item.ID).
		WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur mise à jour wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour de l'article"})
		return
	}

	cache.InvalidateWishlist(ctx)
	c.JSON(http.StatusOK, item)
}

// DeleteItem supprime un article (suppression logicielle) et libère son
// éventuelle réservation
func DeleteItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	ctx := c.Request.Context()
	if err := softDeleteItem(ctx, c, gocql.UUID(itemID)); err != nil {
		return // la réponse est déjà écrite
	}

	log.Printf("🗑️ Article retiré de la wishlist: %s", itemID)
	c.JSON(http.StatusOK, gin.H{"message": "Article retiré de la wishlist"})
}

// ConvertItem transforme un article convoité en puzzle de la collection :
// le puzzle est créé, l'article disparaît de la wishlist et sa
// réservation est libérée.
func ConvertItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	ctx := c.Request.Context()
	item, found, err := getItem(ctx, gocql.UUID(itemID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture wishlist"})
		return
	}
	if !found || item.DeletedAt != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
		return
	}

	now := time.Now().UTC()
	puzzle := models.Puzzle{
		ID:             gocql.TimeUUID(),
		Name:           item.Name,
		ManufacturerID: item.ManufacturerID,
		Pieces:         item.Pieces,
		Price:          item.Price,
		AcquiredAt:     &now,
		Notes:          item.Notes,
		SourceID:       item.SourceID,
		CategoryIDs:    item.CategoryIDs,
		TagIDs:         item.TagIDs,
		CreatedAt:      now,
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`
		INSERT INTO puzzles (puzzle_id, name, manufacturer_id, edition_id, pieces, price,
		                     acquired_at, notes, source_id, category_ids, tag_ids, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, puzzle.ID, puzzle.Name, puzzle.ManufacturerID, puzzle.EditionID, puzzle.Pieces, puzzle.Price,
		puzzle.AcquiredAt, puzzle.Notes, puzzle.SourceID, puzzle.CategoryIDs, puzzle.TagIDs,
		puzzle.PhotoURL, puzzle.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur conversion en puzzle: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur conversion en puzzle"})
		return
	}

	if err := softDeleteItem(ctx, c, item.ID); err != nil {
		return
	}

	services.IndexPuzzle(puzzle)
	log.Printf("🧩 Article converti en puzzle de la collection: %s", puzzle.Name)

	c.JSON(http.StatusCreated, puzzle)
}

// softDeleteItem pose deleted_at, libère la réservation et invalide le
// cache. Écrit la réponse d'erreur HTTP lui-même.
func softDeleteItem(ctx context.Context, c *gin.Context, itemID gocql.UUID) error {
	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return err
	}

	err = session.Query("UPDATE wishlist SET deleted_at = ? WHERE item_id = ?",
		time.Now().UTC(), itemID).WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur suppression wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression de l'article"})
		return err
	}

	// La réservation meurt avec l'article
	store, err := getStore()
	if err == nil {
		if err := store.ReleaseItem(ctx, itemID); err != nil {
			log.Printf("⚠️ Réservation de l'article %s non libérée: %v", itemID, err)
		}
	}

	cache.InvalidateWishlist(ctx)
	return nil
}

// getItem lit un article par id, supprimé ou non
func getItem(ctx context.Context, itemID gocql.UUID) (models.WishlistItem, bool, error) {
	session, err := database.GetCollectionSession()
	if err != nil {
		return models.WishlistItem{}, false, err
	}

	item := models.WishlistItem{ID: itemID}
	err = session.Query(`
		SELECT name, manufacturer_id, pieces, price, in_stock, priority, notes,
		       source_id, category_ids, tag_ids, created_at, deleted_at
		FROM wishlist WHERE item_id = ?
	`, itemID).WithContext(ctx).Scan(
		&item.Name, &item.ManufacturerID, &item.Pieces, &item.Price, &item.InStock,
		&item.Priority, &item.Notes, &item.SourceID, &item.CategoryIDs, &item.TagIDs,
		&item.CreatedAt, &item.DeletedAt,
	)
	if err == gocql.ErrNotFound {
		return models.WishlistItem{}, false, nil
	}
	if err != nil {
		return models.WishlistItem{}, false, err
	}
	return item, true, nil
}

// ShareQR renvoie le QR code PNG de l'URL publique de la wishlist. La
// route est derrière le gate : le QR n'existe que si la wishlist est
// visible par son porteur.
func ShareQR(c *gin.Context) {
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	png, err := utils.GenerateWishlistQR(baseURL + "/wishlist")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
