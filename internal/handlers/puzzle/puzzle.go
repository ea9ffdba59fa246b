package puzzle

import (
	"context"
	"log"
	"net/http"
	"time"

	"puzzelle_back_end/internal/database"
	"puzzelle_back_end/internal/models"
	"puzzelle_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

type puzzleInput struct {
	Name           string   `json:"name" binding:"required"`
	ManufacturerID *string  `json:"manufacturer_id"`
	EditionID      *string  `json:"edition_id"`
	Pieces         int      `json:"pieces"`
	Price          *float64 `json:"price"`
	AcquiredAt     *string  `json:"acquired_at"`
	Notes          string   `json:"notes"`
	SourceID       *string  `json:"source_id"`
	CategoryIDs    []string `json:"category_ids"`
	TagIDs         []string `json:"tag_ids"`
}

func parseOptionalUUID(raw *string) (*gocql.UUID, bool) {
	if raw == nil {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, false
	}
	u := gocql.UUID(id)
	return &u, true
}

func parseUUIDs(raw []string) ([]gocql.UUID, bool) {
	var ids []gocql.UUID
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, false
		}
		ids = append(ids, gocql.UUID(id))
	}
	return ids, true
}

func (in *puzzleInput) apply(p *models.Puzzle) bool {
	p.Name = in.Name
	p.Pieces = in.Pieces
	p.Price = in.Price
	p.Notes = in.Notes

	var ok bool
	if p.ManufacturerID, ok = parseOptionalUUID(in.ManufacturerID); !ok {
		return false
	}
	if p.EditionID, ok = parseOptionalUUID(in.EditionID); !ok {
		return false
	}
	if p.SourceID, ok = parseOptionalUUID(in.SourceID); !ok {
		return false
	}
	if p.CategoryIDs, ok = parseUUIDs(in.CategoryIDs); !ok {
		return false
	}
	if p.TagIDs, ok = parseUUIDs(in.TagIDs); !ok {
		return false
	}

	p.AcquiredAt = nil
	if in.AcquiredAt != nil {
		t, err := time.Parse("2006-01-02", *in.AcquiredAt)
		if err != nil {
			return false
		}
		p.AcquiredAt = &t
	}

	return true
}

// ListPuzzles renvoie la collection complète, puzzles supprimés exclus
func ListPuzzles(c *gin.Context) {
	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`
		SELECT puzzle_id, name, manufacturer_id, edition_id, pieces, price, acquired_at,
		       notes, source_id, category_ids, tag_ids, photo_url, created_at, deleted_at
		FROM puzzles
	`).WithContext(c.Request.Context()).Iter()

	puzzles := []models.Puzzle{}
	var p models.Puzzle
	for iter.Scan(&p.ID, &p.Name, &p.ManufacturerID, &p.EditionID, &p.Pieces, &p.Price,
		&p.AcquiredAt, &p.Notes, &p.SourceID, &p.CategoryIDs, &p.TagIDs, &p.PhotoURL,
		&p.CreatedAt, &p.DeletedAt) {
		if p.DeletedAt == nil {
			puzzles = append(puzzles, p)
		}
		p = models.Puzzle{}
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture puzzles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture de la collection"})
		return
	}

	c.JSON(http.StatusOK, puzzles)
}

// GetPuzzle renvoie la fiche d'un puzzle
func GetPuzzle(c *gin.Context) {
	puzzleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID puzzle invalide"})
		return
	}

	p, found, err := getPuzzle(c.Request.Context(), gocql.UUID(puzzleID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture du puzzle"})
		return
	}
	if !found || p.DeletedAt != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Puzzle introuvable"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// CreatePuzzle ajoute un puzzle à la collection
func CreatePuzzle(c *gin.Context) {
	var input puzzleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	p := models.Puzzle{
		ID:        gocql.TimeUUID(),
		CreatedAt: time.Now().UTC(),
	}
	if !input.apply(&p) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := savePuzzle(c.Request.Context(), p); err != nil {
		log.Printf("❌ Erreur ajout puzzle: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout du puzzle"})
		return
	}

	services.IndexPuzzle(p)
	log.Printf("🧩 Puzzle ajouté à la collection: %s", p.Name)

	c.JSON(http.StatusCreated, p)
}

// UpdatePuzzle modifie un puzzle existant
func UpdatePuzzle(c *gin.Context) {
	puzzleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID puzzle invalide"})
		return
	}

	var input puzzleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()
	p, found, err := getPuzzle(ctx, gocql.UUID(puzzleID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture du puzzle"})
		return
	}
	if !found || p.DeletedAt != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Puzzle introuvable"})
		return
	}

	if !input.apply(&p) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := savePuzzle(ctx, p); err != nil {
		log.Printf("❌ Erreur mise à jour puzzle: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour du puzzle"})
		return
	}

	services.IndexPuzzle(p)
	c.JSON(http.StatusOK, p)
}

// DeletePuzzle retire un puzzle de la collection (suppression logicielle)
func DeletePuzzle(c *gin.Context) {
	puzzleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID puzzle invalide"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query("UPDATE puzzles SET deleted_at = ? WHERE puzzle_id = ?",
		time.Now().UTC(), gocql.UUID(puzzleID)).WithContext(c.Request.Context()).Exec()
	if err != nil {
		log.Printf("❌ Erreur suppression puzzle: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression du puzzle"})
		return
	}

	services.RemovePuzzle(puzzleID.String())
	log.Printf("🗑️ Puzzle retiré de la collection: %s", puzzleID)

	c.JSON(http.StatusOK, gin.H{"message": "Puzzle retiré de la collection"})
}

// UploadPhoto attache une photo au puzzle via MinIO
func UploadPhoto(c *gin.Context) {
	puzzleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID puzzle invalide"})
		return
	}

	ctx := c.Request.Context()
	p, found, err := getPuzzle(ctx, gocql.UUID(puzzleID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture du puzzle"})
		return
	}
	if !found || p.DeletedAt != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Puzzle introuvable"})
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo manquante"})
		return
	}

	url, err := services.UploadPuzzlePhoto(file)
	if err != nil {
		log.Printf("❌ Erreur upload photo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload de la photo"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query("UPDATE puzzles SET photo_url = ? WHERE puzzle_id = ?",
		url, p.ID).WithContext(ctx).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement de la photo"})
		return
	}

	log.Printf("📸 Photo ajoutée au puzzle %s", p.ID)
	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

// SearchPuzzles interroge l'index Elasticsearch de la collection
func SearchPuzzles(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q requis"})
		return
	}

	hits, err := services.SearchPuzzles(q)
	if err != nil {
		log.Printf("❌ Erreur recherche puzzles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la recherche"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": hits})
}

func savePuzzle(ctx context.Context, p models.Puzzle) error {
	session, err := database.GetCollectionSession()
	if err != nil {
		return err
	}

	return session.Query(`
		INSERT INTO puzzles (puzzle_id, name, manufacturer_id, edition_id, pieces, price,
		                     acquired_at, notes, source_id, category_ids, tag_ids, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.ManufacturerID, p.EditionID, p.Pieces, p.Price, p.AcquiredAt,
		p.Notes, p.SourceID, p.CategoryIDs, p.TagIDs, p.PhotoURL, p.CreatedAt).
		WithContext(ctx).Exec()
}

func getPuzzle(ctx context.Context, puzzleID gocql.UUID) (models.Puzzle, bool, error) {
	session, err := database.GetCollectionSession()
	if err != nil {
		return models.Puzzle{}, false, err
	}

	p := models.Puzzle{ID: puzzleID}
	err = session.Query(`
		SELECT name, manufacturer_id, edition_id, pieces, price, acquired_at, notes,
		       source_id, category_ids, tag_ids, photo_url, created_at, deleted_at
		FROM puzzles WHERE puzzle_id = ?
	`, puzzleID).WithContext(ctx).Scan(
		&p.Name, &p.ManufacturerID, &p.EditionID, &p.Pieces, &p.Price, &p.AcquiredAt,
		&p.Notes, &p.SourceID, &p.CategoryIDs, &p.TagIDs, &p.PhotoURL, &p.CreatedAt, &p.DeletedAt,
	)
	if err == gocql.ErrNotFound {
		return models.Puzzle{}, false, nil
	}
	if err != nil {
		return models.Puzzle{}, false, err
	}
	return p, true, nil
}
