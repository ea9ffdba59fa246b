package puzzle

import (
	"log"
	"net/http"
	"time"

	"puzzelle_back_end/internal/database"
	"puzzelle_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

type sessionInput struct {
	StartedAt       string `json:"started_at" binding:"required"`
	EndedAt         string `json:"ended_at"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

// ListSessions renvoie les séances de montage d'un puzzle, de la plus
// récente à la plus ancienne (ordre de clustering)
func ListSessions(c *gin.Context) {
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

	iter := session.Query(`
		SELECT session_id, started_at, ended_at, duration_minutes, notes, created_at
		FROM assembly_sessions WHERE puzzle_id = ?
	`, gocql.UUID(puzzleID)).WithContext(c.Request.Context()).Iter()

	sessions := []models.AssemblySession{}
	s := models.AssemblySession{PuzzleID: gocql.UUID(puzzleID)}
	for iter.Scan(&s.ID, &s.StartedAt, &s.EndedAt, &s.DurationMinutes, &s.Notes, &s.CreatedAt) {
		sessions = append(sessions, s)
		s = models.AssemblySession{PuzzleID: gocql.UUID(puzzleID)}
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture séances: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture des séances"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// CreateSession enregistre une séance de montage
func CreateSession(c *gin.Context) {
	puzzleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID puzzle invalide"})
		return
	}

	var input sessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	startedAt, err := time.Parse(time.RFC3339, input.StartedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date de début invalide"})
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

	s := models.AssemblySession{
		ID:              gocql.TimeUUID(),
		PuzzleID:        p.ID,
		StartedAt:       startedAt,
		DurationMinutes: input.DurationMinutes,
		Notes:           input.Notes,
		CreatedAt:       time.Now().UTC(),
	}

	if input.EndedAt != "" {
		endedAt, err := time.Parse(time.RFC3339, input.EndedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Date de fin invalide"})
			return
		}
		if endedAt.Before(startedAt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "La fin précède le début"})
			return
		}
		s.EndedAt = &endedAt
		if s.DurationMinutes == 0 {
			s.DurationMinutes = int(endedAt.Sub(startedAt).Minutes())
		}
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`
		INSERT INTO assembly_sessions (puzzle_id, session_id, started_at, ended_at,
		                               duration_minutes, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.PuzzleID, s.ID, s.StartedAt, s.EndedAt, s.DurationMinutes, s.Notes, s.CreatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur ajout séance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout de la séance"})
		return
	}

	log.Printf("⏱️ Séance de montage enregistrée pour le puzzle %s", p.ID)
	c.JSON(http.StatusCreated, s)
}

// DeleteSession supprime une séance de montage
func DeleteSession(c *gin.Context) {
	puzzleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID puzzle invalide"})
		return
	}
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID séance invalide"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query("DELETE FROM assembly_sessions WHERE puzzle_id = ? AND session_id = ?",
		gocql.UUID(puzzleID), gocql.UUID(sessionID)).WithContext(c.Request.Context()).Exec()
	if err != nil {
		log.Printf("❌ Erreur suppression séance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression de la séance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Séance supprimée"})
}
