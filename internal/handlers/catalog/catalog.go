package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"puzzelle_back_end/internal/cache"
	"puzzelle_back_end/internal/database"
	"puzzelle_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Les cinq catalogues suivent le même schéma : liste complète en cache
// Redis, mutation directe en ScyllaDB puis invalidation de la liste.

// cachedList sert la liste depuis Redis quand elle y est, sinon la
// recharge via load et la remet en cache
func cachedList[T any](ctx context.Context, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var list []T
		if json.Unmarshal([]byte(data), &list) == nil {
			return list, nil
		}
	}

	list, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if jsonData, err := json.Marshal(list); err == nil {
		database.Redis.Set(ctx, key, jsonData, cache.CatalogCacheTTL)
	}
	return list, nil
}

type nameInput struct {
	Name string `json:"name" binding:"required"`
}

// ── Fabricants ──────────────────────────────────────────────────────────

func ListManufacturers(c *gin.Context) {
	list, err := cachedList(c.Request.Context(), "manufacturers:all",
		func(ctx context.Context) ([]models.Manufacturer, error) {
			session, err := database.GetCollectionSession()
			if err != nil {
				return nil, err
			}
			iter := session.Query(
				"SELECT manufacturer_id, name, country, website, created_at FROM manufacturers").
				WithContext(ctx).Iter()
			list := []models.Manufacturer{}
			var m models.Manufacturer
			for iter.Scan(&m.ID, &m.Name, &m.Country, &m.Website, &m.CreatedAt) {
				list = append(list, m)
				m = models.Manufacturer{}
			}
			return list, iter.Close()
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture fabricants"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func CreateManufacturer(c *gin.Context) {
	var input struct {
		Name    string `json:"name" binding:"required"`
		Country string `json:"country"`
		Website string `json:"website"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now().UTC()
	m := models.Manufacturer{
		ID:        gocql.TimeUUID(),
		Name:      input.Name,
		Country:   input.Country,
		Website:   input.Website,
		CreatedAt: &now,
	}

	ctx := c.Request.Context()
	err = session.Query(
		"INSERT INTO manufacturers (manufacturer_id, name, country, website, created_at) VALUES (?, ?, ?, ?, ?)",
		m.ID, m.Name, m.Country, m.Website, m.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur ajout fabricant: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout du fabricant"})
		return
	}

	cache.InvalidateCatalog(ctx, "manufacturers:all")
	c.JSON(http.StatusCreated, m)
}

func UpdateManufacturer(c *gin.Context) {
	var input struct {
		Name    string `json:"name" binding:"required"`
		Country string `json:"country"`
		Website string `json:"website"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	updateByID(c, "manufacturers:all", "fabricant",
		"UPDATE manufacturers SET name = ?, country = ?, website = ? WHERE manufacturer_id = ?",
		input.Name, input.Country, input.Website)
}

func DeleteManufacturer(c *gin.Context) {
	deleteByID(c, "manufacturers", "manufacturer_id", "manufacturers:all", "fabricant")
}

// ── Catégories ──────────────────────────────────────────────────────────

func ListCategories(c *gin.Context) {
	list, err := cachedList(c.Request.Context(), "categories:all",
		func(ctx context.Context) ([]models.Category, error) {
			session, err := database.GetCollectionSession()
			if err != nil {
				return nil, err
			}
			iter := session.Query("SELECT category_id, name, created_at FROM categories").
				WithContext(ctx).Iter()
			list := []models.Category{}
			var cat models.Category
			for iter.Scan(&cat.ID, &cat.Name, &cat.CreatedAt) {
				list = append(list, cat)
				cat = models.Category{}
			}
			return list, iter.Close()
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func CreateCategory(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now().UTC()
	cat := models.Category{ID: gocql.TimeUUID(), Name: input.Name, CreatedAt: &now}

	ctx := c.Request.Context()
	err = session.Query("INSERT INTO categories (category_id, name, created_at) VALUES (?, ?, ?)",
		cat.ID, cat.Name, cat.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur ajout catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout de la catégorie"})
		return
	}

	cache.InvalidateCatalog(ctx, "categories:all")
	c.JSON(http.StatusCreated, cat)
}

func UpdateCategory(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	updateByID(c, "categories:all", "catégorie",
		"UPDATE categories SET name = ? WHERE category_id = ?", input.Name)
}

func DeleteCategory(c *gin.Context) {
	deleteByID(c, "categories", "category_id", "categories:all", "catégorie")
}

// ── Tags ────────────────────────────────────────────────────────────────

func ListTags(c *gin.Context) {
	list, err := cachedList(c.Request.Context(), "tags:all",
		func(ctx context.Context) ([]models.Tag, error) {
			session, err := database.GetCollectionSession()
			if err != nil {
				return nil, err
			}
			iter := session.Query("SELECT tag_id, name, color, created_at FROM tags").
				WithContext(ctx).Iter()
			list := []models.Tag{}
			var t models.Tag
			for iter.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt) {
				list = append(list, t)
				t = models.Tag{}
			}
			return list, iter.Close()
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture tags"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func CreateTag(c *gin.Context) {
	var input struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now().UTC()
	t := models.Tag{ID: gocql.TimeUUID(), Name: input.Name, Color: input.Color, CreatedAt: &now}

	ctx := c.Request.Context()
	err = session.Query("INSERT INTO tags (tag_id, name, color, created_at) VALUES (?, ?, ?, ?)",
		t.ID, t.Name, t.Color, t.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur ajout tag: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout du tag"})
		return
	}

	cache.InvalidateCatalog(ctx, "tags:all")
	c.JSON(http.StatusCreated, t)
}

func UpdateTag(c *gin.Context) {
	var input struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	updateByID(c, "tags:all", "tag",
		"UPDATE tags SET name = ?, color = ? WHERE tag_id = ?", input.Name, input.Color)
}

func DeleteTag(c *gin.Context) {
	deleteByID(c, "tags", "tag_id", "tags:all", "tag")
}

// ── Sources d'achat ─────────────────────────────────────────────────────

func ListSources(c *gin.Context) {
	list, err := cachedList(c.Request.Context(), "sources:all",
		func(ctx context.Context) ([]models.Source, error) {
			session, err := database.GetCollectionSession()
			if err != nil {
				return nil, err
			}
			iter := session.Query("SELECT source_id, name, url, created_at FROM sources").
				WithContext(ctx).Iter()
			list := []models.Source{}
			var s models.Source
			for iter.Scan(&s.ID, &s.Name, &s.URL, &s.CreatedAt) {
				list = append(list, s)
				s = models.Source{}
			}
			return list, iter.Close()
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture sources"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func CreateSource(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
		URL  string `json:"url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now().UTC()
	s := models.Source{ID: gocql.TimeUUID(), Name: input.Name, URL: input.URL, CreatedAt: &now}

	ctx := c.Request.Context()
	err = session.Query("INSERT INTO sources (source_id, name, url, created_at) VALUES (?, ?, ?, ?)",
		s.ID, s.Name, s.URL, s.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur ajout source: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout de la source"})
		return
	}

	cache.InvalidateCatalog(ctx, "sources:all")
	c.JSON(http.StatusCreated, s)
}

func UpdateSource(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
		URL  string `json:"url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	updateByID(c, "sources:all", "source",
		"UPDATE sources SET name = ?, url = ? WHERE source_id = ?", input.Name, input.URL)
}

func DeleteSource(c *gin.Context) {
	deleteByID(c, "sources", "source_id", "sources:all", "source")
}

// ── Éditions ────────────────────────────────────────────────────────────

func ListEditions(c *gin.Context) {
	list, err := cachedList(c.Request.Context(), "editions:all",
		func(ctx context.Context) ([]models.Edition, error) {
			session, err := database.GetCollectionSession()
			if err != nil {
				return nil, err
			}
			iter := session.Query(
				"SELECT edition_id, name, manufacturer_id, created_at FROM editions").
				WithContext(ctx).Iter()
			list := []models.Edition{}
			var e models.Edition
			for iter.Scan(&e.ID, &e.Name, &e.ManufacturerID, &e.CreatedAt) {
				list = append(list, e)
				e = models.Edition{}
			}
			return list, iter.Close()
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture éditions"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func CreateEdition(c *gin.Context) {
	var input struct {
		Name           string  `json:"name" binding:"required"`
		ManufacturerID *string `json:"manufacturer_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	now := time.Now().UTC()
	e := models.Edition{ID: gocql.TimeUUID(), Name: input.Name, CreatedAt: &now}
	if input.ManufacturerID != nil {
		id, err := uuid.Parse(*input.ManufacturerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID fabricant invalide"})
			return
		}
		u := gocql.UUID(id)
		e.ManufacturerID = &u
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	ctx := c.Request.Context()
	err = session.Query(
		"INSERT INTO editions (edition_id, name, manufacturer_id, created_at) VALUES (?, ?, ?, ?)",
		e.ID, e.Name, e.ManufacturerID, e.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur ajout édition: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout de l'édition"})
		return
	}

	cache.InvalidateCatalog(ctx, "editions:all")
	c.JSON(http.StatusCreated, e)
}

func UpdateEdition(c *gin.Context) {
	var input struct {
		Name           string  `json:"name" binding:"required"`
		ManufacturerID *string `json:"manufacturer_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	var manufacturerID *gocql.UUID
	if input.ManufacturerID != nil {
		id, err := uuid.Parse(*input.ManufacturerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID fabricant invalide"})
			return
		}
		u := gocql.UUID(id)
		manufacturerID = &u
	}

	updateByID(c, "editions:all", "édition",
		"UPDATE editions SET name = ?, manufacturer_id = ? WHERE edition_id = ?",
		input.Name, manufacturerID)
}

func DeleteEdition(c *gin.Context) {
	deleteByID(c, "editions", "edition_id", "editions:all", "édition")
}

// updateByID exécute une requête UPDATE dont le dernier paramètre est
// l'id de l'URL, puis invalide la liste en cache
func updateByID(c *gin.Context, cacheKey, label, cql string, values ...interface{}) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	ctx := c.Request.Context()
	values = append(values, gocql.UUID(id))
	if err := session.Query(cql, values...).WithContext(ctx).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour %s: %v", label, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	cache.InvalidateCatalog(ctx, cacheKey)
	c.JSON(http.StatusOK, gin.H{"message": "Entrée mise à jour"})
}

// deleteByID supprime une entrée de catalogue par clé primaire puis
// invalide la liste en cache
func deleteByID(c *gin.Context, table, idColumn, cacheKey, label string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	session, err := database.GetCollectionSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	ctx := c.Request.Context()
	err = session.Query("DELETE FROM "+table+" WHERE "+idColumn+" = ?", gocql.UUID(id)).
		WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur suppression %s: %v", label, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}

	cache.InvalidateCatalog(ctx, cacheKey)
	c.JSON(http.StatusOK, gin.H{"message": "Entrée supprimée"})
}
