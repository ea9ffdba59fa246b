package cache

import (
	"context"
	"encoding/json"
	"time"

	"puzzelle_back_end/internal/database"
	"puzzelle_back_end/internal/models"

	"github.com/gocql/gocql"
)

const (
	SettingsCacheTTL = 1 * time.Minute
	WishlistCacheTTL = 10 * time.Minute
	CatalogCacheTTL  = 1 * time.Hour
)

const (
	settingsCacheKey = "settings:app"
	wishlistCacheKey = "wishlist:items"
)

// GetSettings récupère la ligne de réglages depuis Redis ou ScyllaDB.
// Si la ligne n'existe pas encore, on renvoie des valeurs sûres :
// wishlist privée.
func GetSettings(ctx context.Context) (*models.Settings, error) {
	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, settingsCacheKey).Result()
	if err == nil {
		var settings models.Settings
		if json.Unmarshal([]byte(data), &settings) == nil {
			return &settings, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	var settings models.Settings
	q := database.GetPreparedGetSettings()
	if q == nil {
		session, err := database.GetCollectionSession()
		if err != nil {
			return nil, err
		}
		q = session.Query(
			"SELECT public_wishlist, owner_email, theme, items_per_page, updated_at FROM settings WHERE id = ?")
	}

	err = q.WithContext(ctx).Bind(models.SettingsRowID).Scan(
		&settings.PublicWishlist,
		&settings.OwnerEmail,
		&settings.Theme,
		&settings.ItemsPerPage,
		&settings.UpdatedAt,
	)
	if err == gocql.ErrNotFound {
		settings = models.Settings{PublicWishlist: false}
	} else if err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	if jsonData, err := json.Marshal(settings); err == nil {
		database.Redis.Set(ctx, settingsCacheKey, jsonData, SettingsCacheTTL)
	}

	return &settings, nil
}

// InvalidateSettings invalide le cache des réglages
func InvalidateSettings(ctx context.Context) {
	database.Redis.Del(ctx, settingsCacheKey)
}

// GetWishlistItems charge tous les articles non supprimés de la wishlist,
// depuis Redis ou ScyllaDB. Le filtrage par facettes se fait ensuite en
// mémoire, sur cette liste.
func GetWishlistItems(ctx context.Context) ([]models.WishlistItem, error) {
	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, wishlistCacheKey).Result()
	if err == nil {
		var items []models.WishlistItem
		if json.Unmarshal([]byte(data), &items) == nil {
			return items, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetCollectionSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT item_id, name, manufacturer_id, pieces, price, in_stock, priority,
		       notes, source_id, category_ids, tag_ids, created_at, deleted_at
		FROM wishlist
	`).WithContext(ctx).Iter()

	var items []models.WishlistItem
	var item models.WishlistItem
	for iter.Scan(
		&item.ID, &item.Name, &item.ManufacturerID, &item.Pieces, &item.Price,
		&item.InStock, &item.Priority, &item.Notes, &item.SourceID,
		&item.CategoryIDs, &item.TagIDs, &item.CreatedAt, &item.DeletedAt,
	) {
		if item.DeletedAt == nil {
			items = append(items, item)
		}
		item = models.WishlistItem{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	if jsonData, err := json.Marshal(items); err == nil {
		database.Redis.Set(ctx, wishlistCacheKey, jsonData, WishlistCacheTTL)
	}

	return items, nil
}

// InvalidateWishlist invalide le cache de la wishlist. À appeler après
// toute mutation d'article ou de réservation : l'état réservé est une
// facette de filtrage.
func InvalidateWishlist(ctx context.Context) {
	database.Redis.Del(ctx, wishlistCacheKey)
}

// InvalidateCatalog invalide la liste en cache d'un catalogue (clé du
// type "manufacturers:all")
func InvalidateCatalog(ctx context.Context, key string) {
	database.Redis.Del(ctx, key)
}
