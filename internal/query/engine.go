package query

import (
	"sort"
	"strings"

	"puzzelle_back_end/internal/models"

	"github.com/gocql/gocql"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSize est la taille fixe d'une page « voir plus »
const PageSize = 20

// Directions de tri. Un clic répété sur la même colonne cycle
// asc → desc → none → asc.
const (
	DirAsc  = "asc"
	DirDesc = "desc"
	DirNone = "none"
)

// Clés de tri supportées
const (
	SortByName     = "name"
	SortByPrice    = "price"
	SortByPieces   = "pieces"
	SortByCreated  = "created_at"
	SortByPriority = "priority"
)

// Filters porte les facettes actives. Toutes sont combinées en ET ; une
// facette vide (nil) est inactive.
type Filters struct {
	Manufacturers []gocql.UUID
	Categories    []gocql.UUID
	Tags          []gocql.UUID
	Sources       []gocql.UUID
	Priorities    []string
	InStock       *bool
	Reserved      *bool
	PriceMin      *float64
	PriceMax      *float64
}

type Sort struct {
	Key       string
	Direction string
}

type Result struct {
	Items   []models.WishlistItem `json:"items"`
	HasMore bool                  `json:"has_more"`
}

// NextDirection donne la direction suivante du cycle de tri
func NextDirection(dir string) string {
	switch dir {
	case DirAsc:
		return DirDesc
	case DirDesc:
		return DirNone
	default:
		return DirAsc
	}
}

// Engine calcule la vue filtrée, triée et paginée de la wishlist,
// identique pour le propriétaire et les visiteurs : la visibilité se
// joue en amont, au niveau de la page.
type Engine struct {
	collator *collate.Collator
}

// NewEngine crée un moteur avec collation française, pour que les noms
// avec diacritiques se classent correctement (é entre e et f, pas après z).
func NewEngine() *Engine {
	return &Engine{collator: collate.New(language.French)}
}

// ListVisible filtre, trie puis pagine. Les articles supprimés sont
// écartés d'office. L'ordre est total (départage par id) pour que des
// appels « voir plus » successifs ne dupliquent ni ne sautent d'article.
func (e *Engine) ListVisible(items []models.WishlistItem, reserved map[gocql.UUID]bool, f Filters, search string, s Sort, page int) Result {
	filtered := make([]models.WishlistItem, 0, len(items))
	searchLower := strings.ToLower(strings.TrimSpace(search))

	for _, item := range items {
		if item.DeletedAt != nil {
			continue
		}
		// La recherche s'applique avant les facettes
		if searchLower != "" && !strings.Contains(strings.ToLower(item.Name), searchLower) {
			continue
		}
		if !matchesFacets(item, reserved, f) {
			continue
		}
		filtered = append(filtered, item)
	}

	e.sortItems(filtered, s)

	if page < 1 {
		page = 1
	}
	end := page * PageSize
	hasMore := end < len(filtered)
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result{Items: filtered[:end], HasMore: hasMore}
}

func matchesFacets(item models.WishlistItem, reserved map[gocql.UUID]bool, f Filters) bool {
	if len(f.Manufacturers) > 0 {
		if item.ManufacturerID == nil || !containsUUID(f.Manufacturers, *item.ManufacturerID) {
			return false
		}
	}
	if len(f.Categories) > 0 && !anyOverlap(item.CategoryIDs, f.Categories) {
		return false
	}
	if len(f.Tags) > 0 && !anyOverlap(item.TagIDs, f.Tags) {
		return false
	}
	if len(f.Sources) > 0 {
		if item.SourceID == nil || !containsUUID(f.Sources, *item.SourceID) {
			return false
		}
	}
	if len(f.Priorities) > 0 && !containsString(f.Priorities, item.Priority) {
		return false
	}
	if f.InStock != nil && item.InStock != *f.InStock {
		return false
	}
	if f.Reserved != nil && reserved[item.ID] != *f.Reserved {
		return false
	}
	// Bornes de prix inclusives ; un article sans prix ne peut pas les
	// satisfaire
	if f.PriceMin != nil && (item.Price == nil || *item.Price < *f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && (item.Price == nil || *item.Price > *f.PriceMax) {
		return false
	}
	return true
}

func (e *Engine) sortItems(items []models.WishlistItem, s Sort) {
	key := s.Key
	dir := s.Direction
	if key == "" || dir == DirNone || dir == "" {
		// Ordre par défaut : date de création, départagé par id
		sort.SliceStable(items, func(i, j int) bool {
			if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
				return items[i].CreatedAt.Before(items[j].CreatedAt)
			}
			return items[i].ID.String() < items[j].ID.String()
		})
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		// Les valeurs absentes passent avant les valeurs définies,
		// quelle que soit la direction
		if key == SortByPrice {
			if (a.Price == nil) != (b.Price == nil) {
				return a.Price == nil
			}
		}

		c := e.compare(a, b, key)
		if dir == DirDesc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.ID.String() < b.ID.String()
	})
}

func (e *Engine) compare(a, b models.WishlistItem, key string) int {
	switch key {
	case SortByName:
		return e.collator.CompareString(a.Name, b.Name)
	case SortByPrice:
		switch {
		case a.Price == nil && b.Price == nil:
			return 0
		case *a.Price < *b.Price:
			return -1
		case *a.Price > *b.Price:
			return 1
		}
		return 0
	case SortByPieces:
		return a.Pieces - b.Pieces
	case SortByPriority:
		return priorityRank(a.Priority) - priorityRank(b.Priority)
	default: // created_at
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	}
}

func priorityRank(p string) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	case models.PriorityLow:
		return 2
	default:
		return 3
	}
}

func containsUUID(set []gocql.UUID, id gocql.UUID) bool {
	for _, s := range set {
		if s == id {
			return true
		}
	}
	return false
}

func anyOverlap(itemIDs, filterIDs []gocql.UUID) bool {
	for _, id := range itemIDs {
		if containsUUID(filterIDs, id) {
			return true
		}
	}
	return false
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
