package query

import (
	"fmt"
	"testing"
	"time"

	"puzzelle_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func floatPtr(f float64) *float64 { return &f }

func newItem(name string, opts ...func(*models.WishlistItem)) models.WishlistItem {
	item := models.WishlistItem{
		ID:        gocql.TimeUUID(),
		Name:      name,
		Priority:  models.PriorityMedium,
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

func names(items []models.WishlistItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestListVisibleSearch(t *testing.T) {
	e := NewEngine()
	items := []models.WishlistItem{
		newItem("Nuit étoilée"),
		newItem("NUIT à Paris"),
		newItem("Plage au soleil"),
	}

	res := e.ListVisible(items, nil, Filters{}, "nuit", Sort{}, 1)
	assert.ElementsMatch(t, []string{"Nuit étoilée", "NUIT à Paris"}, names(res.Items),
		"recherche insensible à la casse, sous-chaîne du nom")

	res = e.ListVisible(items, nil, Filters{}, "  soleil ", Sort{}, 1)
	assert.Equal(t, []string{"Plage au soleil"}, names(res.Items))
}

func TestListVisibleFacetConjunction(t *testing.T) {
	e := NewEngine()
	ravensburger := gocql.TimeUUID()
	trefl := gocql.TimeUUID()
	catNature := gocql.TimeUUID()
	catArt := gocql.TimeUUID()

	a := newItem("A", func(i *models.WishlistItem) {
		i.ManufacturerID = &ravensburger
		i.CategoryIDs = []gocql.UUID{catNature}
		i.Price = floatPtr(300)
		i.InStock = true
	})
	b := newItem("B", func(i *models.WishlistItem) {
		i.ManufacturerID = &ravensburger
		i.CategoryIDs = []gocql.UUID{catArt}
		i.Price = floatPtr(800)
		i.InStock = true
	})
	c := newItem("C", func(i *models.WishlistItem) {
		i.ManufacturerID = &trefl
		i.CategoryIDs = []gocql.UUID{catNature, catArt}
		i.Price = floatPtr(300)
	})
	items := []models.WishlistItem{a, b, c}

	// Chaque facette seule
	res := e.ListVisible(items, nil, Filters{Manufacturers: []gocql.UUID{ravensburger}}, "", Sort{}, 1)
	assert.ElementsMatch(t, []string{"A", "B"}, names(res.Items))

	res = e.ListVisible(items, nil, Filters{Categories: []gocql.UUID{catNature}}, "", Sort{}, 1)
	assert.ElementsMatch(t, []string{"A", "C"}, names(res.Items))

	// Conjonction : le résultat est l'intersection des facettes actives
	res = e.ListVisible(items, nil, Filters{
		Manufacturers: []gocql.UUID{ravensburger},
		Categories:    []gocql.UUID{catNature},
	}, "", Sort{}, 1)
	assert.Equal(t, []string{"A"}, names(res.Items))

	// Bornes de prix inclusives
	res = e.ListVisible(items, nil, Filters{PriceMin: floatPtr(300), PriceMax: floatPtr(300)}, "", Sort{}, 1)
	assert.ElementsMatch(t, []string{"A", "C"}, names(res.Items))

	// Stock exact
	res = e.ListVisible(items, nil, Filters{InStock: boolPtr(false)}, "", Sort{}, 1)
	assert.Equal(t, []string{"C"}, names(res.Items))
}

func TestListVisibleReservedFacet(t *testing.T) {
	e := NewEngine()
	a := newItem("Réservé")
	b := newItem("Libre")
	items := []models.WishlistItem{a, b}
	reserved := map[gocql.UUID]bool{a.ID: true}

	res := e.ListVisible(items, reserved, Filters{Reserved: boolPtr(true)}, "", Sort{}, 1)
	assert.Equal(t, []string{"Réservé"}, names(res.Items))

	res = e.ListVisible(items, reserved, Filters{Reserved: boolPtr(false)}, "", Sort{}, 1)
	assert.Equal(t, []string{"Libre"}, names(res.Items))

	// Facette inactive → les deux
	res = e.ListVisible(items, reserved, Filters{}, "", Sort{}, 1)
	assert.Len(t, res.Items, 2)
}

func TestListVisibleSansPrixExcluDesBornes(t *testing.T) {
	e := NewEngine()
	items := []models.WishlistItem{
		newItem("Avec prix", func(i *models.WishlistItem) { i.Price = floatPtr(100) }),
		newItem("Sans prix"),
	}

	res := e.ListVisible(items, nil, Filters{PriceMin: floatPtr(50)}, "", Sort{}, 1)
	assert.Equal(t, []string{"Avec prix"}, names(res.Items))
}

func TestListVisibleIgnoreSupprimes(t *testing.T) {
	e := NewEngine()
	deleted := time.Now()
	items := []models.WishlistItem{
		newItem("Visible"),
		newItem("Converti", func(i *models.WishlistItem) { i.DeletedAt = &deleted }),
	}

	res := e.ListVisible(items, nil, Filters{}, "", Sort{}, 1)
	assert.Equal(t, []string{"Visible"}, names(res.Items))
}

func TestSortCollationFrancaise(t *testing.T) {
	e := NewEngine()
	items := []models.WishlistItem{
		newItem("Zèbre"),
		newItem("École de Paris"),
		newItem("Abeilles"),
	}

	res := e.ListVisible(items, nil, Filters{}, "", Sort{Key: SortByName, Direction: DirAsc}, 1)
	// Un tri par octets mettrait « École » après « Zèbre »
	assert.Equal(t, []string{"Abeilles", "École de Paris", "Zèbre"}, names(res.Items))

	res = e.ListVisible(items, nil, Filters{}, "", Sort{Key: SortByName, Direction: DirDesc}, 1)
	assert.Equal(t, []string{"Zèbre", "École de Paris", "Abeilles"}, names(res.Items))
}

func TestSortPrixNullsDabord(t *testing.T) {
	e := NewEngine()
	items := []models.WishlistItem{
		newItem("Cher", func(i *models.WishlistItem) { i.Price = floatPtr(900) }),
		newItem("Sans prix"),
		newItem("Abordable", func(i *models.WishlistItem) { i.Price = floatPtr(150) }),
	}

	res := e.ListVisible(items, nil, Filters{}, "", Sort{Key: SortByPrice, Direction: DirAsc}, 1)
	assert.Equal(t, []string{"Sans prix", "Abordable", "Cher"}, names(res.Items))

	// Les valeurs absentes restent devant, même en descendant
	res = e.ListVisible(items, nil, Filters{}, "", Sort{Key: SortByPrice, Direction: DirDesc}, 1)
	assert.Equal(t, []string{"Sans prix", "Cher", "Abordable"}, names(res.Items))
}

func TestSortPriorite(t *testing.T) {
	e := NewEngine()
	items := []models.WishlistItem{
		newItem("Moyen", func(i *models.WishlistItem) { i.Priority = models.PriorityMedium }),
		newItem("Bas", func(i *models.WishlistItem) { i.Priority = models.PriorityLow }),
		newItem("Haut", func(i *models.WishlistItem) { i.Priority = models.PriorityHigh }),
	}

	res := e.ListVisible(items, nil, Filters{}, "", Sort{Key: SortByPriority, Direction: DirAsc}, 1)
	assert.Equal(t, []string{"Haut", "Moyen", "Bas"}, names(res.Items))
}

func TestSortDirectionNoneRetombeSurCreation(t *testing.T) {
	e := NewEngine()
	base := time.Now()
	first := newItem("Premier", func(i *models.WishlistItem) { i.CreatedAt = base })
	second := newItem("Deuxième", func(i *models.WishlistItem) { i.CreatedAt = base.Add(time.Hour) })
	items := []models.WishlistItem{second, first}

	res := e.ListVisible(items, nil, Filters{}, "", Sort{Key: SortByName, Direction: DirNone}, 1)
	assert.Equal(t, []string{"Premier", "Deuxième"}, names(res.Items))
}

func TestNextDirection(t *testing.T) {
	assert.Equal(t, DirDesc, NextDirection(DirAsc))
	assert.Equal(t, DirNone, NextDirection(DirDesc))
	assert.Equal(t, DirAsc, NextDirection(DirNone))
	assert.Equal(t, DirAsc, NextDirection(""))
}

// Des appels « voir plus » successifs, à données constantes, renvoient un
// préfixe strictement croissant du même ordre : aucun doublon, aucun saut.
func TestPaginationStable(t *testing.T) {
	e := NewEngine()

	var items []models.WishlistItem
	base := time.Now()
	for i := 0; i < 45; i++ {
		n := i
		items = append(items, newItem(fmt.Sprintf("Puzzle %02d", n), func(it *models.WishlistItem) {
			// Mêmes dates : le départage par id doit suffire à l'ordre total
			it.CreatedAt = base
			it.Pieces = 500
		}))
	}

	s := Sort{Key: SortByPieces, Direction: DirAsc}

	page1 := e.ListVisible(items, nil, Filters{}, "", s, 1)
	require.Len(t, page1.Items, PageSize)
	assert.True(t, page1.HasMore)

	page2 := e.ListVisible(items, nil, Filters{}, "", s, 2)
	require.Len(t, page2.Items, 2*PageSize)
	assert.True(t, page2.HasMore)

	page3 := e.ListVisible(items, nil, Filters{}, "", s, 3)
	require.Len(t, page3.Items, 45)
	assert.False(t, page3.HasMore)

	// Propriété de préfixe
	assert.Equal(t, names(page1.Items), names(page2.Items[:PageSize]))
	assert.Equal(t, names(page2.Items), names(page3.Items[:2*PageSize]))

	// Aucun doublon sur la vue complète
	seen := make(map[string]bool)
	for _, item := range page3.Items {
		assert.False(t, seen[item.ID.String()], "article dupliqué: %s", item.Name)
		seen[item.ID.String()] = true
	}
}

func TestPageInvalideRetombeSurUn(t *testing.T) {
	e := NewEngine()
	items := []models.WishlistItem{newItem("Seul")}

	res := e.ListVisible(items, nil, Filters{}, "", Sort{}, 0)
	assert.Len(t, res.Items, 1)

	res = e.ListVisible(items, nil, Filters{}, "", Sort{}, -3)
	assert.Len(t, res.Items, 1)
}
