package reservation

import (
	"context"
	"sync"
	"testing"

	"puzzelle_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTable reproduit en mémoire les garanties CAS de la table ScyllaDB :
// l'insertion conditionnelle est atomique sous mutex, comme la transaction
// légère l'est côté cluster.
type memTable struct {
	mu           sync.Mutex
	items        map[gocql.UUID]bool // true = disponible, false = supprimé
	reservations map[gocql.UUID]models.Reservation
	lookup       map[gocql.UUID]gocql.UUID
	accesses     int
}

func newMemTable() *memTable {
	return &memTable{
		items:        make(map[gocql.UUID]bool),
		reservations: make(map[gocql.UUID]models.Reservation),
		lookup:       make(map[gocql.UUID]gocql.UUID),
	}
}

func (m *memTable) addItem(deleted bool) gocql.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := gocql.TimeUUID()
	m.items[id] = !deleted
	return id
}

func (m *memTable) ItemAvailable(_ context.Context, itemID gocql.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accesses++
	available, ok := m.items[itemID]
	return ok && available, nil
}

func (m *memTable) InsertIfAbsent(_ context.Context, r models.Reservation) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accesses++
	if _, exists := m.reservations[r.ItemID]; exists {
		return false, nil
	}
	m.reservations[r.ItemID] = r
	return true, nil
}

func (m *memTable) SaveLookup(_ context.Context, reservationID, itemID gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accesses++
	m.lookup[reservationID] = itemID
	return nil
}

func (m *memTable) Lookup(_ context.Context, reservationID gocql.UUID) (gocql.UUID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accesses++
	itemID, ok := m.lookup[reservationID]
	return itemID, ok, nil
}

func (m *memTable) DeleteIfMatch(_ context.Context, itemID, reservationID gocql.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accesses++
	r, exists := m.reservations[itemID]
	if !exists || r.ID != reservationID {
		return false, nil
	}
	delete(m.reservations, itemID)
	return true, nil
}

func (m *memTable) DeleteLookup(_ context.Context, reservationID gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accesses++
	delete(m.lookup, reservationID)
	return nil
}

func (m *memTable) GetByItem(_ context.Context, itemID gocql.UUID) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accesses++
	r, exists := m.reservations[itemID]
	if !exists {
		return nil, nil
	}
	return &r, nil
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("succès puis conflit sur le même article", func(t *testing.T) {
		tab := newMemTable()
		store := NewStore(tab)
		itemID := tab.addItem(false)

		r, err := store.Reserve(ctx, itemID, "Jan Novák")
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Equal(t, itemID, r.ItemID)
		assert.Equal(t, "Jan Novák", r.ReserverName)
		assert.False(t, r.CreatedAt.IsZero())

		_, err = store.Reserve(ctx, itemID, "Petr")
		assert.ErrorIs(t, err, ErrAlreadyReserved)
	})

	t.Run("nom trop court rejeté avant tout accès au stockage", func(t *testing.T) {
		tab := newMemTable()
		store := NewStore(tab)
		itemID := tab.addItem(false)

		_, err := store.Reserve(ctx, itemID, "J")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, tab.accesses, "la validation doit précéder le stockage")

		// Un nom fait uniquement d'espaces ne passe pas non plus
		_, err = store.Reserve(ctx, itemID, "   ")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, tab.accesses)
	})

	t.Run("nom trimé mais conservé tel quel", func(t *testing.T) {
		tab := newMemTable()
		store := NewStore(tab)
		itemID := tab.addItem(false)

		r, err := store.Reserve(ctx, itemID, "  Marie Curie  ")
		require.NoError(t, err)
		assert.Equal(t, "Marie Curie", r.ReserverName)
	})

	t.Run("article inconnu", func(t *testing.T) {
		tab := newMemTable()
		store := NewStore(tab)

		_, err := store.Reserve(ctx, gocql.TimeUUID(), "Jan Novák")
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("article supprimé", func(t *testing.T) {
		tab := newMemTable()
		store := NewStore(tab)
		itemID := tab.addItem(true)

		_, err := store.Reserve(ctx, itemID, "Jan Novák")
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

// Deux appels concurrents sur le même article : exactement un gagnant,
// quel que soit l'entrelacement. La table CAS est le seul arbitre.
func TestReserveConcurrent(t *testing.T) {
	ctx := context.Background()
	tab := newMemTable()
	store := NewStore(tab)
	itemID := tab.addItem(false)

	const callers = 50
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Reserve(ctx, itemID, "Visiteur Anonyme")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, ErrAlreadyReserved):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins, "exactement un appel doit gagner")
	assert.Equal(t, callers-1, conflicts)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("annuler libère l'article", func(t *testing.T) {
		tab := newMemTable()
		store := NewStore(tab)
		itemID := tab.addItem(false)

		r, err := store.Reserve(ctx, itemID, "Jan Novák")
		require.NoError(t, err)

		require.NoError(t, store.Cancel(ctx, r.ID))

		got, err := store.GetForItem(ctx, itemID)
		require.NoError(t, err)
		assert.Nil(t, got)

		// L'article redevient réservable
		_, err = store.Reserve(ctx, itemID, "Petr")
		assert.NoError(t, err)
	})

	t.Run("id inconnu renvoie ErrNotFound", func(t *testing.T) {
		tab := newMemTable()
		store := NewStore(tab)

		err := store.Cancel(ctx, gocql.TimeUUID())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("double annulation échoue la seconde fois", func(t *testing.T) {
		tab := newMemTable()
		store := NewStore(tab)
		itemID := tab.addItem(false)

		r, err := store.Reserve(ctx, itemID, "Jan Novák")
		require.NoError(t, err)

		require.NoError(t, store.Cancel(ctx, r.ID))
		assert.ErrorIs(t, store.Cancel(ctx, r.ID), ErrNotFound)
	})
}

func TestGetForItem(t *testing.T) {
	ctx := context.Background()
	tab := newMemTable()
	store := NewStore(tab)
	itemID := tab.addItem(false)

	got, err := store.GetForItem(ctx, itemID)
	require.NoError(t, err)
	assert.Nil(t, got, "article libre → pas de réservation")

	r, err := store.Reserve(ctx, itemID, "Jan Novák")
	require.NoError(t, err)

	got, err = store.GetForItem(ctx, itemID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "Jan Novák", got.ReserverName)
}

func TestReleaseItem(t *testing.T) {
	ctx := context.Background()
	tab := newMemTable()
	store := NewStore(tab)
	itemID := tab.addItem(false)

	// Libérer un article libre est un no-op
	require.NoError(t, store.ReleaseItem(ctx, itemID))

	_, err := store.Reserve(ctx, itemID, "Jan Novák")
	require.NoError(t, err)

	require.NoError(t, store.ReleaseItem(ctx, itemID))

	got, err := store.GetForItem(ctx, itemID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
