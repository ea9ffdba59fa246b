package reservation

import (
	"context"
	"fmt"
	"time"

	"puzzelle_back_end/internal/models"

	"github.com/gocql/gocql"
)

// scyllaTable implémente Table sur ScyllaDB. L'unicité par article vient
// de la clé de partition item_id de wishlist_reservations combinée à
// INSERT … IF NOT EXISTS (transaction légère) : un seul des appels
// concurrents voit applied = true, le cluster arbitre.
type scyllaTable struct {
	session *gocql.Session
}

// NewScyllaTable construit la table de réservations sur une session du
// keyspace collection.
func NewScyllaTable(session *gocql.Session) Table {
	return &scyllaTable{session: session}
}

func (t *scyllaTable) ItemAvailable(ctx context.Context, itemID gocql.UUID) (bool, error) {
	var deletedAt *time.Time
	err := t.session.Query("SELECT deleted_at FROM wishlist WHERE item_id = ?", itemID).
		WithContext(ctx).Scan(&deletedAt)
	if err == gocql.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lecture wishlist: %w", err)
	}
	return deletedAt == nil, nil
}

func (t *scyllaTable) InsertIfAbsent(ctx context.Context, r models.Reservation) (bool, error) {
	applied, err := t.session.Query(`
		INSERT INTO wishlist_reservations (item_id, reservation_id, reserver_name, created_at)
		VALUES (?, ?, ?, ?) IF NOT EXISTS
	`, r.ItemID, r.ID, r.ReserverName, r.CreatedAt).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (t *scyllaTable) SaveLookup(ctx context.Context, reservationID, itemID gocql.UUID) error {
	return t.session.Query(
		"INSERT INTO reservations_by_id (reservation_id, item_id) VALUES (?, ?)",
		reservationID, itemID).WithContext(ctx).Exec()
}

func (t *scyllaTable) Lookup(ctx context.Context, reservationID gocql.UUID) (gocql.UUID, bool, error) {
	var itemID gocql.UUID
	err := t.session.Query(
		"SELECT item_id FROM reservations_by_id WHERE reservation_id = ?",
		reservationID).WithContext(ctx).Scan(&itemID)
	if err == gocql.ErrNotFound {
		return gocql.UUID{}, false, nil
	}
	if err != nil {
		return gocql.UUID{}, false, err
	}
	return itemID, true, nil
}

func (t *scyllaTable) DeleteIfMatch(ctx context.Context, itemID, reservationID gocql.UUID) (bool, error) {
	applied, err := t.session.Query(
		"DELETE FROM wishlist_reservations WHERE item_id = ? IF reservation_id = ?",
		itemID, reservationID).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (t *scyllaTable) DeleteLookup(ctx context.Context, reservationID gocql.UUID) error {
	return t.session.Query(
		"DELETE FROM reservations_by_id WHERE reservation_id = ?",
		reservationID).WithContext(ctx).Exec()
}

func (t *scyllaTable) GetByItem(ctx context.Context, itemID gocql.UUID) (*models.Reservation, error) {
	r := models.Reservation{ItemID: itemID}
	err := t.session.Query(
		"SELECT reservation_id, reserver_name, created_at FROM wishlist_reservations WHERE item_id = ?",
		itemID).WithContext(ctx).Scan(&r.ID, &r.ReserverName, &r.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
