package reservation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"puzzelle_back_end/internal/models"

	"github.com/gocql/gocql"
)

// MinReserverNameLen est la longueur minimale du nom après trim.
// Pas de longueur maximale ni de restriction de caractères : le nom est
// affiché tel quel au propriétaire, c'est une frontière de confiance
// assumée pour une fonctionnalité cadeau sans enjeu.
const MinReserverNameLen = 2

// Table est la surface de stockage du store. L'implémentation ScyllaDB
// est dans scylla.go ; les tests utilisent une table en mémoire avec les
// mêmes garanties CAS.
type Table interface {
	// ItemAvailable indique si l'article existe et n'est pas supprimé
	ItemAvailable(ctx context.Context, itemID gocql.UUID) (bool, error)

	// InsertIfAbsent insère la réservation seulement si aucune ligne
	// n'existe pour item_id. Le booléen retourné vaut false quand la
	// condition a échoué. C'est l'unique arbitre de l'unicité : pas de
	// lecture préalable, l'insertion conditionnelle est atomique.
	InsertIfAbsent(ctx context.Context, r models.Reservation) (bool, error)

	// SaveLookup enregistre l'index inverse réservation → article
	SaveLookup(ctx context.Context, reservationID, itemID gocql.UUID) error

	// Lookup retrouve l'article d'une réservation via l'index inverse
	Lookup(ctx context.Context, reservationID gocql.UUID) (gocql.UUID, bool, error)

	// DeleteIfMatch supprime la réservation de l'article seulement si
	// son id correspond encore (protège contre un id périmé)
	DeleteIfMatch(ctx context.Context, itemID, reservationID gocql.UUID) (bool, error)

	// DeleteLookup efface l'index inverse
	DeleteLookup(ctx context.Context, reservationID gocql.UUID) error

	// GetByItem retourne la réservation vivante d'un article, nil si aucune
	GetByItem(ctx context.Context, itemID gocql.UUID) (*models.Reservation, error)
}

// Store garantit au plus une réservation vivante par article de wishlist.
type Store struct {
	tab Table
}

func NewStore(tab Table) *Store {
	return &Store{tab: tab}
}

// Reserve crée la réservation d'un article, ou échoue avec
// ErrAlreadyReserved si un appelant concurrent a déjà gagné.
// La validation du nom se fait avant tout accès au stockage.
func (s *Store) Reserve(ctx context.Context, itemID gocql.UUID, reserverName string) (*models.Reservation, error) {
	name := strings.TrimSpace(reserverName)
	if utf8.RuneCountInString(name) < MinReserverNameLen {
		return nil, ErrInvalidInput
	}

	available, err := s.tab.ItemAvailable(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("vérification article %s: %w", itemID, err)
	}
	if !available {
		return nil, ErrItemNotFound
	}

	r := models.Reservation{
		ID:           gocql.TimeUUID(),
		ItemID:       itemID,
		ReserverName: name,
		CreatedAt:    time.Now().UTC(),
	}

	applied, err := s.tab.InsertIfAbsent(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("insertion réservation pour %s: %w", itemID, err)
	}
	if !applied {
		return nil, ErrAlreadyReserved
	}

	// L'index inverse ne porte pas l'unicité : son échec laisse la
	// réservation valide, seule l'annulation par id en souffrirait.
	if err := s.tab.SaveLookup(ctx, r.ID, itemID); err != nil {
		log.Printf("⚠️ Index inverse non écrit pour la réservation %s: %v", r.ID, err)
	}

	return &r, nil
}

// Cancel supprime une réservation par son id. Un id inconnu ou périmé
// renvoie ErrNotFound, jamais un succès silencieux, pour que l'interface
// du propriétaire détecte un état local obsolète.
func (s *Store) Cancel(ctx context.Context, reservationID gocql.UUID) error {
	itemID, found, err := s.tab.Lookup(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("recherche réservation %s: %w", reservationID, err)
	}
	if !found {
		return ErrNotFound
	}

	applied, err := s.tab.DeleteIfMatch(ctx, itemID, reservationID)
	if err != nil {
		return fmt.Errorf("suppression réservation %s: %w", reservationID, err)
	}
	if !applied {
		// L'index pointait sur une réservation déjà remplacée ou annulée
		return ErrNotFound
	}

	if err := s.tab.DeleteLookup(ctx, reservationID); err != nil {
		log.Printf("⚠️ Index inverse non purgé pour la réservation %s: %v", reservationID, err)
	}

	return nil
}

// GetForItem retourne la réservation vivante d'un article, nil si libre.
func (s *Store) GetForItem(ctx context.Context, itemID gocql.UUID) (*models.Reservation, error) {
	return s.tab.GetByItem(ctx, itemID)
}

// ReleaseItem libère un article quel que soit son réservant. Utilisé
// quand l'article est supprimé ou converti en puzzle de la collection.
func (s *Store) ReleaseItem(ctx context.Context, itemID gocql.UUID) error {
	r, err := s.tab.GetByItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("lecture réservation de l'article %s: %w", itemID, err)
	}
	if r == nil {
		return nil
	}

	if _, err := s.tab.DeleteIfMatch(ctx, itemID, r.ID); err != nil {
		return fmt.Errorf("libération article %s: %w", itemID, err)
	}
	if err := s.tab.DeleteLookup(ctx, r.ID); err != nil {
		log.Printf("⚠️ Index inverse non purgé pour la réservation %s: %v", r.ID, err)
	}
	return nil
}
