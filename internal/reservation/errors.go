package reservation

import "errors"

// Erreurs typées du store : les handlers branchent dessus avec errors.Is
// pour choisir le statut HTTP, jamais sur le texte.
var (
	// ErrInvalidInput : nom de réservant trop court après trim
	ErrInvalidInput = errors.New("nom de réservant invalide")

	// ErrItemNotFound : l'article n'existe pas ou a été supprimé
	ErrItemNotFound = errors.New("article de wishlist introuvable")

	// ErrAlreadyReserved : conflit d'écriture légitime, pas un bug —
	// un autre appelant a gagné la course sur le même article
	ErrAlreadyReserved = errors.New("article déjà réservé")

	// ErrNotFound : réservation inconnue (annulation sur un id périmé)
	ErrNotFound = errors.New("réservation introuvable")
)
