package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour les requêtes fréquentes
	stmtGetUserByEmail     *gocql.Query
	stmtGetUserByID        *gocql.Query
	stmtGetSettings        *gocql.Query
	stmtGetReservation     *gocql.Query
	stmtGetReservationItem *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		usersSession, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements (users): %v", err)
			return
		}

		// Requête pour récupérer user_id par email
		stmtGetUserByEmail = usersSession.Query("SELECT user_id FROM users_by_email WHERE email = ?")

		// Requête pour récupérer le propriétaire par ID
		stmtGetUserByID = usersSession.Query("SELECT email, password, name FROM users WHERE user_id = ?")

		collectionSession, err := GetCollectionSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements (collection): %v", err)
			return
		}

		// Ligne de réglages unique (id = 'app')
		stmtGetSettings = collectionSession.Query(
			"SELECT public_wishlist, owner_email, theme, items_per_page, updated_at FROM settings WHERE id = ?")

		// Réservation d'un article de wishlist
		stmtGetReservation = collectionSession.Query(
			"SELECT reservation_id, reserver_name, created_at FROM wishlist_reservations WHERE item_id = ?")

		// Table inversée réservation → article
		stmtGetReservationItem = collectionSession.Query(
			"SELECT item_id FROM reservations_by_id WHERE reservation_id = ?")

		log.Println("✅ Prepared statements initialisés")
	})
}

func GetPreparedGetUserByEmail() *gocql.Query {
	return stmtGetUserByEmail
}

func GetPreparedGetUserByID() *gocql.Query {
	return stmtGetUserByID
}

func GetPreparedGetSettings() *gocql.Query {
	return stmtGetSettings
}

func GetPreparedGetReservation() *gocql.Query {
	return stmtGetReservation
}

func GetPreparedGetReservationItem() *gocql.Query {
	return stmtGetReservationItem
}
