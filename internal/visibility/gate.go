package visibility

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// DefaultTTL couvre la durée d'une consultation : on évite une relecture
// des réglages à chaque navigation sans jamais servir un état vieux de
// plus d'une minute.
const DefaultTTL = time.Minute

// LoginPath est la cible de redirection des anonymes refusés
const LoginPath = "/login"

// SettingsReader expose le drapeau public_wishlist des réglages
type SettingsReader interface {
	PublicWishlist(ctx context.Context) (bool, error)
}

// Caller décrit l'appelant d'une requête wishlist
type Caller struct {
	IsOwner bool
	Path    string
}

// Decision est le verdict du gate : accès accordé, ou redirection vers la
// page de connexion en conservant le chemin demandé.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Gate décide si un appelant anonyme peut voir la wishlist. Lecture pure,
// aucun effet de bord au-delà du cache.
type Gate struct {
	reader SettingsReader
	ttl    time.Duration

	mu        sync.Mutex
	cached    bool
	fetchedAt time.Time

	now func() time.Time // remplacé dans les tests
}

func NewGate(reader SettingsReader, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gate{reader: reader, ttl: ttl, now: time.Now}
}

// IsPubliclyVisible lit public_wishlist, avec cache court. Une erreur de
// lecture ferme l'accès : on ne suppose jamais la visibilité en cas de
// doute.
func (g *Gate) IsPubliclyVisible(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.fetchedAt.IsZero() && g.now().Sub(g.fetchedAt) < g.ttl {
		return g.cached, nil
	}

	visible, err := g.reader.PublicWishlist(ctx)
	if err != nil {
		return false, err
	}

	g.cached = visible
	g.fetchedAt = g.now()
	return visible, nil
}

// Invalidate force une relecture au prochain accès. Appelé quand le
// propriétaire bascule le réglage.
func (g *Gate) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchedAt = time.Time{}
}

// Authorize accorde toujours l'accès au propriétaire ; un anonyme ne
// passe que si la wishlist est publique, sinon il est redirigé vers la
// connexion avec le chemin d'origine en paramètre next.
func (g *Gate) Authorize(ctx context.Context, caller Caller) Decision {
	if caller.IsOwner {
		return Decision{Allow: true}
	}

	visible, err := g.IsPubliclyVisible(ctx)
	if err != nil || !visible {
		return Decision{
			Allow:      false,
			RedirectTo: LoginPath + "?next=" + url.QueryEscape(caller.Path),
		}
	}

	return Decision{Allow: true}
}
