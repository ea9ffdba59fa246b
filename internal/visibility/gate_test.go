package visibility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	visible bool
	err     error
	reads   int
}

func (f *fakeReader) PublicWishlist(context.Context) (bool, error) {
	f.reads++
	return f.visible, f.err
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()

	t.Run("le propriétaire passe toujours, même wishlist privée", func(t *testing.T) {
		gate := NewGate(&fakeReader{visible: false}, DefaultTTL)

		d := gate.Authorize(ctx, Caller{IsOwner: true, Path: "/wishlist"})
		assert.True(t, d.Allow)
		assert.Empty(t, d.RedirectTo)
	})

	t.Run("anonyme refusé quand privée, chemin d'origine conservé", func(t *testing.T) {
		gate := NewGate(&fakeReader{visible: false}, DefaultTTL)

		d := gate.Authorize(ctx, Caller{IsOwner: false, Path: "/wishlist"})
		assert.False(t, d.Allow)
		assert.Equal(t, "/login?next=%2Fwishlist", d.RedirectTo)

		// Tout chemin anonyme est refusé, pas seulement /wishlist
		d = gate.Authorize(ctx, Caller{IsOwner: false, Path: "/wishlist/share/qr"})
		assert.False(t, d.Allow)
		assert.Equal(t, "/login?next=%2Fwishlist%2Fshare%2Fqr", d.RedirectTo)
	})

	t.Run("anonyme accepté quand publique", func(t *testing.T) {
		gate := NewGate(&fakeReader{visible: true}, DefaultTTL)

		d := gate.Authorize(ctx, Caller{IsOwner: false, Path: "/wishlist"})
		assert.True(t, d.Allow)
	})

	t.Run("erreur de lecture ferme l'accès", func(t *testing.T) {
		gate := NewGate(&fakeReader{err: errors.New("connexion perdue")}, DefaultTTL)

		d := gate.Authorize(ctx, Caller{IsOwner: false, Path: "/wishlist"})
		assert.False(t, d.Allow)
		assert.Contains(t, d.RedirectTo, LoginPath)
	})
}

func TestIsPubliclyVisibleCache(t *testing.T) {
	ctx := context.Background()

	t.Run("une seule lecture pendant le TTL", func(t *testing.T) {
		reader := &fakeReader{visible: true}
		gate := NewGate(reader, time.Minute)

		for i := 0; i < 5; i++ {
			visible, err := gate.IsPubliclyVisible(ctx)
			require.NoError(t, err)
			assert.True(t, visible)
		}
		assert.Equal(t, 1, reader.reads)
	})

	t.Run("relecture après expiration du TTL", func(t *testing.T) {
		reader := &fakeReader{visible: true}
		gate := NewGate(reader, time.Minute)

		current := time.Now()
		gate.now = func() time.Time { return current }

		_, err := gate.IsPubliclyVisible(ctx)
		require.NoError(t, err)

		current = current.Add(2 * time.Minute)

		reader.visible = false
		visible, err := gate.IsPubliclyVisible(ctx)
		require.NoError(t, err)
		assert.False(t, visible)
		assert.Equal(t, 2, reader.reads)
	})

	t.Run("Invalidate force la relecture après bascule", func(t *testing.T) {
		reader := &fakeReader{visible: false}
		gate := NewGate(reader, time.Hour)

		visible, err := gate.IsPubliclyVisible(ctx)
		require.NoError(t, err)
		assert.False(t, visible)

		// Le propriétaire rend la wishlist publique
		reader.visible = true
		gate.Invalidate()

		visible, err = gate.IsPubliclyVisible(ctx)
		require.NoError(t, err)
		assert.True(t, visible)
	})

	t.Run("une erreur n'est pas mise en cache", func(t *testing.T) {
		reader := &fakeReader{err: errors.New("timeout")}
		gate := NewGate(reader, time.Minute)

		_, err := gate.IsPubliclyVisible(ctx)
		require.Error(t, err)

		reader.err = nil
		reader.visible = true
		visible, err := gate.IsPubliclyVisible(ctx)
		require.NoError(t, err)
		assert.True(t, visible)
	})
}
