package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"puzzelle_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	calls int
	err   error
	to    string
	name  string
}

func (f *fakeSender) send(to, puzzleName string) error {
	// La validation locale précède toute tentative de livraison,
	// comme dans utils.SendReservationEmail
	if err := utils.ValidateRecipient(to); err != nil {
		return err
	}
	f.calls++
	f.to = to
	f.name = puzzleName
	return f.err
}

func newNotifyRouter(sender *fakeSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Any("/api/notify", Notify(sender.send))
	return r
}

func doNotify(t *testing.T, r *gin.Engine, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/api/notify", nil)
	} else {
		req = httptest.NewRequest(method, "/api/notify", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNotifyPreflight(t *testing.T) {
	sender := &fakeSender{}
	r := newNotifyRouter(sender)

	w := doNotify(t, r, http.MethodOptions, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Zero(t, sender.calls)
}

func TestNotifyMethodeNonAutorisee(t *testing.T) {
	sender := &fakeSender{}
	r := newNotifyRouter(sender)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := doNotify(t, r, method, "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "méthode %s", method)
		assert.Contains(t, w.Body.String(), "Method Not Allowed")
		// Les en-têtes CORS sont présents sur toutes les réponses
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	}
	assert.Zero(t, sender.calls)
}

func TestNotifyCorpsInvalide(t *testing.T) {
	sender := &fakeSender{}
	r := newNotifyRouter(sender)

	// JSON malformé
	w := doNotify(t, r, http.MethodPost, "{pas du json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")

	// Champs manquants
	w = doNotify(t, r, http.MethodPost, `{"to": "jan@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, sender.calls)
}

func TestNotifyDestinataireInvalide(t *testing.T) {
	sender := &fakeSender{}
	r := newNotifyRouter(sender)

	w := doNotify(t, r, http.MethodPost, `{"to": "not-an-email", "puzzleName": "Nuit étoilée"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Destinataire invalide")
	assert.Zero(t, sender.calls, "le fournisseur ne doit jamais être contacté")
}

func TestNotifySucces(t *testing.T) {
	sender := &fakeSender{}
	r := newNotifyRouter(sender)

	w := doNotify(t, r, http.MethodPost, `{"to": "jan@example.com", "puzzleName": "Nuit étoilée"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "jan@example.com", sender.to)
	assert.Equal(t, "Nuit étoilée", sender.name)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotifyEchecFournisseur(t *testing.T) {
	sender := &fakeSender{err: errors.New("connexion SMTP refusée")}
	r := newNotifyRouter(sender)

	w := doNotify(t, r, http.MethodPost, `{"to": "jan@example.com", "puzzleName": "Nuit étoilée"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Échec d'envoi")
	assert.Equal(t, 1, sender.calls)
}
