package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRecipient(t *testing.T) {
	valid := []string{
		"jan@example.com",
		"jan.novak@mail.example.fr",
		"a@b",
		"prenom+tag@domaine.org",
	}
	for _, addr := range valid {
		assert.NoError(t, ValidateRecipient(addr), "devrait accepter %q", addr)
	}

	invalid := []string{
		"not-an-email",
		"",
		"@domaine.fr",
		"jan@",
		"jan novak@example.com",
		"jan@exam ple.com",
		"jan@@example.com",
	}
	for _, addr := range invalid {
		assert.ErrorIs(t, ValidateRecipient(addr), ErrInvalidRecipient, "devrait rejeter %q", addr)
	}
}

func TestSendReservationEmailRejetteSansContacterSMTP(t *testing.T) {
	// Aucun SMTP_HOST configuré : si la validation ne coupait pas court,
	// l'appel échouerait avec une autre erreur que ErrInvalidRecipient
	t.Setenv("SMTP_HOST", "")

	err := SendReservationEmail("not-an-email", "Nuit étoilée")
	assert.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestGenerateReservationHTML(t *testing.T) {
	html := GenerateReservationHTML("Nuit étoilée")
	assert.True(t, strings.Contains(html, "Nuit étoilée"))
	assert.True(t, strings.Contains(html, "réservé"))
}
