package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/wneessen/go-mail"
)

// ErrInvalidRecipient : l'adresse ne ressemble pas à local@domaine.
// Le rejet est local, sans jamais contacter le serveur SMTP.
var ErrInvalidRecipient = errors.New("adresse e-mail invalide")

// Forme minimale local@domaine, sans espace. La délivrabilité réelle
// reste l'affaire du serveur SMTP.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)

// ValidateRecipient vérifie la forme syntaxique d'une adresse
func ValidateRecipient(to string) error {
	if !emailPattern.MatchString(to) {
		return ErrInvalidRecipient
	}
	return nil
}

// SendReservationEmail envoie la confirmation de réservation d'un puzzle.
// L'appelant décide de l'isolement : un échec ici ne doit jamais remettre
// en cause la réservation déjà écrite.
func SendReservationEmail(to, puzzleName string) error {
	if err := ValidateRecipient(to); err != nil {
		return err
	}

	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@puzzelle.fr"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("🧩 Un puzzle de votre wishlist a été réservé")
	msg.SetBodyString(mail.TypeTextHTML, GenerateReservationHTML(puzzleName))

	client, err := newMailClient()
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail de réservation à", to)
	return client.DialAndSend(msg)
}

func newMailClient() (*mail.Client, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, errors.New("SMTP_HOST non configuré")
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	return mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(10*time.Second),
	)
}

// GenerateReservationHTML génère le corps HTML de l'e-mail de réservation
func GenerateReservationHTML(puzzleName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Puzzle réservé</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">🧩 Bonne nouvelle !</h2>
		<p>Quelqu'un vient de réserver un puzzle de votre wishlist :</p>
		<p style="font-size: 18px; font-weight: bold; color: #4a5fc1;">%s</p>
		<p>L'article reste visible dans votre wishlist, marqué comme réservé.
		Vous pouvez annuler la réservation à tout moment depuis vos réglages.</p>

		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>Puzzelle</strong>
		</p>
	</div>
</body>
</html>`, puzzleName)
}
