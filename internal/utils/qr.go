package utils

import (
	"github.com/skip2/go-qrcode"
)

// GenerateWishlistQR génère le QR code PNG de l'URL publique de la
// wishlist, à imprimer ou partager quand la wishlist est publique.
func GenerateWishlistQR(publicURL string) ([]byte, error) {
	return qrcode.Encode(publicURL, qrcode.Medium, 256)
}
