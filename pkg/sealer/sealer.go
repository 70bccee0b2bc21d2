// Package sealer issues opaque manage tokens. A token seals
// (restaurantID, reservationID) with AES-GCM so a guest can modify or cancel
// a reservation from a confirmation link without an account, and without
// exposing raw document IDs.
package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	EnvManageTokenKey = "MANAGE_TOKEN_KEY"

	// Development fallback only; production deployments set MANAGE_TOKEN_KEY.
	devKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="
)

func keyBytes() ([]byte, error) {
	encoded := os.Getenv(EnvManageTokenKey)
	if encoded == "" {
		encoded = devKey
	}
	return base64.StdEncoding.DecodeString(encoded)
}

func CreateManageToken(restaurantID, reservationID string) (string, error) {
	plaintext := []byte(restaurantID + ":" + reservationID)

	key, err := keyBytes()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

func ParseManageToken(token string) (restaurantID, reservationID string, err error) {
	key, err := keyBytes()
	if err != nil {
		return "", "", err
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", err
	}

	nonceSize := aesgcm.NonceSize()
	if len(data) < nonceSize {
		return "", "", fmt.Errorf("token too short")
	}
	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", err
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid token format")
	}

	return parts[0], parts[1], nil
}
