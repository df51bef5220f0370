package pkg

import (
	"crypto/rand"
	"encoding/base64"
)

const sessionIDBytes = 12

// GenerateSessionID - returns a random URL-safe id used to tag the logs of one game.
func GenerateSessionID() string {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "unknown-session"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
