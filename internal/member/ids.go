package member

import "crypto/rand"

// Confusable characters O/0/1/I are excluded. The alphabet length divides
// 256, so a plain modulo keeps the draw uniform.
const idAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const idPrefix = "PA-"

// GenerateID returns a fresh human-readable member id like PA-7XK2QD.
func GenerateID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	out := make([]byte, 0, len(idPrefix)+len(buf))
	out = append(out, idPrefix...)
	for _, b := range buf {
		out = append(out, idAlphabet[int(b)%len(idAlphabet)])
	}
	return string(out)
}
