package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

const (
	trackingPrefix   = "OCT"
	trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingSuffix   = 4
)

// TrackingNumberGenerator produces "OCT" + last 8 digits of the millisecond clock + 4 random [A-Z0-9].
// It does not consult the store; the unique index is what guarantees uniqueness.
type TrackingNumberGenerator struct {
	now    func() time.Time
	random io.Reader
}

// NewTrackingNumberGenerator returns a generator backed by the wall clock and crypto/rand.
func NewTrackingNumberGenerator() *TrackingNumberGenerator {
	return &TrackingNumberGenerator{now: time.Now, random: rand.Reader}
}

// NewTrackingNumberGeneratorWith lets callers pin the clock and entropy source.
func NewTrackingNumberGeneratorWith(now func() time.Time, random io.Reader) *TrackingNumberGenerator {
	return &TrackingNumberGenerator{now: now, random: random}
}

// Generate returns a fresh tracking number.
func (g *TrackingNumberGenerator) Generate() (string, error) {
	millis := fmt.Sprintf("%08d", g.now().UnixMilli())
	digits := millis[len(millis)-8:]

	suffix := make([]byte, trackingSuffix)
	limit := big.NewInt(int64(len(trackingAlphabet)))
	for i := range suffix {
		n, err := rand.Int(g.random, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read randomness: %w", err)
		}
		suffix[i] = trackingAlphabet[n.Int64()]
	}

	return trackingPrefix + digits + string(suffix), nil
}

// IsTrackingNumber reports whether v has the generator's shape.
func IsTrackingNumber(v string) bool {
	if len(v) != len(trackingPrefix)+8+trackingSuffix || v[:3] != trackingPrefix {
		return false
	}
	for i := 3; i < 11; i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	for i := 11; i < len(v); i++ {
		c := v[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
