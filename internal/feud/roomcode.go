package feud

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// NewRoomCode returns a 6-digit numeric room code. Codes are assumed
// unique enough for casual same-room play; there is no collision
// detection.
func NewRoomCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10)
}
