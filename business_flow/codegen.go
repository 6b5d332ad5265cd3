package businessflow

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"

	"github.com/amirphl/Kusanagi/utils"
)

// GenerateShortCode produces a random base-36 token and takes a six
// character slice starting from its third character. The namespace is small
// and collision-prone; callers retry on a store unique-violation rather than
// checking for collisions up front.
func GenerateShortCode() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}

	s := strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 36)
	for len(s) < utils.ShortCodeLength+2 {
		s = "0" + s
	}

	return s[2 : 2+utils.ShortCodeLength], nil
}
