package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// GenerateSerial returns a human-readable work order serial of the form
// WO-XXXXXXXX (8 uppercase hex characters). The random source is not
// collision-proof; the database uniqueness constraint is the actual
// guarantee and callers retry on conflict.
func GenerateSerial() string {
	u := uuid.New()
	return "WO-" + strings.ToUpper(hex.EncodeToString(u[:4]))
}

// RandomInt32 generates a random 32-bit integer from crypto/rand
func RandomInt32() int32 {
	var num int32
	err := binary.Read(rand.Reader, binary.BigEndian, &num)
	if err != nil {
		panic("generate random int32 failed")
	}

	return num
}
