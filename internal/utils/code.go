package utils

import (
	"crypto/rand"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// CodeAlphabet is the character set of reservation codes.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the length of a reservation code.
const CodeLength = 6

// GenerateReservationCode builds a 6 character code: the last three
// characters of the millisecond timestamp in upper-case base 36 followed by
// three random characters from CodeAlphabet read from src (crypto/rand when
// nil).  Codes are practically but not strictly unique; callers check the
// store before accepting one.
func GenerateReservationCode(now time.Time, src io.Reader) (string, error) {
	if src == nil {
		src = rand.Reader
	}
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	if len(stamp) > 3 {
		stamp = stamp[len(stamp)-3:]
	}
	for len(stamp) < 3 {
		stamp = "0" + stamp
	}

	var b strings.Builder
	b.Grow(CodeLength)
	b.WriteString(stamp)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := 0; i < CodeLength-3; i++ {
		n, err := rand.Int(src, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(CodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// ValidCode reports whether s looks like a reservation code.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(CodeAlphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
