// Package refid generates the public reference identifiers that correlate a
// submission, its database record, and its PDF report file.
package refid

import (
	"crypto/rand"
	"math/big"
)

// Alphabet is the character set reference IDs are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the fixed length of every reference ID.
const Length = 20

var alphabetLen = big.NewInt(int64(len(Alphabet)))

// New returns a fresh reference ID: Length characters drawn uniformly and
// independently from Alphabet using a cryptographically secure source.
// Uniqueness against existing records is not guaranteed here; the database
// unique constraint on ref_id is the backstop.
//
// Like uuid.NewString, New panics if the system random source fails.
func New() string {
	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			panic("refid: crypto/rand unavailable: " + err.Error())
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b)
}
