package id

import (
	"crypto/rand"
)

const (
	// TransactionIDLength is the fixed length of a loan transaction identifier.
	TransactionIDLength = 20

	alphanum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewTransactionID returns a fixed-length uppercase alphanumeric token used as
// the public business key of a loan application. Collisions are left to the
// store's unique constraint.
func NewTransactionID() string {
	b := make([]byte, TransactionIDLength)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = alphanum[int(b[i])%len(alphanum)]
	}
	return string(b)
}
