// Package gitlib reads commit history, diff stats and blame data through
// libgit2 and exposes them as the raw text streams the analyzers parse.
package gitlib

import (
	"encoding/hex"

	git2go "github.com/libgit2/git2go/v34"
)

// Hash sizes.
const (
	// HashSize is the size of a SHA-1 hash in bytes.
	HashSize = 20
	// ShortHashLength matches git's default abbreviation.
	ShortHashLength = 7
)

// Hash is a git object id.
type Hash [HashSize]byte

// HashFromOid converts a libgit2 Oid to Hash.
func HashFromOid(oid *git2go.Oid) Hash {
	var h Hash
	if oid != nil {
		copy(h[:], oid[:])
	}

	return h
}

// String returns the full hex form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the abbreviated hex form.
func (h Hash) Short() string {
	return h.String()[:ShortHashLength]
}

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}
