// Package hashing computes hashes of typewise values that agree with typewise equality:
// two values that compare Equal always hash to the same digest.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"

	"github.com/OneOfOne/xxhash"
	"github.com/zeebo/xxh3"
)

// HashFunc is a function that takes a Hashable object
// and returns a string representation of its hashing.
// Sha256, Xxh3 and XXH64 are HashFuncs.
type HashFunc func(hashable Hashable) (string, error)

// Hashable is an interface that allows an object to update
// a hash.Hash with its contents.
type Hashable interface {
	UpdateHash(h hash.Hash) error
}

// Sha256 returns the hex-encoded SHA-256 digest of the given Hashable.
func Sha256(hashable Hashable) (string, error) {
	return digest(sha256.New(), hashable)
}

// Xxh3 returns the hex-encoded 64-bit XXH3 digest of the given Hashable.
// It is the fastest choice for in-memory bucketing.
func Xxh3(hashable Hashable) (string, error) {
	return digest(xxh3.New(), hashable)
}

// XXH64 returns the hex-encoded XXH64 digest of the given Hashable.
func XXH64(hashable Hashable) (string, error) {
	return digest(xxhash.New64(), hashable)
}

func digest(h hash.Hash, hashable Hashable) (string, error) {
	if err := hashable.UpdateHash(h); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sum64 hashes v with XXH3 and returns the raw 64-bit digest.
func Sum64(v any) (uint64, error) {
	h := xxh3.New()

	if err := (Value{V: v}).UpdateHash(h); err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}
