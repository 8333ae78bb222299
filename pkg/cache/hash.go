package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnhashable is returned by keyers when an input has no JSON encoding,
// for example a NaN or infinite float. Such inputs must not be cached.
var ErrUnhashable = errors.New("input cannot be hashed")

// hashKey builds "prefix:sha256(json(parts))". JSON encodes map keys in
// sorted order, so equal inputs always give equal keys.
func hashKey(prefix string, parts ...any) (string, error) {
	sum, err := HashValue(parts)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", prefix, sum), nil
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashValue hashes the JSON encoding of v.
func HashValue(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnhashable, err)
	}
	return Hash(data), nil
}
