package utils

import (
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// IsHex reports whether every character of s is an ASCII hex digit.
// Case-insensitive; the empty string is hex.
func IsHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// HexToBytes converts hex string to bytes with validation
func HexToBytes(hexStr string) ([]byte, error) {
	if len(hexStr)%2 != 0 {
		return nil, errors.New("invalid hex string: odd length")
	}
	return hex.DecodeString(hexStr)
}

// Blake2b256 computes the 32-byte blake2b digest used for datum hashes
func Blake2b256(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// Blake2b256Hex hashes data and returns the lowercase hex digest
func Blake2b256Hex(data []byte) string {
	return hex.EncodeToString(Blake2b256(data))
}
