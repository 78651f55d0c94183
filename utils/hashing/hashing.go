// Copyright (C) 2024-2026, Marlin Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package hashing

import "crypto/sha256"

// HashLen is the length of a sha256 hash in bytes
const HashLen = sha256.Size

// ComputeHash256 returns the sha256 hash of buf
func ComputeHash256(buf []byte) []byte {
	hash := sha256.Sum256(buf)
	return hash[:]
}

// Checksum creates a checksum of [length] bytes from the sha256 hash of
// the byte slice
func Checksum(bytes []byte, length int) []byte {
	hash := ComputeHash256(bytes)
	return hash[len(hash)-length:]
}
