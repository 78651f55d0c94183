// Copyright (C) 2024-2026, Marlin Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mr-tron/base58/base58"

	"github.com/marlinprotocol/oyster-selection/utils/hashing"
)

const (
	// ShortIDLen is the number of bytes in a participant identifier
	ShortIDLen = 20

	checksumLen = 4
)

var (
	// ShortEmpty is a useful all zero value
	ShortEmpty = ShortID{}

	errWrongIDLen      = errors.New("wrong ShortID length")
	errMissingChecksum = errors.New("input string is smaller than the checksum size")
	errBadChecksum     = errors.New("invalid input checksum")
)

// ShortID wraps a 20 byte hash used as an identifier
type ShortID [ShortIDLen]byte

// ToShortID attempts to convert a byte slice into an id
func ToShortID(b []byte) (ShortID, error) {
	if len(b) != ShortIDLen {
		return ShortID{}, fmt.Errorf("%w: expected %d bytes but got %d", errWrongIDLen, ShortIDLen, len(b))
	}
	var id ShortID
	copy(id[:], b)
	return id, nil
}

// ShortFromString is the inverse of ShortID.String()
func ShortFromString(idStr string) (ShortID, error) {
	decoded, err := base58.Decode(idStr)
	if err != nil {
		return ShortID{}, err
	}
	if len(decoded) < checksumLen {
		return ShortID{}, errMissingChecksum
	}
	rawBytes := decoded[:len(decoded)-checksumLen]
	checksum := decoded[len(decoded)-checksumLen:]
	if !bytes.Equal(checksum, hashing.Checksum(rawBytes, checksumLen)) {
		return ShortID{}, errBadChecksum
	}
	return ToShortID(rawBytes)
}

// Bytes returns the 20 byte hash as a slice. It is assumed this slice
// is not modified.
func (id ShortID) Bytes() []byte {
	return id[:]
}

// Hex returns a hex encoded string of this id
func (id ShortID) Hex() string {
	return hex.EncodeToString(id[:])
}

// String returns the checksummed base58 encoding of this id
func (id ShortID) String() string {
	checked := make([]byte, ShortIDLen+checksumLen)
	copy(checked, id[:])
	copy(checked[ShortIDLen:], hashing.Checksum(id[:], checksumLen))
	return base58.Encode(checked)
}

// PrefixedString returns the String representation with a prefix added
func (id ShortID) PrefixedString(prefix string) string {
	return prefix + id.String()
}

// GenerateTestShortID returns a new ID that should only be used for
// testing
func GenerateTestShortID() ShortID {
	var id ShortID
	// rand.Read never errors for crypto/rand
	_, _ = rand.Read(id[:])
	return id
}
