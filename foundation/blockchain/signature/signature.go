// Package signature provides helper functions for handling the blockchain
// hashing needs.
package signature

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash is returned when a value can't be marshaled. The 0x prefix makes
// it 66 characters long, so it never has the shape of a real digest and
// can't solve a proof of work.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Hash returns a unique string for the value. The digest is the SHA-256 of
// the JSON encoding of the value, as 64 lowercase hex characters.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// Canonical encodes the value into a JSON document that is the same for any
// two logically equal values. Object keys are sorted and numbers keep their
// literal form, so a struct and a map holding the same fields produce the
// same bytes.
func Canonical(value any) (json.RawMessage, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return Normalize(data)
}

// Normalize re-encodes an already marshaled JSON document into its
// canonical form.
func Normalize(data []byte) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after the JSON value")
	}

	// encoding/json writes map keys in sorted order.
	out, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return out, nil
}
