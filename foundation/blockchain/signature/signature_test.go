package signature_test

import (
	"math"
	"strings"
	"testing"

	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/signature"
)

// =============================================================================

func Test_Hash(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}
	hash := "0f6887ac85101d6d6425a617edf35bd721b5f619fb92c36c3d2224e3bdb0ee5a"

	h := signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the right hash: %s", h[:6])
	}

	h = signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the same hash twice.")
	}

	if len(h) != 64 {
		t.Fatalf("Should get back 64 hex characters, got %d.", len(h))
	}
}

func Test_HashUnmarshalable(t *testing.T) {
	h := signature.Hash(math.NaN())
	if h != signature.ZeroHash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", signature.ZeroHash)
		t.Fatalf("Should get back the zero hash for a value that can't be marshaled.")
	}

	if len(h) == 64 || !strings.HasPrefix(h, "0x") {
		t.Fatalf("Should not get back something shaped like a digest: %s", h)
	}
}

func Test_Canonical(t *testing.T) {
	type record struct {
		B string `json:"b"`
		A int    `json:"a"`
	}

	fromStruct, err := signature.Canonical(record{A: 1, B: "x"})
	if err != nil {
		t.Fatalf("Should be able to encode a struct: %s", err)
	}

	fromMap, err := signature.Canonical(map[string]any{"b": "x", "a": 1})
	if err != nil {
		t.Fatalf("Should be able to encode a map: %s", err)
	}

	const exp = `{"a":1,"b":"x"}`
	if string(fromStruct) != exp {
		t.Logf("got: %s", fromStruct)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should sort the struct fields by key.")
	}

	if string(fromStruct) != string(fromMap) {
		t.Logf("got: %s", fromMap)
		t.Logf("exp: %s", fromStruct)
		t.Fatalf("Should encode a struct and a map with the same content the same way.")
	}

	if h := signature.Hash(fromStruct); h != "ecf9e98ec0641e23113ff3ce8bdc78d0ddd249886517fd4a7f68cc83d4e65667" {
		t.Fatalf("Should hash the canonical bytes verbatim, got %s.", h)
	}
}

func Test_CanonicalNumbers(t *testing.T) {
	data, err := signature.Normalize([]byte(`{ "big": 12345678901234567890, "f": 1.50 }`))
	if err != nil {
		t.Fatalf("Should be able to normalize the document: %s", err)
	}

	const exp = `{"big":12345678901234567890,"f":1.50}`
	if string(data) != exp {
		t.Logf("got: %s", data)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should keep the literal form of numbers.")
	}
}

func Test_CanonicalErrors(t *testing.T) {
	if _, err := signature.Canonical(make(chan int)); err == nil {
		t.Fatalf("Should not be able to encode a channel.")
	}

	if _, err := signature.Canonical(math.Inf(1)); err == nil {
		t.Fatalf("Should not be able to encode an infinite number.")
	}

	if _, err := signature.Normalize([]byte(`{"a":`)); err == nil {
		t.Fatalf("Should not be able to normalize broken JSON.")
	}
}
