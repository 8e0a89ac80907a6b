package bazaartest

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/iov-one/bazaar"
)

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) bazaar.Address {
	raw := make([]byte, bazaar.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := bazaar.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not valid: %s", err)
	}
	return a
}

// DecodeAddr takes a hex encoded address string and returns it's raw
// representation as an address. This function ensures that returned value
// is a valid address.
func DecodeAddr(t testing.TB, encoded string) bazaar.Address {
	t.Helper()
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		t.Fatalf("cannot decode hex string: %s", err)
	}
	a := bazaar.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("decoded string is not a valid address: %s", err)
	}
	return a
}
