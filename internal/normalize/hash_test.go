package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressHash_EmptyAddress(t *testing.T) {
	assert.Equal(t, "", AddressHash("", "TRAVIS", "TX"))
}

func TestAddressHash_Deterministic(t *testing.T) {
	a := AddressHash("123 N MAIN ST", "TRAVIS", "TX")
	b := AddressHash("123 N MAIN ST", "TRAVIS", "TX")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestAddressHash_ChangesWithAnyComponent(t *testing.T) {
	base := AddressHash("123 N MAIN ST", "TRAVIS", "TX")
	assert.NotEqual(t, base, AddressHash("124 N MAIN ST", "TRAVIS", "TX"))
	assert.NotEqual(t, base, AddressHash("123 N MAIN ST", "WILLIAMSON", "TX"))
	assert.NotEqual(t, base, AddressHash("123 N MAIN ST", "TRAVIS", "FL"))
}

func TestAddressHash_CaseInsensitiveCountyState(t *testing.T) {
	assert.Equal(t,
		AddressHash("123 N MAIN ST", "travis", "tx"),
		AddressHash("123 N MAIN ST", "TRAVIS", "TX"),
	)
}

func TestAddressHash_MissingCountyAndState(t *testing.T) {
	h := AddressHash("123 N MAIN ST", "", "")
	assert.Len(t, h, 64)
	assert.NotEqual(t, h, AddressHash("123 N MAIN ST", "TRAVIS", ""))
}

func TestAddressHash_EquivalentRawAddresses(t *testing.T) {
	h1 := AddressHash(Address("123 N. Main St"), County("Travis County"), State("Texas"))
	h2 := AddressHash(Address("123 North Main Street"), County("Travis"), State("TX"))
	assert.Equal(t, h1, h2)
}
