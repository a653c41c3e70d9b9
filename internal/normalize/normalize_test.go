package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress_Empty(t *testing.T) {
	assert.Equal(t, "", Address(""))
	assert.Equal(t, "", Address("   "))
	assert.Equal(t, "", Address(",,."))
}

func TestAddress_Uppercase(t *testing.T) {
	assert.Equal(t, "123 MAIN", Address("123 main"))
}

func TestAddress_StreetSuffix(t *testing.T) {
	assert.Equal(t, "123 MAIN ST", Address("123 Main Street"))
	assert.Equal(t, "456 OAK AVE", Address("456 Oak Avenue"))
	assert.Equal(t, "456 OAK AVE", Address("456 Oak Av"))
	assert.Equal(t, "789 ELM BLVD", Address("789 Elm Boulevard"))
	assert.Equal(t, "12 RIV XING", Address("12 River Crossing"))
}

func TestAddress_Directionals(t *testing.T) {
	assert.Equal(t, "123 N MAIN ST", Address("123 North Main Street"))
	assert.Equal(t, "50 SW LOOP", Address("50 Southwest Loop"))
}

func TestAddress_CompoundDirectionalPeriods(t *testing.T) {
	assert.Equal(t, "456 SW OAK AVE 201", Address("456 S.W. Oak Avenue #201"))
	assert.Equal(t, "10 NE ELM DR", Address("10 N.E. Elm Drive"))
}

func TestAddress_UnitDesignators(t *testing.T) {
	assert.Equal(t, "123 N MAIN ST APT 4B", Address("123 North Main Street, Apt. 4B"))
	assert.Equal(t, "100 SE BLVD STE 200", Address("100 Southeast Boulevard, Suite 200"))
}

func TestAddress_OrdinalNumbers(t *testing.T) {
	assert.Equal(t, "789 E 1 AVE", Address("789 East 1st Ave"))
	assert.Equal(t, "22 W 2 ST", Address("22 West 2nd Street"))
	assert.Equal(t, "5 3 AVE", Address("5 3rd Avenue"))
	assert.Equal(t, "1 101 ST", Address("1 101st Street"))
}

func TestAddress_HashSymbol(t *testing.T) {
	assert.Equal(t, "456 OAK AVE 201", Address("456 Oak Avenue #201"))
}

func TestAddress_Quotes(t *testing.T) {
	assert.Equal(t, "12 OBRIEN LN", Address("12 O'Brien Lane"))
}

func TestAddress_CollapseWhitespace(t *testing.T) {
	assert.Equal(t, "123 MAIN ST", Address("  123   Main    Street "))
}

func TestAddress_Idempotent(t *testing.T) {
	inputs := []string{
		"123 North Main Street, Apt. 4B",
		"456 S.W. Oak Avenue #201",
		"789 East 1st Ave",
		"1000 West Highway 290",
		"100 Southeast Boulevard, Suite 200",
		"County Road 12",
	}
	for _, in := range inputs {
		once := Address(in)
		assert.Equal(t, once, Address(once), "not idempotent for %q", in)
	}
}

func TestAddress_EquivalentFormsConverge(t *testing.T) {
	// Differing raw formatting of the same location must normalize
	// identically; this is what makes the address hash a dedup key.
	a := Address("123 N. Main St")
	b := Address("123 North Main Street")
	assert.Equal(t, a, b)
	assert.Equal(t, "123 N MAIN ST", a)
}
