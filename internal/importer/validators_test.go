package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumericString(t *testing.T) {
	assert.Empty(t, NumericString("12345"))
	assert.Empty(t, NumericString("7"))
	assert.Equal(t, "must contain digits only", NumericString("12a45"))
	assert.Equal(t, "must contain digits only", NumericString("12 45"))
	assert.Equal(t, "must contain digits only", NumericString("-5"))
}

func TestExactDigits(t *testing.T) {
	check := ExactDigits(10)

	assert.Empty(t, check("9876543210"))
	assert.Equal(t, "must be exactly 10 digits", check("987654321"))
	assert.Equal(t, "must be exactly 10 digits", check("98765432101"))
	assert.Equal(t, "must be exactly 10 digits", check("987654321a"))
}

func TestEmailFormat(t *testing.T) {
	assert.Empty(t, EmailFormat("jane.doe@school.edu"))
	assert.Empty(t, EmailFormat("a@b.co"))

	msg := "must be a valid email address"
	assert.Equal(t, msg, EmailFormat("not-an-email"))
	assert.Equal(t, msg, EmailFormat("jane@school"))
	assert.Equal(t, msg, EmailFormat("jane doe@school.edu"))
	assert.Equal(t, msg, EmailFormat("@school.edu"))
}

func TestEnumMember(t *testing.T) {
	check := EnumMember("A", "B", "C")

	assert.Empty(t, check("A"))
	assert.Empty(t, check("b"), "comparison is case-insensitive")
	assert.Equal(t, "must be one of: A, B, C", check("D"))
}

func TestNonEmptyCommaList(t *testing.T) {
	assert.Empty(t, NonEmptyCommaList("Math"))
	assert.Empty(t, NonEmptyCommaList("Math, Physics"))
	assert.Empty(t, NonEmptyCommaList(",, Chemistry"))
	assert.Equal(t, "must contain at least one value", NonEmptyCommaList(", ,"))
}
