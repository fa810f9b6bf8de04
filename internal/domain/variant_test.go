package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(v string) *string { return &v }

func TestNewVariant_FoldsAbsentAndBlank(t *testing.T) {
	assert.Equal(t, NewVariant(nil, nil), NewVariant(strPtr(""), strPtr("  ")))
	assert.Equal(t, Variant{Color: "red"}, NewVariant(strPtr(" red "), nil))
	assert.NotEqual(t, NewVariant(strPtr("red"), nil), NewVariant(strPtr("blue"), nil))
}

func TestVariantPointers(t *testing.T) {
	v := NewVariant(strPtr("red"), nil)
	if assert.NotNil(t, v.ColorPtr()) {
		assert.Equal(t, "red", *v.ColorPtr())
	}
	assert.Nil(t, v.SizePtr())
}

func TestVariantValidate(t *testing.T) {
	assert.NoError(t, NewVariant(strPtr(strings.Repeat("é", MaxColorLen)), strPtr(strings.Repeat("x", MaxSizeLen))).Validate())
	assert.ErrorIs(t, NewVariant(strPtr(strings.Repeat("r", MaxColorLen+1)), nil).Validate(), ErrInvalidInput)
	assert.ErrorIs(t, NewVariant(nil, strPtr(strings.Repeat("x", MaxSizeLen+1))).Validate(), ErrInvalidInput)
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, ValidateQuantity(1))
	assert.NoError(t, ValidateQuantity(MaxItemQuantity))
	for _, q := range []int{0, -1, MaxItemQuantity + 1} {
		assert.ErrorIs(t, ValidateQuantity(q), ErrInvalidInput, q)
	}
}
