package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Column widths of order_items.color and order_items.size.
const (
	MaxColorLen = 50
	MaxSizeLen  = 20
)

// Variant is the (color, size) discriminator of a line item. The empty string
// means "no variant" for either field; NewVariant is the only place absent and
// blank values are folded together.
type Variant struct {
	Color string
	Size  string
}

func NewVariant(color, size *string) Variant {
	return Variant{Color: normalizeVariantPart(color), Size: normalizeVariantPart(size)}
}

func normalizeVariantPart(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func (v Variant) Validate() error {
	if utf8.RuneCountInString(v.Color) > MaxColorLen {
		return fmt.Errorf("%w: color must be at most %d characters", ErrInvalidInput, MaxColorLen)
	}
	if utf8.RuneCountInString(v.Size) > MaxSizeLen {
		return fmt.Errorf("%w: size must be at most %d characters", ErrInvalidInput, MaxSizeLen)
	}
	return nil
}

// ColorPtr returns nil when no color is set, for serialization.
func (v Variant) ColorPtr() *string {
	if v.Color == "" {
		return nil
	}
	c := v.Color
	return &c
}

func (v Variant) SizePtr() *string {
	if v.Size == "" {
		return nil
	}
	s := v.Size
	return &s
}
