// Package ident derives human-facing account identifiers from a birth-date
// fragment plus a random decimal suffix. Uniqueness is probabilistic: the
// account repository catches primary-key collisions at insert time and asks
// for a fresh id.
package ident

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generator produces fixed-length account identifiers.
type Generator struct {
	suffixWidth int
	suffixMax   *big.Int
}

// NewGenerator creates a generator whose random suffix is zero-padded to
// suffixWidth decimal digits.
func NewGenerator(suffixWidth int) *Generator {
	if suffixWidth < 1 {
		suffixWidth = 1
	}
	max := big.NewInt(10)
	max.Exp(max, big.NewInt(int64(suffixWidth)), nil)
	return &Generator{suffixWidth: suffixWidth, suffixMax: max}
}

// NewAccountID builds an id from the two year digits at positions 7-8 of a
// dd/mm/yyyy birth date followed by the random suffix. The caller is
// responsible for retrying on insert collision.
func (g *Generator) NewAccountID(birthDate string) (string, error) {
	if len(birthDate) != 10 || birthDate[2] != '/' || birthDate[5] != '/' {
		return "", fmt.Errorf("birth date %q is not in dd/mm/yyyy form", birthDate)
	}
	fragment := birthDate[7:9]
	for _, c := range fragment {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("birth date %q has a non-numeric year", birthDate)
		}
	}

	n, err := rand.Int(rand.Reader, g.suffixMax)
	if err != nil {
		return "", fmt.Errorf("generate id suffix: %w", err)
	}
	return fmt.Sprintf("%s%0*d", fragment, g.suffixWidth, n), nil
}
