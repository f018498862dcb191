package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "equal", a: "Eriksson", b: "ERIKSSON", want: 1.0},
		{name: "equal after stripping", a: "Anna-Maria", b: "anna maria", want: 1.0},
		{name: "both empty", a: "", b: "123", want: 1.0},
		{name: "substring", a: "ERIKSSON", b: "SSON", want: 0.9},
		{name: "prefix", a: "Smithson", b: "Smith", want: 0.9},
		{name: "one empty", a: "SMITH", b: "", want: 0.9},
		{name: "positional", a: "ABCD", b: "ABXY", want: 0.5},
		{name: "shorter against longer", a: "ABCDEFGH", b: "ABXD", want: 3.0 / 8.0},
		{name: "transposition undercounts", a: "ABCD", b: "BACD", want: 0.5},
		{name: "no overlap", a: "SMITH", b: "JONES", want: 0},
		{name: "unicode letters", a: "Müller", b: "MULLER", want: 5.0 / 6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Similarity(tt.b, tt.a), 1e-9, "symmetric")
		})
	}
}
