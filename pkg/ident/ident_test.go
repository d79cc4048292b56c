package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"already normalized", "customers", "customers"},
		{"uppercase", "CUSTOMERS_TBL", "customers_tbl"},
		{"spaces and punctuation", "Customer Orders (2024)", "customer_orders_2024"},
		{"collapse underscores", "order___hist", "order_hist"},
		{"trim underscores", "__orders__", "orders"},
		{"dashes and dots", "sales-data.v2", "sales_data_v2"},
		{"only symbols", "!!!", ""},
		{"only underscores", "____", ""},
		{"mixed separators collapse", "a - b", "a_b"},
		{"non ascii letters", "café", "caf"},
		{"digits kept", "Q3_2024", "q3_2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"customers",
		"CUSTOMERS_TBL",
		"  Order  History ",
		"__x__y__",
		"Ünïcödé Tàblé",
		"tab\tseparated\nname",
		"!!!",
		"a_1-b.2/c",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
}

func TestNormalize_OutputAlphabet(t *testing.T) {
	for _, in := range []string{"Hello, World!", "ÀÉÎ--õü", "x__", "__y", "42 Answers"} {
		out := Normalize(in)
		for _, r := range out {
			assert.True(t, isIdentRune(r), "unexpected rune %q in %q", r, out)
		}
		assert.NotContains(t, out, "__")
		if out != "" {
			assert.NotEqual(t, byte('_'), out[0])
			assert.NotEqual(t, byte('_'), out[len(out)-1])
		}
	}
}
