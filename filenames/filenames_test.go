package filenames

import (
	"strings"
	"testing"
)

func TestFromUserName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"a", "a"},
		{"A", "A_"},
		{"AE", "A_E_"},
		{"Ae", "A_e"},
		{"aE", "aE_"},
		{"a.alt", "a.alt"},
		{"A.Alt", "A_.A_lt"},
		{"T_H", "T__H_"},
		{"f_f_i", "f_f_i"},
		{"Aacute_V.swash", "A_acute_V_.swash"},
		{".notdef", "_notdef"},
		{"con", "_con"},
		{"CON", "C_O_N_"},
		{"con.alt", "_con.alt"},
		{"alt.con", "alt._con"},
		{"clock$", "_clock$"},
		{"a/b", "a_b"},
		{"a:b|c", "a_b_c"},
		{"(x)", "_x_"},
		{"tab\there", "tab_here"},
		{"Ä", "Ä_"},
		{"ß", "ß"},
		{"", ""},
	}
	for _, tt := range tests {
		if result := FromUserName(tt.name, nil); result != tt.expected {
			t.Errorf("FromUserName(%q) = %q; want %q", tt.name, result, tt.expected)
		}
	}
}

func TestCollisionAvoidance(t *testing.T) {
	existing := NewSet("a")
	first := FromUserName("a", existing)
	if first != "a000000000000001" {
		t.Errorf("expected first collision suffix 1, have %q", first)
	}
	existing.Add(first)
	second := FromUserName("a", existing)
	if second != "a000000000000002" {
		t.Errorf("expected second collision suffix 2, have %q", second)
	}
	if n := FromUserName("b", existing); n != "b" {
		t.Errorf("expected non-colliding name unchanged, have %q", n)
	}
}

func TestCollisionIsCaseInsensitive(t *testing.T) {
	existing := NewSet("A_")
	if n := FromUserName("a_", existing); n != "a_000000000000001" {
		t.Errorf("expected case-insensitive collision, have %q", n)
	}
}

func TestLengthLimits(t *testing.T) {
	long := strings.Repeat("a", 300)
	n := FromUserName(long, nil)
	if len(n) != MaxLength {
		t.Errorf("expected name truncated to %d, have %d", MaxLength, len(n))
	}
	existing := NewSet(n)
	c := FromUserName(long, existing)
	if len(c) != MaxLength || !strings.HasSuffix(c, "000000000000001") {
		t.Errorf("expected truncated base plus counter, have %q (%d)", c, len(c))
	}
}
