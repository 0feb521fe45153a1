package random

import (
	"strings"
	"testing"
)

func TestCodeLengthAndAlphabet(t *testing.T) {
	for _, n := range []int{1, 8, 16, 32} {
		code, err := Code(n)
		if err != nil {
			t.Fatalf("Code(%d) failed: %v", n, err)
		}
		if len(code) != n {
			t.Fatalf("Code(%d) length = %d", n, len(code))
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("Code(%d) produced %q outside alphabet", n, c)
			}
		}
	}
}

func TestCodeRejectsBadLength(t *testing.T) {
	if _, err := Code(0); err == nil {
		t.Fatal("Code(0) should fail")
	}
	if _, err := Code(-3); err == nil {
		t.Fatal("Code(-3) should fail")
	}
}

func TestCryptoRollerChanceBounds(t *testing.T) {
	r := NewCryptoRoller()
	for i := 0; i < 50; i++ {
		if r.Chance(0) {
			t.Fatal("Chance(0) must never succeed")
		}
		if !r.Chance(100) {
			t.Fatal("Chance(100) must always succeed")
		}
	}
}

func TestCryptoRollerIntNRange(t *testing.T) {
	r := NewCryptoRoller()
	for i := 0; i < 200; i++ {
		v := r.IntN(7)
		if v < 0 || v >= 7 {
			t.Fatalf("IntN(7) = %d out of range", v)
		}
	}
}

func TestScriptRoller(t *testing.T) {
	r := &ScriptRoller{Successes: []bool{true, false}, Picks: []int{5, 9}}

	if !r.Chance(50) {
		t.Fatal("first scripted draw should succeed")
	}
	if r.Chance(50) {
		t.Fatal("second scripted draw should fail")
	}
	if r.Chance(50) {
		t.Fatal("exhausted script should fail")
	}

	if got := r.IntN(10); got != 5 {
		t.Fatalf("first pick = %d; want 5", got)
	}
	if got := r.IntN(4); got != 1 {
		t.Fatalf("second pick = %d; want 9 mod 4 = 1", got)
	}
}
