package gf

import "testing"

func TestStandardTablesMatchKnownValues(t *testing.T) {
	// 3^1 = 3, the generator itself, must sit at Exp[1].
	if Standard.Exp[1] != 3 {
		t.Fatalf("Exp[1] = %d, want 3", Standard.Exp[1])
	}
	if Standard.Exp[0] != 1 {
		t.Fatalf("Exp[0] = %d, want 1 (alpha^0)", Standard.Exp[0])
	}
	if Standard.Log[1] != 0 {
		t.Fatalf("Log[1] = %d, want 0", Standard.Log[1])
	}
	if Standard.Log[3] != 1 {
		t.Fatalf("Log[3] = %d, want 1", Standard.Log[3])
	}
}

func TestExpTableDoubled(t *testing.T) {
	for i := 0; i < FieldCharac; i++ {
		if Standard.Exp[i] != Standard.Exp[i+FieldCharac] {
			t.Fatalf("Exp[%d] != Exp[%d]", i, i+FieldCharac)
		}
	}
}

func TestAddIsXor(t *testing.T) {
	if Standard.Add(140, 128) != 140^128 {
		t.Fatal("Add should be XOR")
	}
	if Standard.Add(7, 7) != 0 {
		t.Fatal("a+a should be 0 over GF(2)")
	}
}

func TestMulZero(t *testing.T) {
	if Standard.Mul(0, 200) != 0 {
		t.Fatal("0 * x should be 0")
	}
	if Standard.Mul(200, 0) != 0 {
		t.Fatal("x * 0 should be 0")
	}
}

func TestMulDivRoundTrip(t *testing.T) {
	for a := 1; a < 256; a++ {
		for _, b := range []byte{1, 3, 17, 200, 255} {
			product := Standard.Mul(byte(a), b)
			back, err := Standard.Div(product, b)
			if err != nil {
				t.Fatalf("Div returned error: %v", err)
			}
			if back != byte(a) {
				t.Fatalf("Mul/Div round trip failed: a=%d b=%d product=%d back=%d", a, b, product, back)
			}
		}
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Standard.Div(5, 0); err == nil {
		t.Fatal("expected error dividing by zero")
	}
}

func TestDivZeroNumerator(t *testing.T) {
	got, err := Standard.Div(0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("0/x should be 0, got %d", got)
	}
}

func TestPowAndInverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		inv := Standard.Inverse(byte(a))
		if Standard.Mul(byte(a), inv) != 1 {
			t.Fatalf("a * inverse(a) should be 1, a=%d inv=%d", a, inv)
		}
		if Standard.Pow(byte(a), 1) != byte(a) {
			t.Fatalf("a^1 should be a, a=%d", a)
		}
	}
	if Standard.Pow(5, 0) != 1 {
		t.Fatal("a^0 should be 1")
	}
}

func TestNewTablesIndependentInstances(t *testing.T) {
	custom := NewTables(0x11d, 2, 0)
	if custom.Exp[1] == Standard.Exp[1] && custom.Prim == Standard.Prim {
		t.Skip("degenerate comparison, different prim expected to differ in practice")
	}
	// Mutating a custom table set must not affect Standard.
	custom.Exp[1] = 0xAA
	if Standard.Exp[1] == 0xAA {
		t.Fatal("Standard tables must not be affected by a local Tables instance")
	}
}
