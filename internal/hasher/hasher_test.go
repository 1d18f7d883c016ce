package hasher

import "testing"

func TestLengthsMatchContract(t *testing.T) {
	cases := []struct {
		h    Hasher
		want int
	}{
		{None{}, 0},
		{CRC32{}, 4},
		{FNV64{}, 8},
		{SHA256{}, 32},
		{BLAKE2b256{}, 32},
	}
	for _, c := range cases {
		if c.h.Len() != c.want {
			t.Errorf("%s: Len() = %d, want %d", c.h.Name(), c.h.Len(), c.want)
		}
		if got := len(c.h.Sum([]byte("payload"))); got != c.want {
			t.Errorf("%s: len(Sum()) = %d, want %d", c.h.Name(), got, c.want)
		}
	}
}

func TestByNameKnown(t *testing.T) {
	for _, name := range []string{"none", "crc32", "fnv64", "sha256", "blake2b"} {
		h, err := ByName(name)
		if err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
		if h.Name() != name {
			t.Errorf("ByName(%q).Name() = %q", name, h.Name())
		}
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName("md5"); err == nil {
		t.Error("expected error for unknown hasher name")
	}
}

func TestSumDeterministic(t *testing.T) {
	h := SHA256{}
	a := h.Sum([]byte("hello"))
	b := h.Sum([]byte("hello"))
	if string(a) != string(b) {
		t.Error("Sum should be deterministic for identical input")
	}
}
