package gf

import "testing"

func TestFindPrimitivePolysIncludesStandard(t *testing.T) {
	polys := FindPrimitivePolys(3, 8)
	found := false
	for _, p := range polys {
		if p == 0x11b {
			found = true
		}
	}
	if !found {
		t.Error("0x11b should be found as a primitive polynomial for generator=3")
	}
}

func TestDetectParametersFindsStandardConfig(t *testing.T) {
	sample := []byte("hello world")
	want := Params{Generator: 3, Prim: 0x11b, FCR: 1}
	codeword := encodeSample(sample, 10, want)

	got, distance := DetectParameters(sample, codeword, []byte{3})
	if distance != 0 {
		t.Fatalf("distance = %d, want 0 (perfect match)", distance)
	}
	if got != want {
		t.Errorf("DetectParameters = %+v, want %+v", got, want)
	}
}

func TestHammingDistance(t *testing.T) {
	if hammingDistance([]byte{1, 2, 3}, []byte{1, 2, 3}) != 0 {
		t.Error("identical slices should have distance 0")
	}
	if hammingDistance([]byte{1, 2, 3}, []byte{1, 9, 3}) != 1 {
		t.Error("one differing byte should give distance 1")
	}
}
