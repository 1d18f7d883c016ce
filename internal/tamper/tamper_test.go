package tamper

import "testing"

func TestFlipBitsTogglesOnlyNamedPositions(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00}
	FlipBits(data, []int{1, 3}, 0xFF)
	want := []byte{0x00, 0xFF, 0x00, 0xFF}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("data[%d] = %#x, want %#x", i, data[i], want[i])
		}
	}
}

func TestFlipBitsIsItsOwnInverse(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56}
	original := append([]byte(nil), data...)
	positions := []int{0, 2}
	FlipBits(data, positions, 0xAA)
	FlipBits(data, positions, 0xAA)
	for i := range original {
		if data[i] != original[i] {
			t.Errorf("data[%d] = %#x after double flip, want %#x", i, data[i], original[i])
		}
	}
}

func TestFlipBitsIgnoresOutOfRangePositions(t *testing.T) {
	data := []byte{0x01, 0x02}
	FlipBits(data, []int{-1, 5, 100}, 0xFF)
	if data[0] != 0x01 || data[1] != 0x02 {
		t.Errorf("out-of-range positions should be ignored, got %v", data)
	}
}

func TestEraseZeroesNamedPositions(t *testing.T) {
	data := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	Erase(data, []int{0, 2})
	want := []byte{0x00, 0xBB, 0x00, 0xDD}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("data[%d] = %#x, want %#x", i, data[i], want[i])
		}
	}
}

func TestEraseIgnoresOutOfRangePositions(t *testing.T) {
	data := []byte{0x01, 0x02}
	Erase(data, []int{-5, 99})
	if data[0] != 0x01 || data[1] != 0x02 {
		t.Errorf("out-of-range positions should be ignored, got %v", data)
	}
}
