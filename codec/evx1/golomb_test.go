/*
DESCRIPTION
  golomb_test.go exercises exp-golomb binarization and its BitStream
  round trip for both unsigned and signed values.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package evx1

import "testing"

func TestUnsignedGolombRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 7, 8, 15, 255, 256, 1 << 20}

	bs := NewBitStream(0)
	for _, v := range values {
		if err := WriteUnsignedGolomb(bs, v); err != nil {
			t.Fatalf("WriteUnsignedGolomb(%d): %v", v, err)
		}
	}

	for _, want := range values {
		got, err := DecodeUnsignedGolomb(bs)
		if err != nil {
			t.Fatalf("DecodeUnsignedGolomb: %v", err)
		}
		if got != want {
			t.Errorf("DecodeUnsignedGolomb() = %d, want %d", got, want)
		}
	}
}

func TestSignedGolombRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 2, -2, 63, -63, 1 << 16, -(1 << 16)}

	bs := NewBitStream(0)
	for _, v := range values {
		if err := WriteSignedGolomb(bs, v); err != nil {
			t.Fatalf("WriteSignedGolomb(%d): %v", v, err)
		}
	}

	for _, want := range values {
		got, err := DecodeSignedGolomb(bs)
		if err != nil {
			t.Fatalf("DecodeSignedGolomb: %v", err)
		}
		if got != want {
			t.Errorf("DecodeSignedGolomb() = %d, want %d", got, want)
		}
	}
}

func TestEncodeUnsignedGolombBitWidth(t *testing.T) {
	cases := []struct {
		value uint32
		bits  int
	}{
		{0, 1},
		{1, 3},
		{2, 3},
		{3, 5},
		{6, 5},
		{7, 7},
	}
	for _, tc := range cases {
		_, bits := EncodeUnsignedGolomb(tc.value)
		if bits != tc.bits {
			t.Errorf("EncodeUnsignedGolomb(%d) bits = %d, want %d", tc.value, bits, tc.bits)
		}
	}
}
