/*
DESCRIPTION
  bitstream_test.go exercises BitStream's bit level read/write and seek
  behavior.

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

func TestBitStreamWriteReadBits(t *testing.T) {
	bs := NewBitStream(0)

	values := []struct {
		v uint32
		n int
	}{
		{0x1, 1},
		{0x0, 1},
		{0x5, 3},
		{0xABCD, 16},
		{0x7FFFFFFF, 31},
	}

	for _, tc := range values {
		if err := bs.WriteBits(tc.v, tc.n); err != nil {
			t.Fatalf("WriteBits(%#x, %d): %v", tc.v, tc.n, err)
		}
	}

	for _, tc := range values {
		got, err := bs.ReadBits(tc.n)
		if err != nil {
			t.Fatalf("ReadBits(%d): %v", tc.n, err)
		}
		if got != tc.v {
			t.Errorf("ReadBits(%d) = %#x, want %#x", tc.n, got, tc.v)
		}
	}

	if !bs.IsEmpty() {
		t.Errorf("expected stream to be drained")
	}
}

func TestBitStreamByteAlignedFastPath(t *testing.T) {
	bs := NewBitStream(0)
	want := []byte{0x11, 0x22, 0x33, 0xff}

	if err := bs.WriteBytes(want); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}

	got, err := bs.ReadBytes(len(want))
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestBitStreamSeekClampsToWriteCursor(t *testing.T) {
	bs := NewBitStream(0)
	if err := bs.WriteBits(0xFF, 8); err != nil {
		t.Fatalf("WriteBits: %v", err)
	}

	bs.Seek(1000)
	if bs.readIndex != bs.writeIndex {
		t.Errorf("Seek past end: readIndex = %d, want %d", bs.readIndex, bs.writeIndex)
	}

	bs.Seek(-1000)
	if bs.readIndex != 0 {
		t.Errorf("Seek before start: readIndex = %d, want 0", bs.readIndex)
	}
}

func TestBitStreamEmptyResetsCursors(t *testing.T) {
	bs := NewBitStream(0)
	bs.WriteBits(0x3, 2)
	bs.ReadBit()

	bs.Empty()

	if bs.readIndex != 0 || bs.writeIndex != 0 {
		t.Errorf("Empty() left readIndex=%d writeIndex=%d, want 0, 0", bs.readIndex, bs.writeIndex)
	}
	if !bs.IsEmpty() {
		t.Errorf("expected IsEmpty() after Empty()")
	}
}
