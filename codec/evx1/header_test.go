/*
DESCRIPTION
  header_test.go exercises stream header and frame descriptor framing.

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

func TestHeaderRoundTrip(t *testing.T) {
	want := NewHeader(640, 480, 4)

	bs := NewBitStream(0)
	if err := WriteHeader(bs, want); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	got, err := ReadHeader(bs)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got != want {
		t.Errorf("ReadHeader() = %+v, want %+v", got, want)
	}
	if err := got.Verify(); err != nil {
		t.Errorf("Verify() = %v, want nil", err)
	}
}

func TestHeaderVerifyRejectsBadMagic(t *testing.T) {
	h := NewHeader(640, 480, 4)
	h.Magic = [4]byte{'X', 'X', 'X', 'X'}
	if err := h.Verify(); err == nil {
		t.Errorf("Verify() = nil, want error for bad magic")
	}
}

func TestFrameDescRoundTrip(t *testing.T) {
	want := Frame{Type: FrameInter, Index: 1234, Quality: 17}

	bs := NewBitStream(0)
	if err := WriteFrameDesc(bs, want); err != nil {
		t.Fatalf("WriteFrameDesc: %v", err)
	}

	got, err := ReadFrameDesc(bs)
	if err != nil {
		t.Fatalf("ReadFrameDesc: %v", err)
	}
	if got != want {
		t.Errorf("ReadFrameDesc() = %+v, want %+v", got, want)
	}
}
