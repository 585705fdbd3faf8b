/*
DESCRIPTION
  syntax.go implements SyntaxCoder, the glue between a raw syntax value
  (a block type, a motion vector delta, a quantization parameter delta, a
  transform coefficient) and the arithmetic coder: fixed-width fields are
  written bit by bit under a rotating bank of adaptive contexts, and
  unbounded integers are Exp-Golomb binarized first so the coder only ever
  sees single bits.

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

import "github.com/pkg/errors"

// SyntaxCoder binds one arithmetic coder to one bank of contexts for a
// single syntax element stream (block types, motion vectors, and so on),
// so that every bit belonging to that element adapts independently of
// its neighbors.
type SyntaxCoder struct {
	coder *ABACCoder
	ctxs  ContextSet
	pos   int
}

// NewSyntaxCoder returns a coder over ctxs. The same ContextSet instance
// must be passed to the decode side's SyntaxCoder for a matching syntax
// element so that both sides adapt identically.
func NewSyntaxCoder(coder *ABACCoder, ctxs ContextSet) *SyntaxCoder {
	return &SyntaxCoder{coder: coder, ctxs: ctxs}
}

func (s *SyntaxCoder) nextCtx() *ABACContext {
	c := &s.ctxs[s.pos%len(s.ctxs)]
	s.pos++
	return c
}

// WriteBit codes one bit.
func (s *SyntaxCoder) WriteBit(v uint8) {
	s.coder.EncodeBit(s.nextCtx(), int(v&1))
}

// ReadBit decodes one bit coded by WriteBit.
func (s *SyntaxCoder) ReadBit() (uint8, error) {
	bit, err := s.coder.DecodeBit(s.nextCtx())
	return uint8(bit), err
}

// WriteBits codes the low n bits of v, most significant bit first.
func (s *SyntaxCoder) WriteBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		s.WriteBit(uint8(v >> uint(i)))
	}
}

// ReadBits decodes n bits coded by WriteBits.
func (s *SyntaxCoder) ReadBits(n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		bit, err := s.ReadBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint32(bit)
	}
	return v, nil
}

// WriteUnsignedGolomb codes value's Exp-Golomb binarization bit by bit.
func (s *SyntaxCoder) WriteUnsignedGolomb(value uint32) {
	codeword, bits := EncodeUnsignedGolomb(value)
	width := bitWidth(codeword)

	for i := 0; i < bits-width; i++ {
		s.WriteBit(0)
	}
	for i := width - 1; i >= 0; i-- {
		s.WriteBit(uint8(codeword >> uint(i)))
	}
}

// ReadUnsignedGolomb decodes a codeword written by WriteUnsignedGolomb.
func (s *SyntaxCoder) ReadUnsignedGolomb() (uint32, error) {
	zeros := 0
	for {
		bit, err := s.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			break
		}
		zeros++
		if zeros > 31 {
			return 0, errors.Wrap(ErrInvalidResource, "ReadUnsignedGolomb: prefix too long")
		}
	}

	result := uint32(1)
	for i := 0; i < zeros; i++ {
		bit, err := s.ReadBit()
		if err != nil {
			return 0, err
		}
		result = result<<1 | uint32(bit)
	}
	return result - 1, nil
}

// WriteSignedGolomb zig-zag maps value onto the unsigned domain before
// coding it, the same mapping EncodeSignedGolomb applies.
func (s *SyntaxCoder) WriteSignedGolomb(value int32) {
	var u uint32
	if value <= 0 {
		u = uint32(-value) * 2
	} else {
		u = uint32(value)*2 - 1
	}
	s.WriteUnsignedGolomb(u)
}

// ReadSignedGolomb decodes a value written by WriteSignedGolomb.
func (s *SyntaxCoder) ReadSignedGolomb() (int32, error) {
	u, err := s.ReadUnsignedGolomb()
	if err != nil {
		return 0, err
	}
	if u&1 != 0 {
		return int32((u + 1) / 2), nil
	}
	return -int32(u / 2), nil
}
