/*
DESCRIPTION
  golomb.go implements the Exp-Golomb precoder that sits between raw
  syntax values (motion vectors, quality deltas, residual coefficients)
  and the bit stream. It is the unsigned/signed binarization stage the
  entropy coder's feed buffer is filled from, the same role
  unaryExpGolombBinString plays for h264dec's CAVLC path.

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

// EncodeUnsignedGolomb returns the Exp-Golomb codeword for value, least
// significant bit first in the low bits of the result, along with the
// number of bits the codeword occupies. The codeword for value v has
// 2*k+1 bits, where k is the number of bits needed to represent v+1 past
// its leading one.
func EncodeUnsignedGolomb(value uint32) (code uint32, bits int) {
	codeword := value + 1
	width := bitWidth(codeword)
	return codeword, 2*width - 1
}

// EncodeSignedGolomb maps a signed value onto the unsigned Exp-Golomb
// domain (zig-zag: 0, 1, -1, 2, -2, ...) before encoding it, so small
// magnitude values of either sign get short codes - the common case for
// DCT residuals and motion deltas.
func EncodeSignedGolomb(value int32) (code uint32, bits int) {
	var u uint32
	if value <= 0 {
		u = uint32(-value) * 2
	} else {
		u = uint32(value)*2 - 1
	}
	return EncodeUnsignedGolomb(u)
}

// WriteUnsignedGolomb appends value's Exp-Golomb codeword to bs.
func WriteUnsignedGolomb(bs *BitStream, value uint32) error {
	codeword, bits := EncodeUnsignedGolomb(value)
	width := bitWidth(codeword)

	for i := 0; i < bits-width; i++ {
		if err := bs.WriteBit(0); err != nil {
			return err
		}
	}
	for i := width - 1; i >= 0; i-- {
		if err := bs.WriteBit(uint8(codeword >> uint(i))); err != nil {
			return err
		}
	}
	return nil
}

// WriteSignedGolomb appends value's zig-zag mapped Exp-Golomb codeword to
// bs.
func WriteSignedGolomb(bs *BitStream, value int32) error {
	var u uint32
	if value <= 0 {
		u = uint32(-value) * 2
	} else {
		u = uint32(value)*2 - 1
	}
	return WriteUnsignedGolomb(bs, u)
}

func bitWidth(v uint32) int {
	w := 0
	for v > 0 {
		w++
		v >>= 1
	}
	if w == 0 {
		w = 1
	}
	return w
}

// DecodeUnsignedGolomb decodes one Exp-Golomb codeword from the bit
// stream, returning the decoded value.
func DecodeUnsignedGolomb(bs *BitStream) (uint32, error) {
	zeros := 0
	for {
		bit, err := bs.ReadBit()
		if err != nil {
			return 0, errors.Wrap(err, "DecodeUnsignedGolomb: read prefix bit")
		}
		if bit != 0 {
			break
		}
		zeros++
		if zeros > 31 {
			return 0, errors.Wrap(ErrInvalidResource, "DecodeUnsignedGolomb: prefix too long")
		}
	}

	result := uint32(1)
	for i := 0; i < zeros; i++ {
		bit, err := bs.ReadBit()
		if err != nil {
			return 0, errors.Wrap(err, "DecodeUnsignedGolomb: read suffix bit")
		}
		result = (result << 1) | uint32(bit)
	}

	return result - 1, nil
}

// DecodeSignedGolomb decodes one Exp-Golomb codeword and reverses the
// zig-zag mapping applied by EncodeSignedGolomb.
func DecodeSignedGolomb(bs *BitStream) (int32, error) {
	u, err := DecodeUnsignedGolomb(bs)
	if err != nil {
		return 0, err
	}
	if u&1 != 0 {
		return int32((u + 1) / 2), nil
	}
	return -int32(u / 2), nil
}
