/*
DESCRIPTION
  bitstream.go implements the raw bit level buffer that every other codec
  component reads from and writes to: the frame header, the per-group
  descriptor streams, and the entropy coder's feed buffer all sit on top of
  a BitStream.

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

import (
	"github.com/pkg/errors"
)

// BitStream is a growable bit addressed buffer. Writes advance a write
// cursor, reads and peeks advance (or, for peeks, do not advance) an
// independent read cursor, so a single BitStream can be filled once and
// then drained by a decoder without being copied.
//
// Bit zero of each byte is its least significant bit; multi-bit reads and
// writes are packed starting from the low bit of the first byte, matching
// the original codec's bit_stream implementation.
type BitStream struct {
	data       []byte
	readIndex  uint64 // in bits
	writeIndex uint64 // in bits
}

// NewBitStream returns an empty BitStream with room for at least
// capacityBits bits.
func NewBitStream(capacityBits int) *BitStream {
	bs := &BitStream{}
	if capacityBits > 0 {
		bs.data = make([]byte, (capacityBits+7)/8)
	}
	return bs
}

// NewBitStreamFromBytes wraps an existing byte slice for reading, matching
// bit_stream::assign. The returned BitStream's write cursor is placed at
// the end of the supplied data.
func NewBitStreamFromBytes(b []byte) *BitStream {
	bs := &BitStream{data: append([]byte(nil), b...)}
	bs.writeIndex = uint64(len(b)) * 8
	return bs
}

// Capacity returns the stream's capacity in bits.
func (bs *BitStream) Capacity() uint64 { return uint64(len(bs.data)) * 8 }

// Occupancy returns the number of unread bits remaining in the stream.
func (bs *BitStream) Occupancy() uint64 { return bs.writeIndex - bs.readIndex }

// ByteOccupancy returns Occupancy rounded up to a whole number of bytes.
func (bs *BitStream) ByteOccupancy() uint64 { return (bs.Occupancy() + 7) / 8 }

// IsEmpty reports whether every written bit has been read.
func (bs *BitStream) IsEmpty() bool { return bs.writeIndex == bs.readIndex }

// IsFull reports whether the stream has no remaining write capacity.
func (bs *BitStream) IsFull() bool { return bs.writeIndex == bs.Capacity() }

// Empty resets both cursors to zero without releasing the backing array,
// matching bit_stream::empty, so the stream can be refilled from the start.
// No codec path calls it: the decoder reads one stream continuously.
func (bs *BitStream) Empty() {
	bs.readIndex = 0
	bs.writeIndex = 0
}

// Clear releases the backing storage entirely, matching bit_stream::clear.
func (bs *BitStream) Clear() {
	bs.Empty()
	bs.data = nil
}

// Bytes returns the written portion of the stream as a byte slice. The
// slice aliases the stream's internal storage and must not be retained
// across further writes.
func (bs *BitStream) Bytes() []byte {
	return bs.data[:(bs.writeIndex+7)/8]
}

func (bs *BitStream) ensureCapacity(bits uint64) error {
	need := bs.writeIndex + bits
	if need <= bs.Capacity() {
		return nil
	}
	newLen := (need + 7) / 8
	grown := make([]byte, newLen)
	copy(grown, bs.data)
	bs.data = grown
	return nil
}

// WriteBit appends a single bit (0 or 1 in value's low bit).
func (bs *BitStream) WriteBit(value uint8) error {
	if err := bs.ensureCapacity(1); err != nil {
		return err
	}
	byteIdx := bs.writeIndex >> 3
	bitIdx := bs.writeIndex & 7
	if value&1 != 0 {
		bs.data[byteIdx] |= 1 << bitIdx
	} else {
		bs.data[byteIdx] &^= 1 << bitIdx
	}
	bs.writeIndex++
	return nil
}

// WriteByte appends a full byte. It is a fast path for WriteBits(value, 8)
// used whenever the write cursor happens to be byte aligned.
func (bs *BitStream) WriteByte(value byte) error {
	if err := bs.ensureCapacity(8); err != nil {
		return err
	}
	if bs.writeIndex&7 == 0 {
		bs.data[bs.writeIndex>>3] = value
		bs.writeIndex += 8
		return nil
	}
	for i := 0; i < 8; i++ {
		if err := bs.WriteBit((value >> uint(i)) & 1); err != nil {
			return err
		}
	}
	return nil
}

// WriteBits writes the low bitCount bits of value, least significant bit
// first.
func (bs *BitStream) WriteBits(value uint32, bitCount int) error {
	if bitCount < 0 || bitCount > 32 {
		return errors.Wrap(ErrInvalidArg, "WriteBits: bit count out of range")
	}
	if err := bs.ensureCapacity(uint64(bitCount)); err != nil {
		return err
	}
	for i := 0; i < bitCount; i++ {
		if err := bs.WriteBit(uint8(value >> uint(i))); err != nil {
			return err
		}
	}
	return nil
}

// WriteBytes appends a byte slice.
func (bs *BitStream) WriteBytes(b []byte) error {
	for _, v := range b {
		if err := bs.WriteByte(v); err != nil {
			return err
		}
	}
	return nil
}

// PeekBit returns the bit at the read cursor without advancing it.
func (bs *BitStream) PeekBit() (uint8, error) {
	if bs.readIndex >= bs.writeIndex {
		return 0, errors.Wrap(ErrInvalidResource, "PeekBit: past end of stream")
	}
	byteIdx := bs.readIndex >> 3
	bitIdx := bs.readIndex & 7
	return (bs.data[byteIdx] >> bitIdx) & 1, nil
}

// ReadBit returns the bit at the read cursor and advances it by one.
func (bs *BitStream) ReadBit() (uint8, error) {
	v, err := bs.PeekBit()
	if err != nil {
		return 0, err
	}
	bs.readIndex++
	return v, nil
}

// PeekBits returns the next bitCount bits (least significant bit first)
// without advancing the read cursor.
func (bs *BitStream) PeekBits(bitCount int) (uint32, error) {
	if bitCount < 0 || bitCount > 32 {
		return 0, errors.Wrap(ErrInvalidArg, "PeekBits: bit count out of range")
	}
	if bs.readIndex+uint64(bitCount) > bs.writeIndex {
		return 0, errors.Wrap(ErrInvalidResource, "PeekBits: past end of stream")
	}
	var result uint32
	for i := 0; i < bitCount; i++ {
		byteIdx := (bs.readIndex + uint64(i)) >> 3
		bitIdx := (bs.readIndex + uint64(i)) & 7
		bit := (bs.data[byteIdx] >> bitIdx) & 1
		result |= uint32(bit) << uint(i)
	}
	return result, nil
}

// ReadBits returns the next bitCount bits and advances the read cursor.
func (bs *BitStream) ReadBits(bitCount int) (uint32, error) {
	v, err := bs.PeekBits(bitCount)
	if err != nil {
		return 0, err
	}
	bs.readIndex += uint64(bitCount)
	return v, nil
}

// PeekByte reads a full byte without advancing the read cursor.
func (bs *BitStream) PeekByte() (byte, error) {
	v, err := bs.PeekBits(8)
	return byte(v), err
}

// ReadByte reads a full byte and advances the read cursor.
func (bs *BitStream) ReadByte() (byte, error) {
	v, err := bs.ReadBits(8)
	return byte(v), err
}

// ReadBytes reads count bytes and advances the read cursor.
func (bs *BitStream) ReadBytes(count int) ([]byte, error) {
	out := make([]byte, count)
	for i := range out {
		b, err := bs.ReadByte()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// Seek advances the read cursor by offset bits, saturating at the write
// cursor rather than overshooting it.
//
// The original bit_stream::seek checks "read_index+offset >= write_index"
// and, if so, sets read_index = write_index *before* adding offset - so a
// large offset can still push the cursor past the end of the stream. This
// port clamps after the add instead, so the read cursor never exceeds the
// write cursor.
func (bs *BitStream) Seek(offsetBits int) {
	next := int64(bs.readIndex) + int64(offsetBits)
	if next < 0 {
		next = 0
	}
	if uint64(next) > bs.writeIndex {
		next = int64(bs.writeIndex)
	}
	bs.readIndex = uint64(next)
}
