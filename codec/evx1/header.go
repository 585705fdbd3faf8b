/*
DESCRIPTION
  header.go implements the stream header every encoded sequence opens
  with: a magic tag, the reference ring size it was coded against, a
  format version, and the frame dimensions a decoder needs before it can
  allocate its own context.

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

const (
	streamVersion  = 1
	headerByteSize = 4 + 2 + 1 + 2 + 2 + 2
)

var streamMagic = [4]byte{'E', 'V', 'X', '1'}

// Header opens every encoded stream, immediately before the first frame's
// Frame descriptor.
type Header struct {
	Magic       [4]byte
	Size        uint16
	RefCount    uint8
	Version     uint16
	FrameWidth  uint16
	FrameHeight uint16
}

// NewHeader returns a Header describing a stream coded at width x height
// against a reference ring of refCount frames.
func NewHeader(width, height uint32, refCount int) Header {
	return Header{
		Magic:       streamMagic,
		Size:        headerByteSize,
		RefCount:    uint8(refCount),
		Version:     streamVersion,
		FrameWidth:  uint16(width),
		FrameHeight: uint16(height),
	}
}

// Verify reports whether h looks like a header this package can decode.
func (h Header) Verify() error {
	if h.Magic != streamMagic {
		return errors.Wrap(ErrInvalidResource, "Header.Verify: bad magic")
	}
	if h.Version != streamVersion {
		return errors.Wrap(ErrInvalidResource, "Header.Verify: unsupported version")
	}
	if h.FrameWidth == 0 || h.FrameHeight == 0 {
		return errors.Wrap(ErrInvalidResource, "Header.Verify: zero dimension")
	}
	return nil
}

// WriteHeader appends h's fixed-size wire encoding to dest.
func WriteHeader(dest *BitStream, h Header) error {
	if err := dest.WriteBytes(h.Magic[:]); err != nil {
		return errors.Wrap(err, "WriteHeader: magic")
	}
	if err := writeUint16(dest, h.Size); err != nil {
		return errors.Wrap(err, "WriteHeader: size")
	}
	if err := dest.WriteByte(h.RefCount); err != nil {
		return errors.Wrap(err, "WriteHeader: ref count")
	}
	if err := writeUint16(dest, h.Version); err != nil {
		return errors.Wrap(err, "WriteHeader: version")
	}
	if err := writeUint16(dest, h.FrameWidth); err != nil {
		return errors.Wrap(err, "WriteHeader: frame width")
	}
	if err := writeUint16(dest, h.FrameHeight); err != nil {
		return errors.Wrap(err, "WriteHeader: frame height")
	}
	return nil
}

// ReadHeader reads a fixed-size Header written by WriteHeader.
func ReadHeader(src *BitStream) (Header, error) {
	var h Header

	magic, err := src.ReadBytes(4)
	if err != nil {
		return h, errors.Wrap(err, "ReadHeader: magic")
	}
	copy(h.Magic[:], magic)

	if h.Size, err = readUint16(src); err != nil {
		return h, errors.Wrap(err, "ReadHeader: size")
	}
	if h.RefCount, err = src.ReadByte(); err != nil {
		return h, errors.Wrap(err, "ReadHeader: ref count")
	}
	if h.Version, err = readUint16(src); err != nil {
		return h, errors.Wrap(err, "ReadHeader: version")
	}
	if h.FrameWidth, err = readUint16(src); err != nil {
		return h, errors.Wrap(err, "ReadHeader: frame width")
	}
	if h.FrameHeight, err = readUint16(src); err != nil {
		return h, errors.Wrap(err, "ReadHeader: frame height")
	}

	return h, nil
}

func writeUint16(dest *BitStream, v uint16) error {
	if err := dest.WriteByte(uint8(v)); err != nil {
		return err
	}
	return dest.WriteByte(uint8(v >> 8))
}

func readUint16(src *BitStream) (uint16, error) {
	lo, err := src.ReadByte()
	if err != nil {
		return 0, err
	}
	hi, err := src.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// WriteFrameDesc appends frame's fixed-size wire encoding to dest, the
// per-frame descriptor that precedes each coded slice.
func WriteFrameDesc(dest *BitStream, frame Frame) error {
	if err := dest.WriteByte(uint8(frame.Type)); err != nil {
		return errors.Wrap(err, "WriteFrameDesc: type")
	}
	if err := writeUint32(dest, frame.Index); err != nil {
		return errors.Wrap(err, "WriteFrameDesc: index")
	}
	if err := writeUint16(dest, frame.Quality); err != nil {
		return errors.Wrap(err, "WriteFrameDesc: quality")
	}
	return nil
}

// ReadFrameDesc reads a Frame descriptor written by WriteFrameDesc.
func ReadFrameDesc(src *BitStream) (Frame, error) {
	var f Frame

	t, err := src.ReadByte()
	if err != nil {
		return f, errors.Wrap(err, "ReadFrameDesc: type")
	}
	f.Type = FrameType(t)

	if f.Index, err = readUint32(src); err != nil {
		return f, errors.Wrap(err, "ReadFrameDesc: index")
	}
	if f.Quality, err = readUint16(src); err != nil {
		return f, errors.Wrap(err, "ReadFrameDesc: quality")
	}

	return f, nil
}

func writeUint32(dest *BitStream, v uint32) error {
	for shift := 0; shift < 32; shift += 8 {
		if err := dest.WriteByte(uint8(v >> uint(shift))); err != nil {
			return err
		}
	}
	return nil
}

func readUint32(src *BitStream) (uint32, error) {
	var v uint32
	for shift := 0; shift < 32; shift += 8 {
		b, err := src.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b) << uint(shift)
	}
	return v, nil
}
