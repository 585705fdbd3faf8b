/*
DESCRIPTION
  image.go implements the Plane and ImageSet abstractions the rest of the
  pipeline operates on: a Plane is a single rectangular buffer of
  fixed-size samples (8-bit RGB bytes or 16-bit signed YUV samples), and
  an ImageSet is the three-plane 4:2:0 Y/U/V view a macroblock is carved
  out of.

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

// PixelFormat identifies the sample layout of a Plane.
type PixelFormat uint8

const (
	FormatNone PixelFormat = iota
	FormatRGB8             // 3 interleaved 8-bit channels, row pitch = width*3.
	FormatY16S             // single 16-bit signed sample per pixel.
)

func (f PixelFormat) bitsPerPixel() uint32 {
	switch f {
	case FormatRGB8:
		return 24
	case FormatY16S:
		return 16
	default:
		return 0
	}
}

// Plane is a single rectangular sample buffer. Samples for FormatY16S are
// stored as little endian pairs of bytes and accessed through Sample16/
// SetSample16; FormatRGB8 planes are accessed as raw bytes via Data.
type Plane struct {
	format PixelFormat
	width  uint32
	height uint32
	data   []byte
}

// NewPlane allocates a zeroed plane of the given format and dimensions.
func NewPlane(format PixelFormat, width, height uint32) (*Plane, error) {
	if width == 0 || height == 0 {
		return nil, errors.Wrap(ErrInvalidArg, "NewPlane: zero dimension")
	}
	bpp := format.bitsPerPixel()
	if bpp == 0 {
		return nil, errors.Wrap(ErrInvalidArg, "NewPlane: unknown format")
	}
	size := (uint64(width) * uint64(height) * uint64(bpp)) / 8
	return &Plane{
		format: format,
		width:  width,
		height: height,
		data:   make([]byte, size),
	}, nil
}

// NewPlaneFromBytes wraps an existing buffer as a plane, matching
// create_image's placement-allocation variant. The backing slice is used
// directly, not copied.
func NewPlaneFromBytes(format PixelFormat, width, height uint32, data []byte) (*Plane, error) {
	if width == 0 || height == 0 {
		return nil, errors.Wrap(ErrInvalidArg, "NewPlaneFromBytes: zero dimension")
	}
	want := (uint64(width) * uint64(height) * uint64(format.bitsPerPixel())) / 8
	if uint64(len(data)) < want {
		return nil, errors.Wrap(ErrInvalidArg, "NewPlaneFromBytes: buffer too small")
	}
	return &Plane{format: format, width: width, height: height, data: data}, nil
}

func (p *Plane) Width() uint32          { return p.width }
func (p *Plane) Height() uint32         { return p.height }
func (p *Plane) Format() PixelFormat    { return p.format }
func (p *Plane) Data() []byte           { return p.data }
func (p *Plane) RowPitch() uint32       { return (p.width * p.format.bitsPerPixel()) / 8 }
func (p *Plane) BlockOffset(i, j uint32) uint32 {
	return p.RowPitch()*j + (i*p.format.bitsPerPixel())/8
}

// Sample16 reads a signed 16-bit sample at pixel (i, j). The plane must be
// FormatY16S.
func (p *Plane) Sample16(i, j uint32) int16 {
	off := p.BlockOffset(i, j)
	return int16(uint16(p.data[off]) | uint16(p.data[off+1])<<8)
}

// SetSample16 writes a signed 16-bit sample at pixel (i, j).
func (p *Plane) SetSample16(i, j uint32, v int16) {
	off := p.BlockOffset(i, j)
	u := uint16(v)
	p.data[off] = byte(u)
	p.data[off+1] = byte(u >> 8)
}

// Samples16 returns the plane's backing store reinterpreted as a flat
// slice of signed 16-bit samples in raster order. FormatY16S only.
func (p *Plane) Samples16() []int16 {
	out := make([]int16, len(p.data)/2)
	for i := range out {
		out[i] = int16(uint16(p.data[2*i]) | uint16(p.data[2*i+1])<<8)
	}
	return out
}

// ImageSet is the three-plane 4:2:0 Y/U/V view a frame is coded through.
// U and V are allocated at half width and half height relative to Y,
// matching image_set::initialize.
type ImageSet struct {
	Y, U, V *Plane
}

// NewImageSet allocates a 4:2:0 image set at the given luma dimensions.
// width and height must be even.
func NewImageSet(format PixelFormat, width, height uint32) (*ImageSet, error) {
	if width%2 != 0 || height%2 != 0 {
		return nil, errors.Wrap(ErrInvalidResource, "NewImageSet: dimensions must be even")
	}
	y, err := NewPlane(format, width, height)
	if err != nil {
		return nil, err
	}
	u, err := NewPlane(format, width/2, height/2)
	if err != nil {
		return nil, err
	}
	v, err := NewPlane(format, width/2, height/2)
	if err != nil {
		return nil, err
	}
	return &ImageSet{Y: y, U: u, V: v}, nil
}

func (s *ImageSet) Width() uint32  { return s.Y.Width() }
func (s *ImageSet) Height() uint32 { return s.Y.Height() }
