/*
DESCRIPTION
  convert.go implements the RGB24 <-> planar 4:2:0 YUV colorspace
  conversion the working pipeline codes in. Chroma sub-sampling is folded
  into the conversion itself: two horizontally adjacent chroma samples
  are summed while scanning the first of a pair of rows, then averaged
  against the second row's pair, producing one 4:2:0 chroma sample per
  2x2 luma block in a single pass.

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
	"image"

	"github.com/pkg/errors"
	ximage "golang.org/x/image/draw"
)

const (
	luminanceShift   = 16
	chrominanceShift = 128
)

func rgbToYUV(enableChroma bool, r, g, b uint8) (y, u, v int16) {
	y = int16((77*int32(r)+150*int32(g)+29*int32(b)+128)>>8) + luminanceShift
	if !enableChroma {
		return y, 0, 0
	}
	u = int16((-43*int32(r)-85*int32(g)+128*int32(b)+128)/256) + chrominanceShift
	v = int16((128*int32(r)-107*int32(g)-21*int32(b)+128)/256) + chrominanceShift
	return y, u, v
}

func yuvToRGB(enableChroma bool, y, u, v int16) (r, g, b uint8) {
	yy := int32(y) - luminanceShift
	if !enableChroma {
		r = saturateByte((256*yy + 128) >> 8)
		return r, r, r
	}
	uu := int32(u) - chrominanceShift
	vv := int32(v) - chrominanceShift
	r = saturateByte((256*yy + 358*vv + 128) >> 8)
	g = saturateByte((256*yy - 88*uu - 182*vv + 128) >> 8)
	b = saturateByte((256*yy + 452*uu + 128) >> 8)
	return r, g, b
}

// ConvertToWorkingSet converts src, an RGB24 plane, into dest's planar
// 4:2:0 YUV representation. Extents are cropped to whichever of src or
// dest is smaller, matching convert_image's non-allocating behavior.
func ConvertToWorkingSet(cfg Config, src *Plane, dest *ImageSet) error {
	if src.Format() != FormatRGB8 || dest.Y.Format() != FormatY16S {
		return errors.Wrap(ErrInvalidArg, "ConvertToWorkingSet: unexpected plane format")
	}

	width := minUint32(src.Width(), dest.Y.Width())
	width = minUint32(width, dest.U.Width()<<1)
	height := minUint32(src.Height(), dest.Y.Height())
	height = minUint32(height, dest.U.Height()<<1)

	if width%2 != 0 || height%2 != 0 {
		return errors.Wrap(ErrInvalidResource, "ConvertToWorkingSet: dimensions must be even")
	}

	data := src.Data()
	pitch := int(src.RowPitch())

	for j := uint32(0); j < height; j += 2 {
		rowA := data[int(j)*pitch:]
		rowB := data[int(j+1)*pitch:]

		for i := uint32(0); i < width; i += 2 {
			var usum, vsum int16

			y00, u0, v0 := rgbToYUV(cfg.EnableChroma, rowA[3*i], rowA[3*i+1], rowA[3*i+2])
			y01, u1, v1 := rgbToYUV(cfg.EnableChroma, rowA[3*(i+1)], rowA[3*(i+1)+1], rowA[3*(i+1)+2])
			dest.Y.SetSample16(i, j, y00)
			dest.Y.SetSample16(i+1, j, y01)
			usum, vsum = u0+u1, v0+v1

			y10, u2, v2 := rgbToYUV(cfg.EnableChroma, rowB[3*i], rowB[3*i+1], rowB[3*i+2])
			y11, u3, v3 := rgbToYUV(cfg.EnableChroma, rowB[3*(i+1)], rowB[3*(i+1)+1], rowB[3*(i+1)+2])
			dest.Y.SetSample16(i, j+1, y10)
			dest.Y.SetSample16(i+1, j+1, y11)

			if cfg.EnableChroma {
				usum += u2 + u3
				vsum += v2 + v3
				dest.U.SetSample16(i/2, j/2, (usum+2)>>2)
				dest.V.SetSample16(i/2, j/2, (vsum+2)>>2)
			}
		}
	}

	return nil
}

// ConvertFromWorkingSet converts src, a planar 4:2:0 YUV image, into
// dest, an RGB24 plane, upsampling chroma by nearest-neighbor across
// each 2x2 luma block.
func ConvertFromWorkingSet(cfg Config, src *ImageSet, dest *Plane) error {
	if dest.Format() != FormatRGB8 || src.Y.Format() != FormatY16S {
		return errors.Wrap(ErrInvalidArg, "ConvertFromWorkingSet: unexpected plane format")
	}

	width := minUint32(dest.Width(), src.Y.Width())
	width = minUint32(width, src.U.Width()<<1)
	height := minUint32(dest.Height(), src.Y.Height())
	height = minUint32(height, src.U.Height()<<1)

	if width%2 != 0 || height%2 != 0 {
		return errors.Wrap(ErrInvalidResource, "ConvertFromWorkingSet: dimensions must be even")
	}

	data := dest.Data()
	pitch := int(dest.RowPitch())

	for j := uint32(0); j < height; j += 2 {
		for i := uint32(0); i < width; i += 2 {
			u := src.U.Sample16(i/2, j/2)
			v := src.V.Sample16(i/2, j/2)

			for _, dj := range [2]uint32{0, 1} {
				row := data[int(j+dj)*pitch:]
				for _, di := range [2]uint32{0, 1} {
					y := src.Y.Sample16(i+di, j+dj)
					r, g, b := yuvToRGB(cfg.EnableChroma, y, u, v)
					row[3*(i+di)] = r
					row[3*(i+di)+1] = g
					row[3*(i+di)+2] = b
				}
			}
		}
	}

	return nil
}

// PlaneFromImage normalizes src, an arbitrary standard library image (any
// color model - YCbCr straight out of a JPEG decode, paletted out of a
// GIF, NRGBA out of a PNG), into an RGB24 Plane whose dimensions are
// aligned up to alignTo. Scaling uses a bilinear resampler so the extra
// alignment padding is filled by stretching the source rather than
// leaving black bars.
func PlaneFromImage(src image.Image, alignTo uint32) (*Plane, error) {
	bounds := src.Bounds()
	width, height := uint32(bounds.Dx()), uint32(bounds.Dy())
	if width == 0 || height == 0 {
		return nil, errors.Wrap(ErrInvalidArg, "PlaneFromImage: empty image")
	}

	alignedWidth := alignUint32(width, alignTo)
	alignedHeight := alignUint32(height, alignTo)

	canvas := image.NewRGBA(image.Rect(0, 0, int(alignedWidth), int(alignedHeight)))
	ximage.BiLinear.Scale(canvas, canvas.Bounds(), src, bounds, ximage.Src, nil)

	plane, err := NewPlane(FormatRGB8, alignedWidth, alignedHeight)
	if err != nil {
		return nil, errors.Wrap(err, "PlaneFromImage: allocate plane")
	}
	data := plane.Data()
	pitch := int(plane.RowPitch())

	for j := 0; j < int(alignedHeight); j++ {
		row := data[j*pitch:]
		srcRow := canvas.Pix[j*canvas.Stride:]
		for i := 0; i < int(alignedWidth); i++ {
			row[3*i] = srcRow[4*i]
			row[3*i+1] = srcRow[4*i+1]
			row[3*i+2] = srcRow[4*i+2]
		}
	}

	return plane, nil
}

// ImageToRGBA copies src, an RGB24 Plane, into a freshly allocated
// image.RGBA suitable for encoding with any standard library image
// codec.
func ImageToRGBA(src *Plane) *image.RGBA {
	width, height := int(src.Width()), int(src.Height())
	out := image.NewRGBA(image.Rect(0, 0, width, height))

	data := src.Data()
	pitch := int(src.RowPitch())

	for j := 0; j < height; j++ {
		row := data[j*pitch:]
		for i := 0; i < width; i++ {
			off := out.PixOffset(i, j)
			out.Pix[off] = row[3*i]
			out.Pix[off+1] = row[3*i+1]
			out.Pix[off+2] = row[3*i+2]
			out.Pix[off+3] = 0xff
		}
	}

	return out
}
