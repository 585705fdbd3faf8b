/*
DESCRIPTION
  convert_test.go exercises the RGB24 <-> planar YUV colorspace
  conversion, including the PlaneFromImage/ImageToRGBA adapters to the
  standard library image package.

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
	"image/color"
	"testing"
)

func solidRGBPlane(t *testing.T, width, height uint32, r, g, b uint8) *Plane {
	t.Helper()
	plane, err := NewPlane(FormatRGB8, width, height)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	data := plane.Data()
	for i := 0; i < len(data); i += 3 {
		data[i], data[i+1], data[i+2] = r, g, b
	}
	return plane
}

func TestConvertRoundTripGray(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableChroma = true

	src := solidRGBPlane(t, 16, 16, 128, 128, 128)

	working, err := NewImageSet(FormatY16S, 16, 16)
	if err != nil {
		t.Fatalf("NewImageSet: %v", err)
	}
	if err := ConvertToWorkingSet(cfg, src, working); err != nil {
		t.Fatalf("ConvertToWorkingSet: %v", err)
	}

	dest, err := NewPlane(FormatRGB8, 16, 16)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	if err := ConvertFromWorkingSet(cfg, working, dest); err != nil {
		t.Fatalf("ConvertFromWorkingSet: %v", err)
	}

	data := dest.Data()
	for i := 0; i < len(data); i += 3 {
		for c := 0; c < 3; c++ {
			if diff := int(data[i+c]) - 128; diff < -2 || diff > 2 {
				t.Fatalf("pixel byte %d = %d, want close to 128", i+c, data[i+c])
			}
		}
	}
}

func TestConvertLumaOnlyWhenChromaDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableChroma = false

	src := solidRGBPlane(t, 8, 8, 200, 50, 10)

	working, err := NewImageSet(FormatY16S, 8, 8)
	if err != nil {
		t.Fatalf("NewImageSet: %v", err)
	}
	if err := ConvertToWorkingSet(cfg, src, working); err != nil {
		t.Fatalf("ConvertToWorkingSet: %v", err)
	}
	if working.U.Sample16(0, 0) != 0 || working.V.Sample16(0, 0) != 0 {
		t.Errorf("chroma samples should be zero when EnableChroma is false")
	}

	dest, err := NewPlane(FormatRGB8, 8, 8)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	if err := ConvertFromWorkingSet(cfg, working, dest); err != nil {
		t.Fatalf("ConvertFromWorkingSet: %v", err)
	}
	data := dest.Data()
	if data[0] != data[1] || data[1] != data[2] {
		t.Errorf("expected r=g=b in luma only reconstruction, got %d,%d,%d", data[0], data[1], data[2])
	}
}

func TestPlaneFromImageAlignsDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 18, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 18; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}

	plane, err := PlaneFromImage(img, MacroblockSize)
	if err != nil {
		t.Fatalf("PlaneFromImage: %v", err)
	}
	if plane.Width()%MacroblockSize != 0 || plane.Height()%MacroblockSize != 0 {
		t.Errorf("PlaneFromImage dimensions %dx%d not aligned to %d", plane.Width(), plane.Height(), MacroblockSize)
	}

	back := ImageToRGBA(plane)
	if uint32(back.Bounds().Dx()) != plane.Width() || uint32(back.Bounds().Dy()) != plane.Height() {
		t.Errorf("ImageToRGBA size mismatch: got %dx%d, want %dx%d", back.Bounds().Dx(), back.Bounds().Dy(), plane.Width(), plane.Height())
	}
}
