/*
DESCRIPTION
  Evx1cli is a bare bones program for encoding a sequence of image files
  to an EVX-1 stream, or decoding an EVX-1 stream back to image files.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements evx1cli, a command line encoder/decoder for the
// EVX-1 codec.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/evxcodec/evx1/codec/evx1"
)

// Logging related constants.
const (
	logPath      = "evx1cli.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = false
)

func main() {
	mode := flag.String("mode", "", "encode or decode")
	inDir := flag.String("in", "", "for encode: directory of input images; for decode: path to an .evx1 stream")
	outPath := flag.String("out", "", "for encode: path to write the .evx1 stream; for decode: directory to write decoded frames")
	quality := flag.Uint("quality", uint(evx1.DefaultQuality), fmt.Sprintf("encode quality, %d-%d", evx1.MinQuality, evx1.MaxQuality))
	intraRate := flag.Uint("intra-rate", 15, "insert an intra frame every N frames, 0 to disable")
	noChroma := flag.Bool("no-chroma", false, "encode luma only")
	noDeblock := flag.Bool("no-deblock", false, "disable the in-loop deblocking filter")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	var err error
	switch *mode {
	case "encode":
		err = runEncode(l, *inDir, *outPath, uint8(*quality), uint32(*intraRate), !*noChroma, !*noDeblock)
	case "decode":
		err = runDecode(l, *inDir, *outPath)
	default:
		fmt.Fprintln(os.Stderr, "evx1cli: -mode must be encode or decode")
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		l.Fatal("evx1cli failed", "error", err.Error())
	}
}

func runEncode(l logging.Logger, inDir, outPath string, quality uint8, intraRate uint32, enableChroma, enableDeblock bool) error {
	paths, err := sortedImagePaths(inDir)
	if err != nil {
		return errors.Wrap(err, "runEncode: list frames")
	}
	if len(paths) == 0 {
		return errors.Wrap(evx1.ErrInvalidArg, "runEncode: no frames found in "+inDir)
	}

	cfg := evx1.DefaultConfig()
	cfg.Quality = quality
	cfg.PeriodicIntraRate = intraRate
	cfg.EnableChroma = enableChroma
	cfg.EnableDeblocking = enableDeblock

	enc := evx1.NewEncoder(cfg)

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "runEncode: create output")
	}
	defer out.Close()

	stream := evx1.NewBitStream(0)

	var width, height uint32
	for i, path := range paths {
		src, err := decodeImageFile(path)
		if err != nil {
			return errors.Wrapf(err, "runEncode: decode frame %s", path)
		}

		plane, err := evx1.PlaneFromImage(src, evx1.MacroblockSize)
		if err != nil {
			return errors.Wrapf(err, "runEncode: convert frame %s", path)
		}
		if i == 0 {
			width, height = plane.Width(), plane.Height()
		}

		if err := enc.Encode(plane, width, height, stream); err != nil {
			return errors.Wrapf(err, "runEncode: encode frame %s", path)
		}
		l.Debug("encoded frame", "path", path, "index", i)
	}

	if _, err := out.Write(stream.Bytes()); err != nil {
		return errors.Wrap(err, "runEncode: flush stream")
	}

	l.Debug("encode complete", "frames", len(paths), "out", outPath)
	return nil
}

func runDecode(l logging.Logger, inPath, outDir string) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return errors.Wrap(err, "runDecode: read stream")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "runDecode: make output directory")
	}

	probe := evx1.NewBitStreamFromBytes(raw)
	header, err := evx1.ReadHeader(probe)
	if err != nil {
		return errors.Wrap(err, "runDecode: read header")
	}
	if err := header.Verify(); err != nil {
		return errors.Wrap(err, "runDecode: verify header")
	}

	stream := evx1.NewBitStreamFromBytes(raw)
	dec := evx1.NewDecoder(evx1.DefaultConfig())

	for index := 0; !stream.IsEmpty(); index++ {
		dest, err := evx1.NewPlane(evx1.FormatRGB8, uint32(header.FrameWidth), uint32(header.FrameHeight))
		if err != nil {
			return errors.Wrapf(err, "runDecode: allocate frame %d", index)
		}

		if err := dec.Decode(stream, dest); err != nil {
			return errors.Wrapf(err, "runDecode: decode frame %d", index)
		}

		img := evx1.ImageToRGBA(dest)
		framePath := filepath.Join(outDir, fmt.Sprintf("frame-%05d.png", index))
		if err := writePNG(framePath, img); err != nil {
			return errors.Wrapf(err, "runDecode: write frame %d", index)
		}
		l.Debug("decoded frame", "index", index, "path", framePath)
	}

	return nil
}

func sortedImagePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".png", ".jpg", ".jpeg":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".png":
		return png.Decode(f)
	default:
		return jpeg.Decode(f)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
