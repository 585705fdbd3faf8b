/*
DESCRIPTION
  session.go implements the Encoder and Decoder session types: the
  public entry points that own a Context, lazily initialize it from the
  first frame's dimensions, and drive the header/frame-descriptor
  framing around each coded slice.

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
	"fmt"
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Encoder codes a sequence of RGB24 frames of fixed dimensions into an
// EVX-1 bit stream. The zero value is not ready for use; call
// NewEncoder.
type Encoder struct {
	cfg Config
	log logging.Logger

	initialized bool
	header      Header
	frame       Frame
	ctx         *Context
}

// NewEncoder returns an Encoder configured by cfg. The encoder is not
// bound to any frame dimensions until the first call to Encode.
func NewEncoder(cfg Config) *Encoder {
	cfg = cfg.normalize()
	return &Encoder{
		cfg: cfg,
		log: newSessionLogger(cfg.LogWriter),
		frame: Frame{
			Type:    FrameIntra,
			Quality: uint16(cfg.Quality),
		},
	}
}

// Clear resets the encoder to an uninitialized state, exactly as if it
// had just been constructed. The next call to Encode will re-derive its
// context from whatever dimensions it is given.
func (e *Encoder) Clear() {
	e.initialized = false
	e.header = Header{}
	e.frame = Frame{Type: FrameIntra, Quality: e.frame.Quality}
	e.ctx = nil
}

// InsertIntra forces the next encoded frame to be an intra frame,
// regardless of PeriodicIntraRate. Callers typically do this to recover
// from dropped packets or to mark a seek point.
func (e *Encoder) InsertIntra() { e.frame.Type = FrameIntra }

// SetQuality sets the quality level applied to subsequently encoded
// frames, clipped to [MinQuality, MaxQuality].
func (e *Encoder) SetQuality(quality uint8) { e.frame.Quality = uint16(clipQuality(quality)) }

func (e *Encoder) initialize(width, height uint32) error {
	if e.initialized {
		return errors.Wrap(ErrInvalidResource, "Encoder.initialize: already initialized")
	}

	e.header = NewHeader(width, height, e.cfg.ReferenceFrameCount)

	alignedWidth := alignUint32(width, MacroblockSize)
	alignedHeight := alignUint32(height, MacroblockSize)

	ctx, err := NewContext(e.cfg, alignedWidth, alignedHeight)
	if err != nil {
		return errors.Wrap(err, "Encoder.initialize: new context")
	}

	e.ctx = ctx
	e.initialized = true

	return nil
}

// Encode codes input, an RGB24 plane of the given dimensions, appending
// the result to output. The first call establishes the stream's
// dimensions and writes the stream header before the first frame; every
// subsequent call must be given the same dimensions.
func (e *Encoder) Encode(input *Plane, width, height uint32, output *BitStream) error {
	if input == nil || output == nil || width == 0 || height == 0 {
		return errors.Wrap(ErrInvalidArg, "Encoder.Encode")
	}

	if !e.initialized {
		if err := e.initialize(width, height); err != nil {
			return errors.Wrap(err, "Encoder.Encode: initialize")
		}
		if err := WriteHeader(output, e.header); err != nil {
			return errors.Wrap(err, "Encoder.Encode: write header")
		}
	}

	if uint16(width) != e.header.FrameWidth || uint16(height) != e.header.FrameHeight {
		return errors.Wrap(ErrInvalidResource, "Encoder.Encode: frame size does not match stream header")
	}

	if err := WriteFrameDesc(output, e.frame); err != nil {
		return errors.Wrap(err, "Encoder.Encode: write frame descriptor")
	}

	if err := EncodeFrame(e.cfg, input, e.frame, e.ctx, output); err != nil {
		return errors.Wrap(err, "Encoder.Encode: encode frame")
	}

	e.log.Debug("encoded frame", "index", e.frame.Index, "type", e.frame.Type.String(), "quality", e.frame.Quality)

	if e.cfg.AllowInterFrames {
		e.frame.Type = FrameInter
	}
	if e.cfg.PeriodicIntraRate != 0 && (e.frame.Index+1)%e.cfg.PeriodicIntraRate == 0 {
		e.InsertIntra()
	}
	e.frame.Index++

	return nil
}

// Peek renders one of the encoder's internal buffers into output, an
// RGB24 plane sized to the stream's frame dimensions. It is a debugging
// aid and is too expensive to call per frame in production use.
func (e *Encoder) Peek(state PeekState, output *Plane) error {
	if !e.initialized {
		return nil
	}
	return peekContext(e.cfg, e.frame, e.ctx, state, output)
}

// Decoder decodes an EVX-1 bit stream produced by Encoder back into a
// sequence of RGB24 frames. The zero value is not ready for use; call
// NewDecoder.
type Decoder struct {
	cfg Config
	log logging.Logger

	initialized bool
	header      Header
	frame       Frame
	ctx         *Context
}

// NewDecoder returns a Decoder configured by cfg.
func NewDecoder(cfg Config) *Decoder {
	cfg = cfg.normalize()
	return &Decoder{cfg: cfg, log: newSessionLogger(cfg.LogWriter)}
}

// Clear resets the decoder to an uninitialized state; the next call to
// Decode expects a fresh stream header.
func (d *Decoder) Clear() {
	d.initialized = false
	d.header = Header{}
	d.frame = Frame{}
	d.ctx = nil
}

func (d *Decoder) initialize(input *BitStream) error {
	if d.initialized {
		return errors.Wrap(ErrInvalidResource, "Decoder.initialize: already initialized")
	}

	header, err := ReadHeader(input)
	if err != nil {
		return errors.Wrap(err, "Decoder.initialize: read header")
	}
	if err := header.Verify(); err != nil {
		return errors.Wrap(err, "Decoder.initialize: verify header")
	}

	cfg := d.cfg
	cfg.ReferenceFrameCount = int(header.RefCount)

	alignedWidth := alignUint32(uint32(header.FrameWidth), MacroblockSize)
	alignedHeight := alignUint32(uint32(header.FrameHeight), MacroblockSize)

	ctx, err := NewContext(cfg, alignedWidth, alignedHeight)
	if err != nil {
		return errors.Wrap(err, "Decoder.initialize: new context")
	}

	d.cfg = cfg
	d.header = header
	d.ctx = ctx
	d.initialized = true

	return nil
}

// FrameWidth returns the decoded stream's frame width, valid only after
// the first successful call to Decode.
func (d *Decoder) FrameWidth() uint16 { return d.header.FrameWidth }

// FrameHeight returns the decoded stream's frame height, valid only
// after the first successful call to Decode.
func (d *Decoder) FrameHeight() uint16 { return d.header.FrameHeight }

// Decode reads one frame from input and reconstructs it into output, an
// RGB24 plane sized to the stream's frame dimensions. The first call
// reads the stream header and allocates the decoder's context.
func (d *Decoder) Decode(input *BitStream, output *Plane) error {
	if input == nil || output == nil {
		return errors.Wrap(ErrInvalidArg, "Decoder.Decode")
	}

	if !d.initialized {
		if err := d.initialize(input); err != nil {
			return errors.Wrap(err, "Decoder.Decode: initialize")
		}
	}

	incoming, err := ReadFrameDesc(input)
	if err != nil {
		return errors.Wrap(err, "Decoder.Decode: read frame descriptor")
	}
	if incoming.Index != d.frame.Index {
		return errors.Wrap(ErrInvalidResource, "Decoder.Decode: frame index out of sync")
	}
	d.frame = incoming

	if err := DecodeFrame(d.cfg, input, d.frame, d.ctx, output); err != nil {
		return errors.Wrap(err, "Decoder.Decode: decode frame")
	}

	d.log.Debug("decoded frame", "index", d.frame.Index, "type", d.frame.Type.String())

	d.frame.Index++

	return nil
}

// Peek renders one of the decoder's internal buffers into output, an
// RGB24 plane sized to the stream's frame dimensions.
func (d *Decoder) Peek(state PeekState, output *Plane) error {
	if !d.initialized {
		return nil
	}
	return peekContext(d.cfg, d.frame, d.ctx, state, output)
}

func newSessionLogger(w io.Writer) logging.Logger {
	return logging.New(logging.Debug, w, false)
}

// peekContext renders one of ctx's internal buffers into output, shared
// by Encoder.Peek and Decoder.Peek.
func peekContext(cfg Config, frame Frame, ctx *Context, state PeekState, output *Plane) error {
	switch state {
	case PeekSource:
		return ConvertFromWorkingSet(cfg, ctx.Cache.InputCache, output)

	case PeekDestination:
		destIndex := queryPredictionIndexByOffset(frame.Index, 1, uint32(len(ctx.Cache.PredictionCache)))
		return ConvertFromWorkingSet(cfg, ctx.Cache.PredictionCache[destIndex], output)

	case PeekBlockTable:
		return paintBlockTable(ctx, output, func(desc BlockDesc) (r, g, b uint8) {
			return 255 * boolByte(desc.BlockType.IsIntra()), 255 * boolByte(desc.BlockType.IsMotion()), 255 * boolByte(desc.BlockType.IsCopy())
		})

	case PeekQuantTable:
		return paintBlockTable(ctx, output, func(desc BlockDesc) (r, g, b uint8) {
			if desc.BlockType.IsCopy() {
				return 255, 0, 0
			}
			v := saturateByte(255 - 15*int32(desc.QIndex))
			return v, v, v
		})

	case PeekBlockVariance:
		return paintBlockTable(ctx, output, func(desc BlockDesc) (r, g, b uint8) {
			if desc.BlockType.IsCopy() {
				return 255, 0, 0
			}
			v := saturateByte(int32(desc.Variance) / 30)
			return v, v, v
		})

	case PeekSubpixelTable:
		return paintBlockTable(ctx, output, func(desc BlockDesc) (r, g, b uint8) {
			if !desc.SPPred {
				return 0, 0, 0
			}
			return 0, 255 * boolByte(desc.SPAmount), 255 * boolByte(!desc.SPAmount)
		})

	default:
		return errors.Wrap(ErrNotImpl, fmt.Sprintf("peekContext: unsupported peek state %d", state))
	}
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

// paintBlockTable fills output with one flat color per macroblock,
// derived from that block's descriptor by paint.
func paintBlockTable(ctx *Context, output *Plane, paint func(BlockDesc) (r, g, b uint8)) error {
	width := minUint32(output.Width(), ctx.Width())
	height := minUint32(output.Height(), ctx.Height())

	for j := uint32(0); j < height; j++ {
		for i := uint32(0); i < width; i++ {
			blockIndex := (i / MacroblockSize) + (j/MacroblockSize)*ctx.WidthInBlocks
			r, g, b := paint(ctx.BlockTable[blockIndex])
			off := output.BlockOffset(i, j)
			data := output.Data()
			data[off] = r
			data[off+1] = g
			data[off+2] = b
		}
	}

	return nil
}
