/*
DESCRIPTION
  abac.go implements the adaptive binary arithmetic coder used to entropy
  code transform coefficients and block descriptor fields. It is a
  carry-propagating range coder with per-context adaptive bit probabilities,
  in the style of the renormalizing range coders used throughout the
  codec examples (see h264dec's CABAC renormalization loop), but with
  its own self-contained probability model since no reference
  arithmetic coder source shipped with this port.

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

const (
	abacProbBits  = 12
	abacProbTotal = 1 << abacProbBits
	abacProbInit  = abacProbTotal / 2
	abacMoveBits  = 5
	abacTopValue  = 1 << 24
)

// ABACContext holds one adaptive bit probability, the likelihood (scaled to
// abacProbTotal) that the next bit coded under it is zero.
type ABACContext struct {
	prob uint16
}

// Reset restores the context to its initial, unbiased probability.
func (c *ABACContext) Reset() { c.prob = abacProbInit }

// ContextSet is a named bank of contexts a classify/quantize pass indexes
// into by coefficient position, run length, or block type. Coders allocate
// one per syntax element so that, e.g., luma DC and chroma AC coefficients
// adapt independently.
type ContextSet []ABACContext

// NewContextSet returns a ContextSet of n contexts, each reset to the
// initial probability.
func NewContextSet(n int) ContextSet {
	cs := make(ContextSet, n)
	for i := range cs {
		cs[i].Reset()
	}
	return cs
}

// Reset restores every context in the set.
func (cs ContextSet) Reset() {
	for i := range cs {
		cs[i].Reset()
	}
}

// ABACCoder is a single range coder instance used for both encoding and
// decoding; a session uses one for encode and a distinct one, bound to the
// incoming stream, for decode. The coder drives a BitStream supplied to
// Attach for output (encode) or input (decode).
type ABACCoder struct {
	stream *BitStream
	low    uint64
	rng    uint32

	// decode-only state.
	code     uint32
	decoding bool

	cacheByte byte
	cacheSize int64
}

// NewABACCoder returns a coder with no attached stream; call AttachEncoder
// or AttachDecoder before use.
func NewABACCoder() *ABACCoder {
	c := &ABACCoder{}
	c.Reset()
	return c
}

// Reset returns the coder to its initial range-coder state, detaching any
// stream. It must be called between frames so that residual carry state
// from the previous frame cannot bleed into the next.
func (c *ABACCoder) Reset() {
	c.stream = nil
	c.low = 0
	c.rng = 0xFFFFFFFF
	c.code = 0
	c.decoding = false
	c.cacheByte = 0
	c.cacheSize = 1
}

// AttachEncoder binds the coder to dest in encoding mode. Encoded bits are
// appended to dest as whole bytes become available.
func (c *ABACCoder) AttachEncoder(dest *BitStream) {
	c.Reset()
	c.stream = dest
}

// AttachDecoder binds the coder to src in decoding mode and primes the
// internal code register by consuming five bytes, matching the range
// coder's standard priming sequence.
func (c *ABACCoder) AttachDecoder(src *BitStream) error {
	c.Reset()
	c.stream = src
	c.decoding = true
	for i := 0; i < 5; i++ {
		b, err := src.ReadByte()
		if err != nil {
			return err
		}
		c.code = c.code<<8 | uint32(b)
	}
	return nil
}

func (c *ABACCoder) shiftLow() {
	if uint32(c.low>>32) != 0 || c.low < 0xFF000000 {
		_ = c.stream.WriteByte(c.cacheByte + byte(c.low>>32))
		for ; c.cacheSize > 1; c.cacheSize-- {
			_ = c.stream.WriteByte(byte(0xFF + byte(c.low>>32)))
		}
		c.cacheByte = byte(c.low >> 24)
		c.cacheSize = 0
	}
	c.cacheSize++
	c.low = (c.low << 8) & 0xFFFFFFFF
}

// EncodeBit codes one bit under ctx, adapting its probability afterward.
func (c *ABACCoder) EncodeBit(ctx *ABACContext, bit int) {
	bound := (c.rng >> abacProbBits) * uint32(ctx.prob)
	if bit == 0 {
		c.rng = bound
		ctx.prob += (abacProbTotal - ctx.prob) >> abacMoveBits
	} else {
		c.low += uint64(bound)
		c.rng -= bound
		ctx.prob -= ctx.prob >> abacMoveBits
	}
	for c.rng < abacTopValue {
		c.rng <<= 8
		c.shiftLow()
	}
}

// EncodeBypass codes one equiprobable bit, used for coefficient sign bits
// and Golomb suffix bits where adaptation buys nothing.
func (c *ABACCoder) EncodeBypass(bit int) {
	c.rng >>= 1
	if bit != 0 {
		c.low += uint64(c.rng)
	}
	for c.rng < abacTopValue {
		c.rng <<= 8
		c.shiftLow()
	}
}

// Flush drains any pending range coder state to the attached stream. It
// must be called once after the last EncodeBit/EncodeBypass of a frame.
func (c *ABACCoder) Flush() {
	for i := 0; i < 5; i++ {
		c.shiftLow()
	}
}

// DecodeBit decodes one bit under ctx, adapting its probability the same
// way the encoder did when it coded that bit.
func (c *ABACCoder) DecodeBit(ctx *ABACContext) (int, error) {
	bound := (c.rng >> abacProbBits) * uint32(ctx.prob)
	var bit int
	if c.code < bound {
		c.rng = bound
		ctx.prob += (abacProbTotal - ctx.prob) >> abacMoveBits
		bit = 0
	} else {
		c.code -= bound
		c.rng -= bound
		ctx.prob -= ctx.prob >> abacMoveBits
		bit = 1
	}
	if err := c.decodeRenorm(); err != nil {
		return 0, err
	}
	return bit, nil
}

// DecodeBypass decodes one equiprobable bit coded by EncodeBypass.
func (c *ABACCoder) DecodeBypass() (int, error) {
	c.rng >>= 1
	var bit int
	if c.code >= c.rng {
		c.code -= c.rng
		bit = 1
	}
	if err := c.decodeRenorm(); err != nil {
		return 0, err
	}
	return bit, nil
}

func (c *ABACCoder) decodeRenorm() error {
	for c.rng < abacTopValue {
		b, err := c.stream.ReadByte()
		if err != nil {
			return err
		}
		c.code = c.code<<8 | uint32(b)
		c.rng <<= 8
	}
	return nil
}
