/*
DESCRIPTION
  errors.go defines the sentinel error values returned by the evx1 codec
  pipeline.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package evx1 implements the EVX-1 block based hybrid video codec: a
// macroblock oriented intra/inter coder with integer DCT transforms, MPEG
// style quantization, multi-reference motion estimation, and an in-loop
// deblocking filter.
package evx1

import "errors"

// Sentinel errors classify the six failure kinds a Session can report.
// Callers should use errors.Is against these values; internal call chains
// wrap them with github.com/pkg/errors so the failure carries a path back
// to the call that triggered it.
var (
	// ErrInvalidArg is returned when a caller supplied argument is out of
	// the domain the function accepts (nil pointer, zero length, a
	// dimension that isn't macroblock aligned, and so on).
	ErrInvalidArg = errors.New("evx1: invalid argument")

	// ErrInvalidResource is returned when a resource (bitstream, header,
	// frame descriptor) fails a structural or consistency check: a bad
	// magic number, a frame index that doesn't match the expected
	// sequence, a block type outside the known enumeration.
	ErrInvalidResource = errors.New("evx1: invalid resource")

	// ErrCapacityLimit is returned when a fixed size buffer (most often a
	// bit stream) cannot hold the data an operation is about to write.
	ErrCapacityLimit = errors.New("evx1: capacity limit exceeded")

	// ErrOutOfMemory is returned when an allocation fails. Go's allocator
	// makes this rare in practice; it survives in the port because a
	// couple of call sites (image plane allocation) can be driven by a
	// caller-controlled width/height and should fail gracefully rather
	// than panic on pathological input.
	ErrOutOfMemory = errors.New("evx1: out of memory")

	// ErrNotImpl is returned by Encoder.Peek and Decoder.Peek for a peek
	// state with no defined rendering.
	ErrNotImpl = errors.New("evx1: not implemented")

	// ErrExecutionFailure is returned when an internal pipeline stage
	// could not produce a result (for example, a block classifier that
	// never found a candidate prediction).
	ErrExecutionFailure = errors.New("evx1: execution failure")
)
