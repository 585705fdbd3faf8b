/*
DESCRIPTION
  config.go holds the session configuration that used to be a set of
  compile-time switches in the original codec.

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

import "io"

// Default values, carried over from the original build-time configuration.
const (
	DefaultReferenceFrameCount = 4
	DefaultQuality             = 8
	DefaultPeriodicIntraRate   = 3600 // 0 disables periodic intra refresh.
	MinQuality                 = 1
	MaxQuality                 = 31
)

// Config controls the session wide behavior of an Encoder or Decoder. The
// zero value is not valid; use DefaultConfig and override fields as needed.
type Config struct {
	// ReferenceFrameCount is the size of the prediction ring buffer (R in
	// the component design). Must be at least 1.
	ReferenceFrameCount int

	// Quality is the initial per-session quality level, clipped to
	// [MinQuality, MaxQuality].
	Quality uint8

	// PeriodicIntraRate forces an intra frame every N encoded frames. Zero
	// disables periodic refresh (every frame after the first is inter).
	PeriodicIntraRate uint32

	// AllowInterFrames mirrors EVX_ALLOW_INTER_FRAMES; when false every
	// frame is coded as intra regardless of PeriodicIntraRate.
	AllowInterFrames bool

	// EnableChroma mirrors EVX_ENABLE_CHROMA_SUPPORT; when false the U/V
	// planes are still carried (for image set symmetry) but are not
	// entropy coded; the deblocking filter still runs over them.
	EnableChroma bool

	// EnableQuantization mirrors EVX_QUANTIZATION_ENABLED. Disabling it
	// yields a semi-lossless mode where the transform coefficients pass
	// through unscaled.
	EnableQuantization bool

	// AdaptiveQuantization mirrors EVX_ADAPTIVE_QUANTIZATION: per block
	// quantization parameter selection driven by transform coefficient
	// variance, rather than a fixed frame-wide quality.
	AdaptiveQuantization bool

	// RoundedQuantization mirrors EVX_ROUNDED_QUANTIZATION: quantization
	// divisions round to nearest instead of truncating toward zero.
	RoundedQuantization bool

	// EnableDeblocking mirrors EVX_ENABLE_DEBLOCKING.
	EnableDeblocking bool

	// LogWriter receives the package logger's output. Defaults to
	// io.Discard so a Session stays silent until a caller opts in.
	LogWriter io.Writer
}

// DefaultConfig returns the configuration matching the original codec's
// compile-time defaults.
func DefaultConfig() Config {
	return Config{
		ReferenceFrameCount:  DefaultReferenceFrameCount,
		Quality:              DefaultQuality,
		PeriodicIntraRate:    DefaultPeriodicIntraRate,
		AllowInterFrames:     true,
		EnableChroma:         true,
		EnableQuantization:   true,
		AdaptiveQuantization: true,
		RoundedQuantization:  true,
		EnableDeblocking:     true,
		LogWriter:            io.Discard,
	}
}

// normalize clips and fills in fields the way evx1enc.cpp's set_quality and
// initialize clip theirs, so a caller-supplied Config with a few fields set
// still behaves sensibly.
func (c Config) normalize() Config {
	if c.ReferenceFrameCount <= 0 {
		c.ReferenceFrameCount = DefaultReferenceFrameCount
	}
	c.Quality = clipQuality(c.Quality)
	if c.LogWriter == nil {
		c.LogWriter = io.Discard
	}
	return c
}

func clipQuality(q uint8) uint8 {
	return uint8(clipRange(int32(q), MinQuality, MaxQuality))
}
