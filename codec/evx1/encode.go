/*
DESCRIPTION
  encode.go implements the per-macroblock and per-slice encode pipeline:
  classify each block, transform and quantize its residual against the
  prediction its descriptor names, then run the decode pipeline back over
  the result so the next block's intra search sees exactly what the
  decoder will reconstruct.

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

// encodeBlock fills destBlock with srcBlock's quantized residual (or
// leaves it untouched for a copy block type, which the decode pass
// reconstructs instead) and fills in blockDesc's QIndex and Variance.
// blockDesc's BlockType, motion fields, and prediction target must
// already be populated by ClassifyBlock.
func encodeBlock(cfg Config, frame Frame, srcBlock *Macroblock, cache *CacheBank, i, j int32, blockDesc *BlockDesc, destBlock *Macroblock) error {
	quantize := func(residual *Macroblock) {
		blockDesc.QIndex = uint8(queryBlockQuantizationParameter(cfg, uint8(frame.Quality), residual))
		blockDesc.Variance = int16(computeBlockVariance2(residual))
		QuantizeMacroblock(cfg, blockDesc.QIndex, blockDesc.BlockType, residual, destBlock)
	}

	switch blockDesc.BlockType {
	case BlockIntraDefault:
		TransformMacroblock(srcBlock, cache.TransformBlock)
		quantize(cache.TransformBlock)

	case BlockIntraMotionDelta:
		intraPredIndex := queryPredictionIndexByOffset(frame.Index, 0, uint32(len(cache.PredictionCache)))
		beta := NewMacroblock(cache.PredictionCache[intraPredIndex], int(i)+int(blockDesc.MotionX), int(j)+int(blockDesc.MotionY))

		predicted := beta
		if blockDesc.SPPred {
			dirX, dirY := computeMotionDirectionFromFracIndex(blockDesc.SPIndex)
			createSubpixelMacroblock(cache.PredictionCache[intraPredIndex], blockDesc.SPAmount, beta,
				int(i)+int(blockDesc.MotionX)+int(dirX), int(j)+int(blockDesc.MotionY)+int(dirY), cache.MotionBlock)
			predicted = cache.MotionBlock
		}

		SubTransformMacroblock(srcBlock, predicted, cache.TransformBlock)
		quantize(cache.TransformBlock)

	case BlockInterDelta:
		interPredIndex := queryPredictionIndexByOffset(frame.Index, blockDesc.PredictionTarget, uint32(len(cache.PredictionCache)))
		beta := NewMacroblock(cache.PredictionCache[interPredIndex], int(i), int(j))

		SubTransformMacroblock(srcBlock, beta, cache.TransformBlock)
		quantize(cache.TransformBlock)

	case BlockInterMotionDelta:
		interPredIndex := queryPredictionIndexByOffset(frame.Index, blockDesc.PredictionTarget, uint32(len(cache.PredictionCache)))
		beta := NewMacroblock(cache.PredictionCache[interPredIndex], int(i)+int(blockDesc.MotionX), int(j)+int(blockDesc.MotionY))

		predicted := beta
		if blockDesc.SPPred {
			dirX, dirY := computeMotionDirectionFromFracIndex(blockDesc.SPIndex)
			createSubpixelMacroblock(cache.PredictionCache[interPredIndex], blockDesc.SPAmount, beta,
				int(i)+int(blockDesc.MotionX)+int(dirX), int(j)+int(blockDesc.MotionY)+int(dirY), cache.MotionBlock)
			predicted = cache.MotionBlock
		}

		SubTransformMacroblock(srcBlock, predicted, cache.TransformBlock)
		quantize(cache.TransformBlock)

	case BlockIntraMotionCopy, BlockInterMotionCopy, BlockInterCopy:
		// Reconstructed entirely by the decode pass below; no residual to
		// compute here.

	default:
		return errors.Wrap(ErrInvalidResource, "encodeBlock: unrecognized block type")
	}

	return nil
}

// EncodeSlice classifies, transforms, and quantizes every macroblock of
// frame's input image, immediately decoding each block back into the
// destination reference slot so that later blocks' intra search sees
// reconstructed (not source) samples, exactly like the decoder will.
func EncodeSlice(cfg Config, frame Frame, ctx *Context) error {
	destIndex := queryPredictionIndexByOffset(frame.Index, 0, uint32(len(ctx.Cache.PredictionCache)))

	blockIndex := 0
	for j := uint32(0); j < ctx.Height(); j += MacroblockSize {
		for i := uint32(0); i < ctx.Width(); i += MacroblockSize {
			blockDesc := &ctx.BlockTable[blockIndex]
			blockIndex++

			srcBlock := NewMacroblock(ctx.Cache.InputCache, int(i), int(j))
			destBlock := NewMacroblock(ctx.Cache.OutputCache, int(i), int(j))
			destPrediction := NewMacroblock(ctx.Cache.PredictionCache[destIndex], int(i), int(j))

			classified, err := ClassifyBlock(frame, srcBlock, &ctx.Cache, int32(i), int32(j))
			if err != nil {
				return errors.Wrap(err, "EncodeSlice: classify")
			}
			*blockDesc = classified

			if err := encodeBlock(cfg, frame, srcBlock, &ctx.Cache, int32(i), int32(j), blockDesc, destBlock); err != nil {
				return errors.Wrap(err, "EncodeSlice: encode block")
			}

			// The decode pipeline doubles as the encoder's reconstruction
			// path, so later blocks' intra search sees exactly what the
			// decoder will see.
			if err := decodeBlock(cfg, frame, *blockDesc, destBlock, &ctx.Cache, int32(i), int32(j), destPrediction); err != nil {
				return errors.Wrap(err, "EncodeSlice: reconstruct block")
			}
		}
	}

	return nil
}

// EncodeFrame converts input, an RGB24 plane, into the context's working
// colorspace, encodes it, serializes the resulting slice to output, and
// runs the deblocking filter over the frame's reference slot.
func EncodeFrame(cfg Config, input *Plane, frame Frame, ctx *Context, output *BitStream) error {
	destIndex := queryPredictionIndexByOffset(frame.Index, 0, uint32(len(ctx.Cache.PredictionCache)))

	if err := ConvertToWorkingSet(cfg, input, ctx.Cache.InputCache); err != nil {
		return errors.Wrap(err, "EncodeFrame: convert input")
	}

	if err := EncodeSlice(cfg, frame, ctx); err != nil {
		return errors.Wrap(err, "EncodeFrame: encode slice")
	}

	if err := SerializeSlice(cfg, frame, ctx, output); err != nil {
		return errors.Wrap(err, "EncodeFrame: serialize slice")
	}

	DeblockImageFilter(cfg, ctx.BlockTable, ctx.Cache.PredictionCache[destIndex])

	return nil
}
