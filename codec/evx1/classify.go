/*
DESCRIPTION
  classify.go chooses, for each macroblock, the prediction source the
  encoder will spend residual bits on: an intra candidate from the
  current frame's already reconstructed territory, and on inter frames
  one inter candidate per reference slot in the prediction ring, picked
  by SAD with a hard preference for copy blocks.

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
	"math"

	"github.com/pkg/errors"
)

// ClassifyBlock scores an intra candidate and, for inter frames, one inter
// candidate per reference slot, keeping whichever is cheapest: a copy
// candidate always beats a non-copy one regardless of SAD, and between two
// candidates of the same copy status the lower SAD wins. The closest
// reference slot is evaluated first so ties favor cheaper-to-encode
// prediction targets.
func ClassifyBlock(frame Frame, srcBlock *Macroblock, cache *CacheBank, i, j int32) (BlockDesc, error) {
	var best BlockDesc
	bestSAD := CalculateIntraPrediction(frame, srcBlock, i, j, cache.PredictionCache, cache.MotionBlock, &best)

	if frame.Type == FrameInter {
		for offset := uint8(1); int(offset) < len(cache.PredictionCache); offset++ {
			var interDesc BlockDesc
			interSAD := CalculateInterPrediction(frame, srcBlock, i, j, cache.PredictionCache, cache.MotionBlock, offset, &interDesc)

			if interDesc.BlockType.IsCopy() != best.BlockType.IsCopy() {
				if interDesc.BlockType.IsCopy() {
					best, bestSAD = interDesc, interSAD
				}
				continue
			}
			if interSAD < bestSAD {
				best, bestSAD = interDesc, interSAD
			}
		}
	}

	if bestSAD == math.MaxInt32 {
		return BlockDesc{}, errors.Wrap(ErrExecutionFailure, "ClassifyBlock: motion estimation found no candidate")
	}

	return best, nil
}
