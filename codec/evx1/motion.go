/*
DESCRIPTION
  motion.go implements block motion estimation: an integer-pixel search
  (a fixed triangle scan for intra prediction, a full logarithmic scan
  for inter prediction) followed by a half-pel/quarter-pel refinement
  pass over the eight neighbors of the best integer match.

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

import "math"

const (
	motionSADThreshold = 8 * 1024
	motionSearchRadius = 16
)

// queryPredictionIndexByOffset maps a frame index and a "frames back"
// offset onto a slot in the reference ring buffer.
func queryPredictionIndexByOffset(frameIndex uint32, offset uint8, refCount uint32) uint32 {
	return (frameIndex + refCount - uint32(offset)) % refCount
}

// computeMotionFracIndexFromDirection maps a (-1..1, -1..1) sub-pixel
// neighbor offset onto one of eight canonical directions: 0-2 is the row
// above, 3/4 are left/right, 5-7 is the row below. The center (0,0) is
// never a valid direction and is not handled by any caller.
func computeMotionFracIndexFromDirection(i, j int16) uint8 {
	i++
	j++

	switch j {
	case 0:
		return uint8(i)
	case 1:
		switch i {
		case 0:
			return 3
		case 2:
			return 4
		}
	case 2:
		return uint8(i + 5)
	}

	return 0
}

// computeMotionDirectionFromFracIndex reverses
// computeMotionFracIndexFromDirection, used when reconstructing a
// sub-pixel predicted block during decode.
func computeMotionDirectionFromFracIndex(fracIndex uint8) (dirX, dirY int16) {
	switch fracIndex {
	case 0, 1, 2:
		return int16(fracIndex) - 1, -1
	case 3:
		return -1, 0
	case 4:
		return 1, 0
	case 5, 6, 7:
		return int16(fracIndex) - 6, 1
	}
	return 0, 0
}

type predictionParams struct {
	prediction      *ImageSet
	madSkipThreshold int32
	pixelX           int32
	pixelY           int32
}

type motionSelection struct {
	bestX, bestY            int32
	bestSAD, bestMAD, bestSSD int32
	spIndex                  uint8
	spAmount                 bool
	spEnabled                bool
}

func pixelDistanceSQ(sx, sy, dx, dy int32) int32 {
	return (sx-dx)*(sx-dx) + (sy-dy)*(sy-dy)
}

// evaluateMotionCandidate scores one integer-pixel candidate block against
// the running best in sel. The strictly-lower-SAD branch is never gated by
// the SAD threshold; only the SAD-tie/lower-SSD branch is. This matches
// the original's operator precedence exactly (&& binds tighter than ||).
func evaluateMotionCandidate(currentX, currentY int32, params predictionParams, srcBlock *Macroblock, sel *motionSelection) {
	testBlock := NewMacroblock(params.prediction, int(currentX), int(currentY))

	currentSAD := computeBlockSAD(srcBlock, testBlock)
	currentSSD := pixelDistanceSQ(currentX, currentY, params.pixelX, params.pixelY)
	currentMAD := computeBlockMAD(srcBlock, testBlock)

	if sel.bestMAD < params.madSkipThreshold {
		if currentMAD < sel.bestMAD ||
			(currentMAD == sel.bestMAD && currentSSD < sel.bestSSD) {
			sel.bestX, sel.bestY = currentX, currentY
			sel.bestSAD = currentSAD
			sel.bestSSD = currentSSD
			sel.bestMAD = currentMAD
		}
		return
	}

	if currentSAD < sel.bestSAD ||
		((currentSAD == sel.bestSAD && currentSSD < sel.bestSSD) && currentSAD < motionSADThreshold) ||
		currentMAD < params.madSkipThreshold {
		sel.bestX, sel.bestY = currentX, currentY
		sel.bestSAD = currentSAD
		sel.bestSSD = currentSSD
		sel.bestMAD = computeBlockMAD(srcBlock, testBlock)
	}
}

// evaluateSubpelMotionCandidate scores both the half-pel and quarter-pel
// blend of bestBlock against the integer-pixel neighbor at (targetX,
// targetY), updating sel in place when either beats the running best.
func evaluateSubpelMotionCandidate(targetX, targetY int32, i, j int16, params predictionParams, srcBlock *Macroblock, cacheBlock *Macroblock, bestBlock *Macroblock, sel *motionSelection) {
	testBlock := NewMacroblock(params.prediction, int(targetX), int(targetY))

	lerpMacroblockHalf(bestBlock, testBlock, cacheBlock)
	currentSAD := computeBlockSAD(srcBlock, cacheBlock)
	currentMAD := computeBlockMAD(srcBlock, cacheBlock)

	if sel.bestMAD < params.madSkipThreshold {
		if currentMAD < sel.bestMAD {
			sel.spEnabled = true
			sel.spAmount = false
			sel.spIndex = computeMotionFracIndexFromDirection(i, j)
			sel.bestSAD = currentSAD
			sel.bestMAD = currentMAD
		}
	} else if (currentSAD < sel.bestSAD && currentSAD < motionSADThreshold) || currentMAD < params.madSkipThreshold {
		sel.spEnabled = true
		sel.spAmount = false
		sel.spIndex = computeMotionFracIndexFromDirection(i, j)
		sel.bestSAD = currentSAD
		sel.bestMAD = currentMAD
	}

	lerpMacroblockQuarter(bestBlock, testBlock, cacheBlock)
	currentSAD = computeBlockSAD(srcBlock, cacheBlock)
	currentMAD = computeBlockMAD(srcBlock, cacheBlock)

	if sel.bestMAD < params.madSkipThreshold {
		if currentMAD < sel.bestMAD {
			sel.spEnabled = true
			sel.spAmount = true
			sel.spIndex = computeMotionFracIndexFromDirection(i, j)
			sel.bestSAD = currentSAD
			sel.bestMAD = currentMAD
		}
	} else if (currentSAD < sel.bestSAD && currentSAD < motionSADThreshold) || currentMAD < params.madSkipThreshold {
		sel.spEnabled = true
		sel.spAmount = true
		sel.spIndex = computeMotionFracIndexFromDirection(i, j)
		sel.bestSAD = currentSAD
		sel.bestMAD = currentMAD
	}
}

// performIntraMotionSearch scans an (left,top)-(right,bottom) grid, in
// steps of step, relative to sel's current best position. Candidates that
// fall within one macroblock of the current pixel (i.e. ahead of it in
// raster order, into not-yet-decoded territory) are skipped, since an
// intra search may only reference already reconstructed samples.
func performIntraMotionSearch(left, top, right, bottom, step int16, params predictionParams, srcBlock *Macroblock, sel *motionSelection) {
	baseX, baseY := sel.bestX, sel.bestY

	for j := top; j <= bottom; j += step {
		for i := left; i <= right; i += step {
			currentX := baseX + int32(i)
			currentY := baseY + int32(j)

			if currentY > params.pixelY-MacroblockSize && currentX > params.pixelX-MacroblockSize {
				continue
			}
			if currentX < 0 || currentX > int32(params.prediction.Width())-MacroblockSize ||
				currentY < 0 || currentY > int32(params.prediction.Height())-MacroblockSize {
				continue
			}

			evaluateMotionCandidate(currentX, currentY, params, srcBlock, sel)
		}
	}
}

// performInterMotionSearch scans the same grid as performIntraMotionSearch
// but without the raster-order restriction, since an inter search
// references a fully reconstructed prior frame.
func performInterMotionSearch(left, top, right, bottom, step int16, params predictionParams, srcBlock *Macroblock, sel *motionSelection) {
	baseX, baseY := sel.bestX, sel.bestY

	for j := top; j <= bottom; j += step {
		for i := left; i <= right; i += step {
			currentX := baseX + int32(i)
			currentY := baseY + int32(j)

			if currentX < 0 || currentX > int32(params.prediction.Width())-MacroblockSize ||
				currentY < 0 || currentY > int32(params.prediction.Height())-MacroblockSize {
				continue
			}

			evaluateMotionCandidate(currentX, currentY, params, srcBlock, sel)
		}
	}
}

func performIntraSubpixelMotionSearch(params predictionParams, srcBlock, cacheBlock *Macroblock, sel *motionSelection) {
	bestBlock := NewMacroblock(params.prediction, int(sel.bestX), int(sel.bestY))

	sel.spIndex = 0
	sel.spAmount = false
	sel.spEnabled = false

	for j := int16(-1); j <= 1; j++ {
		for i := int16(-1); i <= 1; i++ {
			if i == 0 && j == 0 {
				continue
			}

			targetX := sel.bestX + int32(i)
			targetY := sel.bestY + int32(j)

			if targetY > params.pixelY-MacroblockSize && targetX > params.pixelX-MacroblockSize {
				continue
			}
			if targetX < 0 || targetX > int32(params.prediction.Width())-MacroblockSize ||
				targetY < 0 || targetY > int32(params.prediction.Height())-MacroblockSize {
				continue
			}

			evaluateSubpelMotionCandidate(targetX, targetY, i, j, params, srcBlock, cacheBlock, bestBlock, sel)
		}
	}
}

func performInterSubpixelMotionSearch(params predictionParams, srcBlock, cacheBlock *Macroblock, sel *motionSelection) {
	bestBlock := NewMacroblock(params.prediction, int(sel.bestX), int(sel.bestY))

	sel.spIndex = 0
	sel.spAmount = false
	sel.spEnabled = false

	for j := int16(-1); j <= 1; j++ {
		for i := int16(-1); i <= 1; i++ {
			if i == 0 && j == 0 {
				continue
			}

			targetX := sel.bestX + int32(i)
			targetY := sel.bestY + int32(j)

			if targetX < 0 || targetX > int32(params.prediction.Width())-MacroblockSize ||
				targetY < 0 || targetY > int32(params.prediction.Height())-MacroblockSize {
				continue
			}

			evaluateSubpelMotionCandidate(targetX, targetY, i, j, params, srcBlock, cacheBlock, bestBlock, sel)
		}
	}
}

// CalculateIntraPrediction searches the current (partially reconstructed)
// frame for the closest match to srcBlock, preferring a co-located copy,
// and fills output with the resulting descriptor. It returns the best SAD
// found, matching calculate_intra_prediction.
func CalculateIntraPrediction(frame Frame, srcBlock *Macroblock, pixelX, pixelY int32, predictionRing []*ImageSet, motionCache *Macroblock, output *BlockDesc) int32 {
	sel := &motionSelection{
		bestX:   pixelX,
		bestY:   pixelY,
		bestSAD: computeBlockSelfSAD(srcBlock),
		bestMAD: math.MaxInt32,
		bestSSD: math.MaxInt32,
	}

	params := predictionParams{
		pixelX:           pixelX,
		pixelY:           pixelY,
		madSkipThreshold: (int32(frame.Quality) >> 2) + 1,
	}
	intraPredIndex := queryPredictionIndexByOffset(frame.Index, 0, uint32(len(predictionRing)))
	params.prediction = predictionRing[intraPredIndex]

	// Scan a triangle of positions behind the current pixel in raster
	// order (the only part of the intra frame already reconstructed):
	//
	//   X   X   X
	//   X   X   X
	//   X  Pixel
	performIntraMotionSearch(-motionSearchRadius, -(motionSearchRadius << 1), motionSearchRadius, 0, motionSearchRadius, params, srcBlock, sel)

	for i := int16(motionSearchRadius >> 1); i > 0; i >>= 1 {
		performIntraMotionSearch(-i, -i, i, i, i, params, srcBlock, sel)
	}

	performIntraSubpixelMotionSearch(params, srcBlock, motionCache, sel)

	output.Clear()
	output.BlockType |= 0x1 // intra

	if sel.bestX != pixelX || sel.bestY != pixelY || sel.spEnabled {
		output.BlockType |= 0x2 // motion
	}
	if sel.bestMAD < params.madSkipThreshold {
		output.BlockType |= 0x4 // copy
	}

	output.PredictionTarget = 0
	output.MotionX = int16(sel.bestX - pixelX)
	output.MotionY = int16(sel.bestY - pixelY)
	output.SPPred = sel.spEnabled
	output.SPAmount = sel.spAmount
	output.SPIndex = sel.spIndex

	return sel.bestSAD
}

// CalculateInterPrediction searches predictionRing's pred_offset-th prior
// frame for the closest match to srcBlock and fills output with the
// resulting descriptor. It returns the best SAD found, matching
// calculate_inter_prediction.
func CalculateInterPrediction(frame Frame, srcBlock *Macroblock, pixelX, pixelY int32, predictionRing []*ImageSet, motionCache *Macroblock, predOffset uint8, output *BlockDesc) int32 {
	sel := &motionSelection{
		bestX:   pixelX,
		bestY:   pixelY,
		bestSAD: math.MaxInt32,
		bestMAD: math.MaxInt32,
		bestSSD: math.MaxInt32,
	}

	params := predictionParams{
		pixelX:           pixelX,
		pixelY:           pixelY,
		madSkipThreshold: (int32(frame.Quality) >> 2) + 1,
	}
	interPredIndex := queryPredictionIndexByOffset(frame.Index, predOffset, uint32(len(predictionRing)))
	params.prediction = predictionRing[interPredIndex]

	// Block types carry different coding costs; seeding best_sad/best_mad
	// from the co-located block lets a SAD tie during search favor the
	// cheapest (copy) block type.
	testBlock := NewMacroblock(params.prediction, int(pixelX), int(pixelY))
	sel.bestSAD = computeBlockSAD(srcBlock, testBlock)
	sel.bestMAD = computeBlockMAD(srcBlock, testBlock)

	if sel.bestMAD >= params.madSkipThreshold {
		// Scan a full neighborhood around the current pixel:
		//
		//   X   X   X
		//   X Pixel X
		//   X   X   X
		for i := int16(motionSearchRadius); i > 0; i >>= 1 {
			performInterMotionSearch(-i, -i, i, i, i, params, srcBlock, sel)
		}

		performInterSubpixelMotionSearch(params, srcBlock, motionCache, sel)
	}

	output.Clear()
	// intra bit left unset (inter source)

	if sel.bestX != pixelX || sel.bestY != pixelY || sel.spEnabled {
		output.BlockType |= 0x2 // motion
	}
	if sel.bestMAD < params.madSkipThreshold {
		output.BlockType |= 0x4 // copy
	}

	output.PredictionTarget = predOffset
	output.MotionX = int16(sel.bestX - pixelX)
	output.MotionY = int16(sel.bestY - pixelY)
	output.SPPred = sel.spEnabled
	output.SPAmount = sel.spAmount
	output.SPIndex = sel.spIndex

	return sel.bestSAD
}
