/*
DESCRIPTION
  deblock.go implements the in-loop deblocking filter run over
  reconstructed macroblock edges: a boundary strength derived from the
  neighboring blocks' copy state, an alpha/beta threshold gate keyed to
  the edge's average quantization parameter, and a wide (strength 2) or
  narrow (strength 1) smoothing kernel.

  Chroma edges are stepped every 4 samples rather than every 8; the
  original always steps by EVX_DEBLOCK_STEP_SIZE (8) regardless of
  plane, which on the 8 pixel wide chroma grid visits only chroma
  macroblock boundaries. Stepping by 4 also filters the line halfway
  across each 8x8 chroma block.

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

var alphaTable = [maxMPEGQuantLevels]int16{
	0, 0, 0, 0, 0, 0, 0, 1,
	1, 1, 2, 2, 3, 3, 4, 5,
	6, 7, 8, 9, 10, 12, 14, 16,
	18, 20, 22, 24, 26, 29, 32, 35,
}

var betaTable = [maxMPEGQuantLevels]int16{
	0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1, 2, 2, 2, 3,
	3, 3, 4, 4, 4, 5, 5, 6,
	6, 7, 7, 8, 8, 9, 10, 11,
}

// hasIdenticalMotionState reports whether two block descriptors carry the
// same motion compensation state. Nothing in the package calls it.
func hasIdenticalMotionState(left, right BlockDesc) bool {
	return left.BlockType.IsMotion() == right.BlockType.IsMotion() &&
		left.MotionX == right.MotionX &&
		left.MotionY == right.MotionY
}

func deblockMacroblockIndex(i, j, macroblockSize, widthInBlocks uint32) uint32 {
	return (i / macroblockSize) + (j/macroblockSize)*widthInBlocks
}

// computeAverageQP averages the neighboring blocks' quantization
// parameters, ignoring whichever side is a copy block (a copy block
// carries no meaningful q_index since it coded no residual).
func computeAverageQP(left, right BlockDesc) uint8 {
	if !left.BlockType.IsCopy() && !right.BlockType.IsCopy() {
		return uint8((uint16(left.QIndex) + uint16(right.QIndex)) >> 1)
	}
	if !left.BlockType.IsCopy() {
		return left.QIndex
	}
	if !right.BlockType.IsCopy() {
		return right.QIndex
	}
	return 0
}

// computeDeblockStrength returns 0 if both neighbors are copy blocks
// (nothing to smooth), 1 if exactly one is, and 2 otherwise.
func computeDeblockStrength(left, right BlockDesc) uint8 {
	leftCopy := left.BlockType.IsCopy()
	rightCopy := right.BlockType.IsCopy()

	if leftCopy && rightCopy {
		return 0
	}
	if leftCopy != rightCopy {
		return 1
	}
	return 2
}

// deblockFilterValues computes the smoothed edge samples for one line
// crossing a macroblock boundary. ok is false when the alpha/beta gate
// rejects the edge, in which case the returned samples equal the inputs
// unchanged.
func deblockFilterValues(p3, p2, p1, p0, q0, q1, q2, q3 int16, averageQP, strength uint8, isLuma bool) (outP2, outP1, outP0, outQ0, outQ1, outQ2 int16, ok bool) {
	deltaP0Q0 := absInt32(int32(p0) - int32(q0))
	deltaP1P0 := absInt32(int32(p1) - int32(p0))
	deltaQ1Q0 := absInt32(int32(q1) - int32(q0))

	if deltaP0Q0 >= int32(alphaTable[averageQP]) ||
		deltaP1P0 >= int32(betaTable[averageQP]) ||
		deltaQ1Q0 >= int32(betaTable[averageQP]) {
		return p2, p1, p0, q0, q1, q2, false
	}

	outP2, outP1, outP0, outQ0, outQ1, outQ2 = p2, p1, p0, q0, q1, q2

	switch strength {
	case 2:
		outP0 = int16(roundedDiv(int32(p2)+2*int32(p1)+2*int32(p0)+2*int32(q0)+int32(q1), 8))
		outP1 = int16(roundedDiv(int32(p2)+int32(p1)+int32(p0)+int32(q0), 4))
		outQ0 = int16(roundedDiv(int32(p1)+2*int32(p0)+2*int32(q0)+2*int32(q1)+int32(q2), 8))
		outQ1 = int16(roundedDiv(int32(p0)+int32(q0)+int32(q1)+int32(q2), 4))

		if isLuma {
			outP2 = int16(roundedDiv(2*int32(p3)+3*int32(p2)+int32(p1)+int32(p0)+int32(q0), 8))
			outQ2 = int16(roundedDiv(2*int32(q3)+3*int32(q2)+int32(q1)+int32(q0)+int32(p0), 8))
		}

	case 1:
		outP0 = int16(roundedDiv((int32(q0)+int32(p0))*4+int32(p1)-int32(q1), 8))
		outQ0 = int16(roundedDiv((int32(q0)+int32(p0))*4+int32(q1)-int32(p1), 8))

		if isLuma {
			outP1 = int16(roundedDiv(int32(p2)*4+int32(p0)*2+int32(q0)*2, 8))
			outQ1 = int16(roundedDiv(int32(q2)*4+int32(q0)*2+int32(p0)*2, 8))
		}
	}

	return outP2, outP1, outP0, outQ0, outQ1, outQ2, true
}

// deblockVerticalEdge smooths count samples straddling a vertical
// macroblock edge at column x, one sample per row starting at yStart.
func deblockVerticalEdge(p *Plane, x, yStart, count int, averageQP, strength uint8, isLuma bool) {
	for i := 0; i < count; i++ {
		y := uint32(yStart + i)

		q0 := p.Sample16(uint32(x), y)
		q1 := p.Sample16(uint32(x+1), y)
		q2 := p.Sample16(uint32(x+2), y)
		q3 := p.Sample16(uint32(x+3), y)
		p0 := p.Sample16(uint32(x-1), y)
		p1 := p.Sample16(uint32(x-2), y)
		p2 := p.Sample16(uint32(x-3), y)
		p3 := p.Sample16(uint32(x-4), y)

		newP2, newP1, newP0, newQ0, newQ1, newQ2, ok := deblockFilterValues(p3, p2, p1, p0, q0, q1, q2, q3, averageQP, strength, isLuma)
		if !ok {
			continue
		}

		p.SetSample16(uint32(x-3), y, newP2)
		p.SetSample16(uint32(x-2), y, newP1)
		p.SetSample16(uint32(x-1), y, newP0)
		p.SetSample16(uint32(x), y, newQ0)
		p.SetSample16(uint32(x+1), y, newQ1)
		p.SetSample16(uint32(x+2), y, newQ2)
	}
}

// deblockHorizontalEdge smooths count samples straddling a horizontal
// macroblock edge at row y, one sample per column starting at xStart.
func deblockHorizontalEdge(p *Plane, xStart, y, count int, averageQP, strength uint8, isLuma bool) {
	for i := 0; i < count; i++ {
		x := uint32(xStart + i)

		q0 := p.Sample16(x, uint32(y))
		q1 := p.Sample16(x, uint32(y+1))
		q2 := p.Sample16(x, uint32(y+2))
		q3 := p.Sample16(x, uint32(y+3))
		p0 := p.Sample16(x, uint32(y-1))
		p1 := p.Sample16(x, uint32(y-2))
		p2 := p.Sample16(x, uint32(y-3))
		p3 := p.Sample16(x, uint32(y-4))

		newP2, newP1, newP0, newQ0, newQ1, newQ2, ok := deblockFilterValues(p3, p2, p1, p0, q0, q1, q2, q3, averageQP, strength, isLuma)
		if !ok {
			continue
		}

		p.SetSample16(x, uint32(y-3), newP2)
		p.SetSample16(x, uint32(y-2), newP1)
		p.SetSample16(x, uint32(y-1), newP0)
		p.SetSample16(x, uint32(y), newQ0)
		p.SetSample16(x, uint32(y+1), newQ1)
		p.SetSample16(x, uint32(y+2), newQ2)
	}
}

func computeVerticalBoundaryStrength(i, j, macroblockSize, widthInBlocks uint32, blockTable []BlockDesc) (strength, avgQP uint8) {
	leftIndex := deblockMacroblockIndex(i-1, j, macroblockSize, widthInBlocks)
	rightIndex := deblockMacroblockIndex(i, j, macroblockSize, widthInBlocks)
	left, right := blockTable[leftIndex], blockTable[rightIndex]

	return computeDeblockStrength(left, right), computeAverageQP(left, right)
}

func computeHorizontalBoundaryStrength(i, j, macroblockSize, widthInBlocks uint32, blockTable []BlockDesc) (strength, avgQP uint8) {
	topIndex := deblockMacroblockIndex(i, j-1, macroblockSize, widthInBlocks)
	bottomIndex := deblockMacroblockIndex(i, j, macroblockSize, widthInBlocks)
	top, bottom := blockTable[topIndex], blockTable[bottomIndex]

	return computeDeblockStrength(top, bottom), computeAverageQP(top, bottom)
}

// deblockPlane filters every edge in p, including the internal seam a
// macroblock's four independent 8x8 transform quadrants leave behind.
// Edges are stepped every stepSize samples; boundary strength is always
// resolved against blockTable at macroblockSize granularity, so an
// internal (non-macroblock) edge naturally compares a block against
// itself and is smoothed only when that block is not a copy block.
func deblockPlane(p *Plane, macroblockSize, stepSize uint32, blockTable []BlockDesc, isLuma bool) {
	width, height := p.Width(), p.Height()
	widthInBlocks := width / macroblockSize

	for i := stepSize; i < width; i += stepSize {
		if strength, avgQP := computeVerticalBoundaryStrength(i, 0, macroblockSize, widthInBlocks, blockTable); strength != 0 {
			deblockVerticalEdge(p, int(i), 0, int(stepSize), avgQP, strength, isLuma)
		}
	}

	for j := stepSize; j < height; j += stepSize {
		if strength, avgQP := computeHorizontalBoundaryStrength(0, j, macroblockSize, widthInBlocks, blockTable); strength != 0 {
			deblockHorizontalEdge(p, 0, int(j), int(stepSize), avgQP, strength, isLuma)
		}

		for i := stepSize; i < width; i += stepSize {
			if strength, avgQP := computeHorizontalBoundaryStrength(i, j, macroblockSize, widthInBlocks, blockTable); strength != 0 {
				deblockHorizontalEdge(p, int(i), int(j), int(stepSize), avgQP, strength, isLuma)
			}

			if strength, avgQP := computeVerticalBoundaryStrength(i, j, macroblockSize, widthInBlocks, blockTable); strength != 0 {
				deblockVerticalEdge(p, int(i), int(j), int(stepSize), avgQP, strength, isLuma)
			}
		}
	}
}

// DeblockImageSet filters every plane of img in place.
func DeblockImageSet(blockTable []BlockDesc, img *ImageSet) {
	deblockPlane(img.Y, MacroblockSize, 8, blockTable, true)
	deblockPlane(img.U, MacroblockChromaSize, 4, blockTable, false)
	deblockPlane(img.V, MacroblockChromaSize, 4, blockTable, false)
}

// DeblockImageFilter is the config-gated entry point the encode and
// decode pipelines call after reconstruction.
func DeblockImageFilter(cfg Config, blockTable []BlockDesc, img *ImageSet) {
	if !cfg.EnableDeblocking {
		return
	}
	DeblockImageSet(blockTable, img)
}
