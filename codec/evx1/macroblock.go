/*
DESCRIPTION
  macroblock.go implements the Macroblock view: a lightweight alias into
  an ImageSet's three planes covering one 16x16 luma / 8x8 chroma unit,
  plus the block-level arithmetic (copy, add, subtract, half/quarter pel
  blend) the encode and decode pipelines are built from.

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
	MacroblockSize       = 16
	MacroblockShift      = 4 // log2(MacroblockSize)
	MacroblockChromaSize = MacroblockSize / 2
)

// Macroblock is a weak reference into an ImageSet's Y/U/V planes at a
// given top-left pixel position. It does not own the underlying memory;
// destroying a Macroblock never deinitializes the source image.
type Macroblock struct {
	img       *ImageSet
	pixelX    int
	pixelY    int
}

// NewMacroblock returns a Macroblock view rooted at (pixelX, pixelY)
// within src.
func NewMacroblock(src *ImageSet, pixelX, pixelY int) *Macroblock {
	return &Macroblock{img: src, pixelX: pixelX, pixelY: pixelY}
}

func (m *Macroblock) luma(i, j int) int16 {
	return m.img.Y.Sample16(uint32(m.pixelX+i), uint32(m.pixelY+j))
}

func (m *Macroblock) setLuma(i, j int, v int16) {
	m.img.Y.SetSample16(uint32(m.pixelX+i), uint32(m.pixelY+j), v)
}

func (m *Macroblock) chromaU(i, j int) int16 {
	return m.img.U.Sample16(uint32(m.pixelX/2+i), uint32(m.pixelY/2+j))
}

func (m *Macroblock) setChromaU(i, j int, v int16) {
	m.img.U.SetSample16(uint32(m.pixelX/2+i), uint32(m.pixelY/2+j), v)
}

func (m *Macroblock) chromaV(i, j int) int16 {
	return m.img.V.Sample16(uint32(m.pixelX/2+i), uint32(m.pixelY/2+j))
}

func (m *Macroblock) setChromaV(i, j int, v int16) {
	m.img.V.SetSample16(uint32(m.pixelX/2+i), uint32(m.pixelY/2+j), v)
}

// LumaBlock returns the macroblock's 16x16 luma samples in raster order.
func (m *Macroblock) LumaBlock() [MacroblockSize * MacroblockSize]int16 {
	var out [MacroblockSize * MacroblockSize]int16
	for j := 0; j < MacroblockSize; j++ {
		for i := 0; i < MacroblockSize; i++ {
			out[j*MacroblockSize+i] = m.luma(i, j)
		}
	}
	return out
}

// SetLumaBlock writes a full 16x16 luma block back into the image.
func (m *Macroblock) SetLumaBlock(block *[MacroblockSize * MacroblockSize]int16) {
	for j := 0; j < MacroblockSize; j++ {
		for i := 0; i < MacroblockSize; i++ {
			m.setLuma(i, j, block[j*MacroblockSize+i])
		}
	}
}

// ChromaBlock returns one chroma plane's 8x8 samples in raster order.
func (m *Macroblock) ChromaBlock(plane int) [MacroblockChromaSize * MacroblockChromaSize]int16 {
	var out [MacroblockChromaSize * MacroblockChromaSize]int16
	for j := 0; j < MacroblockChromaSize; j++ {
		for i := 0; i < MacroblockChromaSize; i++ {
			var v int16
			if plane == 0 {
				v = m.chromaU(i, j)
			} else {
				v = m.chromaV(i, j)
			}
			out[j*MacroblockChromaSize+i] = v
		}
	}
	return out
}

// SetChromaBlock writes one chroma plane's 8x8 samples back into the image.
func (m *Macroblock) SetChromaBlock(plane int, block *[MacroblockChromaSize * MacroblockChromaSize]int16) {
	for j := 0; j < MacroblockChromaSize; j++ {
		for i := 0; i < MacroblockChromaSize; i++ {
			if plane == 0 {
				m.setChromaU(i, j, block[j*MacroblockChromaSize+i])
			} else {
				m.setChromaV(i, j, block[j*MacroblockChromaSize+i])
			}
		}
	}
}

// clearMacroblock zeroes every sample covered by m.
func clearMacroblock(m *Macroblock) {
	var zero [MacroblockSize * MacroblockSize]int16
	m.SetLumaBlock(&zero)
	var zeroC [MacroblockChromaSize * MacroblockChromaSize]int16
	m.SetChromaBlock(0, &zeroC)
	m.SetChromaBlock(1, &zeroC)
}

// copyMacroblock copies src's samples into dest.
func copyMacroblock(src, dest *Macroblock) {
	y := src.LumaBlock()
	dest.SetLumaBlock(&y)
	u := src.ChromaBlock(0)
	dest.SetChromaBlock(0, &u)
	v := src.ChromaBlock(1)
	dest.SetChromaBlock(1, &v)
}

// addMacroblock writes dest = left + right, sample-wise.
func addMacroblock(left, right, dest *Macroblock) {
	l, r := left.LumaBlock(), right.LumaBlock()
	var out [MacroblockSize * MacroblockSize]int16
	for i := range out {
		out[i] = l[i] + r[i]
	}
	dest.SetLumaBlock(&out)

	for p := 0; p < 2; p++ {
		lc, rc := left.ChromaBlock(p), right.ChromaBlock(p)
		var outc [MacroblockChromaSize * MacroblockChromaSize]int16
		for i := range outc {
			outc[i] = lc[i] + rc[i]
		}
		dest.SetChromaBlock(p, &outc)
	}
}

// subMacroblock writes dest = left - right, sample-wise.
func subMacroblock(left, right, dest *Macroblock) {
	l, r := left.LumaBlock(), right.LumaBlock()
	var out [MacroblockSize * MacroblockSize]int16
	for i := range out {
		out[i] = l[i] - r[i]
	}
	dest.SetLumaBlock(&out)

	for p := 0; p < 2; p++ {
		lc, rc := left.ChromaBlock(p), right.ChromaBlock(p)
		var outc [MacroblockChromaSize * MacroblockChromaSize]int16
		for i := range outc {
			outc[i] = lc[i] - rc[i]
		}
		dest.SetChromaBlock(p, &outc)
	}
}

// lerpMacroblockHalf computes a half-pel blend: dest = round_out(a+b, 1)/2.
func lerpMacroblockHalf(a, b, dest *Macroblock) {
	la, lb := a.LumaBlock(), b.LumaBlock()
	var out [MacroblockSize * MacroblockSize]int16
	for i := range out {
		out[i] = int16(roundOut(int32(la[i])+int32(lb[i]), 1) / 2)
	}
	dest.SetLumaBlock(&out)

	for p := 0; p < 2; p++ {
		ca, cb := a.ChromaBlock(p), b.ChromaBlock(p)
		var outc [MacroblockChromaSize * MacroblockChromaSize]int16
		for i := range outc {
			outc[i] = int16(roundOut(int32(ca[i])+int32(cb[i]), 1) / 2)
		}
		dest.SetChromaBlock(p, &outc)
	}
}

// lerpMacroblockQuarter computes a quarter-pel blend biased 3:1 toward a:
// dest = round_out(3*a+b, 2)/4.
func lerpMacroblockQuarter(a, b, dest *Macroblock) {
	la, lb := a.LumaBlock(), b.LumaBlock()
	var out [MacroblockSize * MacroblockSize]int16
	for i := range out {
		out[i] = int16(roundOut(3*int32(la[i])+int32(lb[i]), 2) / 4)
	}
	dest.SetLumaBlock(&out)

	for p := 0; p < 2; p++ {
		ca, cb := a.ChromaBlock(p), b.ChromaBlock(p)
		var outc [MacroblockChromaSize * MacroblockChromaSize]int16
		for i := range outc {
			outc[i] = int16(roundOut(3*int32(ca[i])+int32(cb[i]), 2) / 4)
		}
		dest.SetChromaBlock(p, &outc)
	}
}

// createSubpixelMacroblock blends source against the macroblock rooted at
// (targetX, targetY) within prediction, choosing half-pel or quarter-pel
// weighting based on amount.
func createSubpixelMacroblock(prediction *ImageSet, amount bool, source *Macroblock, targetX, targetY int, output *Macroblock) {
	spBlock := NewMacroblock(prediction, targetX, targetY)
	if !amount {
		lerpMacroblockHalf(source, spBlock, output)
	} else {
		lerpMacroblockQuarter(source, spBlock, output)
	}
}
