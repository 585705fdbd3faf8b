/*
DESCRIPTION
  transform.go implements the fixed point DCT-II used to decorrelate
  residual and source macroblocks before quantization. The only true
  transform kernel is the 8x8 separable form; a 16x16 macroblock's luma
  plane is always transformed as four independent 8x8 quadrants, since
  the original's direct 16x16 line transform is dead code (its "fast"
  variant is unimplemented upstream and the slow variant is never
  reached by any caller).

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

// sub8x8Line writes output[i] = left[i] - right[i] for the first 8
// elements of each slice.
func sub8x8Line(left, right, output []int16) {
	for i := 0; i < 8; i++ {
		output[i] = left[i] - right[i]
	}
}

// transform8x8Line runs one 1-D DCT-II pass of length 8 over src, reading
// every srcPitch-th element starting at srcOffset and writing every
// destPitch-th element starting at destOffset.
func transform8x8Line(src []int16, srcOffset, srcPitch int, dest []int16, destOffset, destPitch int) {
	for i := 0; i < 8; i++ {
		var total int32
		for k := 0; k < 8; k++ {
			total += int32(src[srcOffset+k*srcPitch]) * transform8x8Trig128[i*8+k]
		}
		if i == 0 {
			// mul by sqrt(1 / 8)
			total = (total * 45) / 128
		} else {
			// mul by sqrt(2 / 8)
			total = total / 2
		}
		total = roundedDiv(total, 128)
		dest[destOffset+i*destPitch] = int16(total)
	}
}

func inverseTransform8x8Line(src []int16, srcOffset, srcPitch int, dest []int16, destOffset, destPitch int) {
	for i := 0; i < 8; i++ {
		var total int32
		for k := 0; k < 8; k++ {
			temp := int32(src[srcOffset+k*srcPitch]) * transform8x8Trig128[k*8+i]
			if k == 0 {
				temp = (temp * 45) / 128
			} else {
				temp = temp / 2
			}
			total += temp
		}
		total = roundedDiv(total, 128)
		dest[destOffset+i*destPitch] = int16(total)
	}
}

func inverseTransformAdd8x8Line(src []int16, srcOffset, srcPitch int, add []int16, addOffset, addPitch int, dest []int16, destOffset, destPitch int) {
	for i := 0; i < 8; i++ {
		var total int32
		for k := 0; k < 8; k++ {
			temp := int32(src[srcOffset+k*srcPitch]) * transform8x8Trig128[k*8+i]
			if k == 0 {
				temp = (temp * 45) / 128
			} else {
				temp = temp / 2
			}
			total += temp
		}
		total = roundedDiv(total, 128)
		dest[destOffset+i*destPitch] = int16(total) + add[addOffset+i*addPitch]
	}
}

// transform8x8 runs the separable horizontal-then-vertical DCT-II over an
// 8x8 block.
func transform8x8(src []int16, srcOffset, srcPitch int, dest []int16, destOffset, destPitch int) {
	var scratch [64]int16

	for j := 0; j < 8; j++ {
		transform8x8Line(src, srcOffset+j*srcPitch, 1, scratch[:], j*8, 1)
	}
	for j := 0; j < 8; j++ {
		transform8x8Line(scratch[:], j, 8, dest, destOffset+j, destPitch)
	}
}

func inverseTransform8x8(src []int16, srcOffset, srcPitch int, dest []int16, destOffset, destPitch int) {
	var scratch [64]int16

	for j := 0; j < 8; j++ {
		inverseTransform8x8Line(src, srcOffset+j, srcPitch, scratch[:], j, 8)
	}
	for j := 0; j < 8; j++ {
		inverseTransform8x8Line(scratch[:], j*8, 1, dest, destOffset+j*destPitch, 1)
	}
}

func inverseTransformAdd8x8(src []int16, srcOffset, srcPitch int, add []int16, addOffset, addPitch int, dest []int16, destOffset, destPitch int) {
	var scratch [64]int16

	for j := 0; j < 8; j++ {
		inverseTransform8x8Line(src, srcOffset+j, srcPitch, scratch[:], j, 8)
	}
	for j := 0; j < 8; j++ {
		inverseTransformAdd8x8Line(scratch[:], j*8, 1, add, addOffset+j*addPitch, 1, dest, destOffset+j*destPitch, 1)
	}
}

// subTransform8x8 computes dest = DCT(src - sub) without materializing the
// intermediate difference block as a caller-visible step.
func subTransform8x8(src []int16, srcOffset, srcPitch int, sub []int16, subOffset, subPitch int, dest []int16, destOffset, destPitch int) {
	var scratch, diff [64]int16

	for j := 0; j < 8; j++ {
		sub8x8Line(src[srcOffset+j*srcPitch:], sub[subOffset+j*subPitch:], diff[j*8:])
		transform8x8Line(diff[:], j*8, 1, scratch[:], j*8, 1)
	}
	for j := 0; j < 8; j++ {
		transform8x8Line(scratch[:], j, 8, dest, destOffset+j, destPitch)
	}
}

// transform16x16 transforms a 16x16 block as four independent 8x8
// quadrants. There is no direct 16x16 kernel: the original's fast line
// variant is unimplemented and nothing exercises the slow one.
func transform16x16(src []int16, srcOffset, srcPitch int, dest []int16, destOffset, destPitch int) {
	transform8x8(src, srcOffset, srcPitch, dest, destOffset, destPitch)
	transform8x8(src, srcOffset+8, srcPitch, dest, destOffset+8, destPitch)
	transform8x8(src, srcOffset+8*srcPitch, srcPitch, dest, destOffset+8*destPitch, destPitch)
	transform8x8(src, srcOffset+8*srcPitch+8, srcPitch, dest, destOffset+8*destPitch+8, destPitch)
}

func inverseTransform16x16(src []int16, srcOffset, srcPitch int, dest []int16, destOffset, destPitch int) {
	inverseTransform8x8(src, srcOffset, srcPitch, dest, destOffset, destPitch)
	inverseTransform8x8(src, srcOffset+8, srcPitch, dest, destOffset+8, destPitch)
	inverseTransform8x8(src, srcOffset+8*srcPitch, srcPitch, dest, destOffset+8*destPitch, destPitch)
	inverseTransform8x8(src, srcOffset+8*srcPitch+8, srcPitch, dest, destOffset+8*destPitch+8, destPitch)
}

func inverseTransformAdd16x16(src []int16, srcOffset, srcPitch int, add []int16, addOffset, addPitch int, dest []int16, destOffset, destPitch int) {
	inverseTransformAdd8x8(src, srcOffset, srcPitch, add, addOffset, addPitch, dest, destOffset, destPitch)
	inverseTransformAdd8x8(src, srcOffset+8, srcPitch, add, addOffset+8, addPitch, dest, destOffset+8, destPitch)
	inverseTransformAdd8x8(src, srcOffset+8*srcPitch, srcPitch, add, addOffset+8*addPitch, addPitch, dest, destOffset+8*destPitch, destPitch)
	inverseTransformAdd8x8(src, srcOffset+8*srcPitch+8, srcPitch, add, addOffset+8*addPitch+8, addPitch, dest, destOffset+8*destPitch+8, destPitch)
}

func subTransform16x16(src []int16, srcOffset, srcPitch int, sub []int16, subOffset, subPitch int, dest []int16, destOffset, destPitch int) {
	subTransform8x8(src, srcOffset, srcPitch, sub, subOffset, subPitch, dest, destOffset, destPitch)
	subTransform8x8(src, srcOffset+8, srcPitch, sub, subOffset+8, subPitch, dest, destOffset+8, destPitch)
	subTransform8x8(src, srcOffset+8*srcPitch, srcPitch, sub, subOffset+8*subPitch, subPitch, dest, destOffset+8*destPitch, destPitch)
	subTransform8x8(src, srcOffset+8*srcPitch+8, srcPitch, sub, subOffset+8*subPitch+8, subPitch, dest, destOffset+8*destPitch+8, destPitch)
}

// TransformMacroblock runs the forward DCT-II over src's luma (as four 8x8
// quadrants) and both chroma planes, writing the result into dest.
func TransformMacroblock(src, dest *Macroblock) {
	sy := src.LumaBlock()
	var dy [MacroblockSize * MacroblockSize]int16
	transform16x16(sy[:], 0, MacroblockSize, dy[:], 0, MacroblockSize)
	dest.SetLumaBlock(&dy)

	for p := 0; p < 2; p++ {
		sc := src.ChromaBlock(p)
		var dc [MacroblockChromaSize * MacroblockChromaSize]int16
		transform8x8(sc[:], 0, MacroblockChromaSize, dc[:], 0, MacroblockChromaSize)
		dest.SetChromaBlock(p, &dc)
	}
}

// SubTransformMacroblock writes dest = DCT(src - sub).
func SubTransformMacroblock(src, sub, dest *Macroblock) {
	sy, suy := src.LumaBlock(), sub.LumaBlock()
	var dy [MacroblockSize * MacroblockSize]int16
	subTransform16x16(sy[:], 0, MacroblockSize, suy[:], 0, MacroblockSize, dy[:], 0, MacroblockSize)
	dest.SetLumaBlock(&dy)

	for p := 0; p < 2; p++ {
		sc, suc := src.ChromaBlock(p), sub.ChromaBlock(p)
		var dc [MacroblockChromaSize * MacroblockChromaSize]int16
		subTransform8x8(sc[:], 0, MacroblockChromaSize, suc[:], 0, MacroblockChromaSize, dc[:], 0, MacroblockChromaSize)
		dest.SetChromaBlock(p, &dc)
	}
}

// InverseTransformMacroblock runs the inverse DCT-II over src, writing the
// reconstructed samples into dest.
func InverseTransformMacroblock(src, dest *Macroblock) {
	sy := src.LumaBlock()
	var dy [MacroblockSize * MacroblockSize]int16
	inverseTransform16x16(sy[:], 0, MacroblockSize, dy[:], 0, MacroblockSize)
	dest.SetLumaBlock(&dy)

	for p := 0; p < 2; p++ {
		sc := src.ChromaBlock(p)
		var dc [MacroblockChromaSize * MacroblockChromaSize]int16
		inverseTransform8x8(sc[:], 0, MacroblockChromaSize, dc[:], 0, MacroblockChromaSize)
		dest.SetChromaBlock(p, &dc)
	}
}

// InverseTransformAddMacroblock runs the inverse DCT-II over src and adds
// add's samples in, writing the result into dest. This is the residual
// reconstruction step: add is the prediction, src is the decoded
// coefficient block.
func InverseTransformAddMacroblock(src, add, dest *Macroblock) {
	sy, ay := src.LumaBlock(), add.LumaBlock()
	var dy [MacroblockSize * MacroblockSize]int16
	inverseTransformAdd16x16(sy[:], 0, MacroblockSize, ay[:], 0, MacroblockSize, dy[:], 0, MacroblockSize)
	dest.SetLumaBlock(&dy)

	for p := 0; p < 2; p++ {
		sc, ac := src.ChromaBlock(p), add.ChromaBlock(p)
		var dc [MacroblockChromaSize * MacroblockChromaSize]int16
		inverseTransformAdd8x8(sc[:], 0, MacroblockChromaSize, ac[:], 0, MacroblockChromaSize, dc[:], 0, MacroblockChromaSize)
		dest.SetChromaBlock(p, &dc)
	}
}
