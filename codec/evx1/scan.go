/*
DESCRIPTION
  scan.go holds the zig-zag scan order table used to linearize transform
  blocks before entropy coding. Only an 8x8 table is needed: a 16x16
  luma block is scanned as four 8x8 quadrants with the same table, and
  the codec has no standalone 4x4 transform component.

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

// zigzag8x8 maps scan position to raster offset within a contiguous
// (unpadded, stride == 8) 8x8 block.
var zigzag8x8 = [64]uint8{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}
