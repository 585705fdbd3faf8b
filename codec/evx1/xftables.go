/*
DESCRIPTION
  xftables.go holds the fixed point cosine basis used by the 8x8 DCT-II
  transform, scaled by 128. A 16x16 block is always transformed as four
  independent 8x8 quadrants (see transform.go), so no separate 16x16
  table is required.

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

// transform8x8Trig128 is an 8x8 row-major matrix of cos((2x+1)*u*pi/16)
// terms, scaled by 128 and rounded to the nearest integer.
var transform8x8Trig128 = [64]int32{
	128, 128, 128, 128, 128, 128, 128, 128,
	126, 106, 71, 25, -25, -71, -106, -126,
	118, 49, -49, -118, -118, -49, 49, 118,
	106, -25, -126, -71, 71, 126, 25, -106,
	91, -91, -91, 91, 91, -91, -91, 91,
	71, -126, 25, 106, -106, -25, 126, -71,
	49, -118, 118, -49, -49, 118, -118, 49,
	25, -71, 106, -126, 126, -106, 71, -25,
}
