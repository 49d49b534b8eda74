package parser

import "github.com/mycophonic/isobmff"

// oneFixed1616 is 1.0 as a 16.16 fixed-point value, the unit magnitude a
// pure-rotation tkhd matrix's top-left 2x2 entries take.
const oneFixed1616 = 0x00010000

// rotationFromMatrix derives a track's display rotation from the top-left
// 2x2 submatrix of its tkhd transformation matrix: the matrix is
// row-major [a b u; c d v; x y w], so the 2x2 is (a, b, c, d) at
// indices (0, 1, 3, 4). Any matrix not matching one of the three canonical
// rotations is reported as unrotated.
func rotationFromMatrix(m isobmff.Matrix3x3) uint16 {
	a, b, c, d := m[0], m[1], m[3], m[4]

	switch {
	case a == 0 && b == oneFixed1616 && c == -oneFixed1616 && d == 0:
		return 90
	case a == -oneFixed1616 && b == 0 && c == 0 && d == -oneFixed1616:
		return 180
	case a == 0 && b == -oneFixed1616 && c == oneFixed1616 && d == 0:
		return 270
	default:
		return 0
	}
}
