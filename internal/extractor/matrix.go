package extractor

import "math"

// A PDF transformation matrix is stored as [a b c d e f], representing
// the 3x3 row-major matrix:
//
//	[ a b 0 ]
//	[ c d 0 ]
//	[ e f 1 ]
//
// Points are row vectors, transformed as [x y 1] * M.
//
// Reference: PDF 1.7 specification, Section 8.3.3 (Common Transformations).

func identityMatrix() [6]float64 {
	return [6]float64{1, 0, 0, 1, 0, 0}
}

// multiplyMatrix computes m1 * m2, the matrix a point transformed by m1
// would then be transformed by when also applying m2 — the order content
// streams concatenate matrices in (e.g. Tm update: translation * Tlm).
func multiplyMatrix(m1, m2 [6]float64) [6]float64 {
	a1, b1, c1, d1, e1, f1 := m1[0], m1[1], m1[2], m1[3], m1[4], m1[5]
	a2, b2, c2, d2, e2, f2 := m2[0], m2[1], m2[2], m2[3], m2[4], m2[5]

	return [6]float64{
		a1*a2 + b1*c2,
		a1*b2 + b1*d2,
		c1*a2 + d1*c2,
		c1*b2 + d1*d2,
		e1*a2 + f1*c2 + e2,
		e1*b2 + f1*d2 + f2,
	}
}

// applyMatrixPoint transforms the point (x, y) by m.
func applyMatrixPoint(x, y float64, m [6]float64) (float64, float64) {
	return x*m[0] + y*m[2] + m[4], x*m[1] + y*m[3] + m[5]
}

// matrixScaleY returns the effective vertical scale factor m applies,
// used to convert a font size in text space into an approximate device
// space height.
func matrixScaleY(m [6]float64) float64 {
	// Length of the (c, d) basis vector, the image of (0, 1).
	return math.Hypot(m[2], m[3])
}
