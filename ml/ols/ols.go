package ols

import (
	"gonum.org/v1/gonum/mat"
)

// OLS X(n×p), Y(n×k), 返回 p×k 系数矩阵
func (s *Solver) OLS(x, y mat.Matrix) (*mat.Dense, error) {
	n, p, _, err := checkXY(x, y)
	if err != nil {
		return nil, err
	}
	if p > n {
		return nil, tooFewRows(n, p, "X'X")
	}

	// X'X = (X')(X')'
	var XTX mat.SymDense
	XTX.SymOuterK(1, x.T())

	// X'Y
	var XTY mat.Dense
	XTY.Mul(x.T(), y)

	// X'(Y - XB)
	grad := func(b *mat.Dense) *mat.Dense {
		var resid, g mat.Dense
		resid.Mul(x, b)
		resid.Sub(y, &resid)
		g.Mul(x.T(), &resid)
		return &g
	}
	return s.choleskySolve(&XTX, &XTY, grad)
}
