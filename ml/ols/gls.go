package ols

import (
	"math"

	"lsqsolve/infra/errorx"
	"lsqsolve/infra/errorx/errCode"

	"gonum.org/v1/gonum/mat"
)

func (s *Solver) checkGLS(x, y, sigmaInv mat.Matrix) (n, p int, err error) {
	n, p, _, err = checkXY(x, y)
	if err != nil {
		return
	}
	if err = checkPrecision(sigmaInv, n, s.cfg.SymmetryTolerance); err != nil {
		return
	}
	if p > n {
		err = tooFewRows(n, p, "X'Σ⁻¹X")
	}
	return
}

// GLS X(n×p), Y(n×k), Σ⁻¹(n×n), 返回 p×k 系数矩阵
func (s *Solver) GLS(x, y, sigmaInv mat.Matrix) (*mat.Dense, error) {
	if _, _, err := s.checkGLS(x, y, sigmaInv); err != nil {
		return nil, err
	}

	// X'Σ⁻¹X
	var WX mat.Dense
	WX.Mul(sigmaInv, x)
	var XTWX mat.Dense
	XTWX.Mul(x.T(), &WX)

	// X'Σ⁻¹Y
	var WY mat.Dense
	WY.Mul(sigmaInv, y)
	var XTWY mat.Dense
	XTWY.Mul(x.T(), &WY)

	// X'Σ⁻¹(Y - XB)
	grad := func(b *mat.Dense) *mat.Dense {
		var resid, wr, g mat.Dense
		resid.Mul(x, b)
		resid.Sub(y, &resid)
		wr.Mul(sigmaInv, &resid)
		g.Mul(x.T(), &wr)
		return &g
	}
	return s.choleskySolve(symmetrize(&XTWX), &XTWY, grad)
}

// GLSWhitened 先分解 Σ⁻¹ = LL', 再对 (L'X, L'Y) 做 OLS, 与 GLS 结果一致
func (s *Solver) GLSWhitened(x, y, sigmaInv mat.Matrix) (*mat.Dense, error) {
	n, _, err := s.checkGLS(x, y, sigmaInv)
	if err != nil {
		return nil, err
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(symmetrize(sigmaInv)); !ok {
		return nil, &SingularError{
			Cond: math.Inf(1),
			err:  errorx.New(errCode.SINGULAR_MATRIX, "Sigma_inv 非正定, 无法白化"),
		}
	}
	L := mat.NewTriDense(n, mat.Lower, nil)
	chol.LTo(L)

	var xw, yw mat.Dense
	xw.Mul(L.T(), x)
	yw.Mul(L.T(), y)
	return s.OLS(&xw, &yw)
}
