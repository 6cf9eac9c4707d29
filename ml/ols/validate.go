package ols

import (
	"math"

	"lsqsolve/infra/errorx"
	"lsqsolve/infra/errorx/errCode"

	"gonum.org/v1/gonum/mat"
)

func dims(name string, m mat.Matrix) (int, int, error) {
	if m == nil {
		return 0, 0, errorx.Newf(errCode.EMPTY_VALUE, "%s 为空", name)
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errorx.Newf(errCode.EMPTY_VALUE, "%s 为空 (%d×%d)", name, r, c)
	}
	return r, c, nil
}

// checkFinite 输入不允许出现 NaN/Inf
func checkFinite(name string, m mat.Matrix) error {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errorx.Newf(errCode.INVALID_VALUE, "%s[%d,%d]=%v 非有限值", name, i, j, v)
			}
		}
	}
	return nil
}

// checkXY 校验 X(n×p), Y(n×k), 返回 n, p, k
func checkXY(x, y mat.Matrix) (n, p, k int, err error) {
	n, p, err = dims("X", x)
	if err != nil {
		return
	}
	ny, k, err := dims("Y", y)
	if err != nil {
		return
	}
	if ny != n {
		err = errorx.Newf(errCode.DIMENSION_MISMATCH, "X 行数 %d 与 Y 行数 %d 不匹配", n, ny)
		return
	}
	if err = checkFinite("X", x); err != nil {
		return
	}
	err = checkFinite("Y", y)
	return
}

// checkPrecision 精度矩阵须为 n×n 且在 tol 内对称
func checkPrecision(sigmaInv mat.Matrix, n int, tol float64) error {
	r, c, err := dims("Sigma_inv", sigmaInv)
	if err != nil {
		return err
	}
	if r != n || c != n {
		return errorx.Newf(errCode.DIMENSION_MISMATCH, "Sigma_inv 维度 %d×%d 与 X 行数 %d 不匹配", r, c, n)
	}
	if err := checkFinite("Sigma_inv", sigmaInv); err != nil {
		return err
	}
	if _, ok := sigmaInv.(mat.Symmetric); ok {
		return nil
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			a, b := sigmaInv.At(i, j), sigmaInv.At(j, i)
			scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
			if math.Abs(a-b) > tol*scale {
				return errorx.Newf(errCode.INVALID_VALUE, "Sigma_inv 非对称: [%d,%d]=%v, [%d,%d]=%v", i, j, a, j, i, b)
			}
		}
	}
	return nil
}

// symmetrize 取 (A+Aᵀ)/2, 已是 Symmetric 时直接返回
func symmetrize(a mat.Matrix) mat.Symmetric {
	if s, ok := a.(mat.Symmetric); ok {
		return s
	}
	n, _ := a.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	return s
}
