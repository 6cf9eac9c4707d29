package ols

import (
	"lsqsolve/infra/errorx"
	"lsqsolve/infra/errorx/errCode"

	"github.com/gonum/stat"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ResidualSummary 单个因变量的残差统计, 不含推断量
type ResidualSummary struct {
	Column int
	RSS    float64
	Mean   float64
	StdDev float64 // 样本标准差, n<2 时为 0
}

// Residuals Y - XB
func Residuals(x, y, b mat.Matrix) (*mat.Dense, error) {
	n, p, k, err := checkXY(x, y)
	if err != nil {
		return nil, err
	}
	bp, bk, err := dims("B", b)
	if err != nil {
		return nil, err
	}
	if bp != p || bk != k {
		return nil, errorx.Newf(errCode.DIMENSION_MISMATCH, "B 维度 %d×%d, 期望 %d×%d", bp, bk, p, k)
	}

	var fit mat.Dense
	fit.Mul(x, b)
	resid := mat.NewDense(n, k, nil)
	resid.Sub(y, &fit)
	return resid, nil
}

func SummarizeResiduals(resid mat.Matrix) []ResidualSummary {
	n, k := resid.Dims()
	out := make([]ResidualSummary, k)
	col := make([]float64, n)
	for j := 0; j < k; j++ {
		mat.Col(col, j, resid)
		out[j] = ResidualSummary{
			Column: j,
			RSS:    floats.Dot(col, col),
			Mean:   stat.Mean(col, nil),
		}
		if n > 1 {
			out[j].StdDev = stat.StdDev(col, nil)
		}
	}
	return out
}
