// Package hostmat 宿主环境 (R / Eigen) 的列主序矩阵与 ols 求解器之间的适配层.
// 读取宿主数据不拷贝, 返回值是新分配的列主序矩阵.
package hostmat

import (
	"lsqsolve/infra/errorx"
	"lsqsolve/infra/errorx/errCode"
	"lsqsolve/ml/ols"

	"gonum.org/v1/gonum/mat"
)

// Matrix 列主序: Data[j*Rows+i] 为第 i 行第 j 列
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

func (m Matrix) At(i, j int) float64 {
	return m.Data[j*m.Rows+i]
}

// view 列主序 r×c 等价于行主序 c×r 的转置
func (m Matrix) view(name string) (mat.Matrix, error) {
	if m.Rows <= 0 || m.Cols <= 0 {
		return nil, errorx.Newf(errCode.EMPTY_VALUE, "%s 为空 (%d×%d)", name, m.Rows, m.Cols)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "%s 数据长度 %d 与维度 %d×%d 不符", name, len(m.Data), m.Rows, m.Cols)
	}
	return mat.NewDense(m.Cols, m.Rows, m.Data).T(), nil
}

func fromDense(d *mat.Dense) Matrix {
	r, c := d.Dims()
	out := Matrix{Rows: r, Cols: c, Data: make([]float64, r*c)}
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			out.Data[j*r+i] = d.At(i, j)
		}
	}
	return out
}

// RcppOLS 对应宿主侧 rcpp_ols(X, Y)
func RcppOLS(X, Y Matrix) (Matrix, error) {
	x, err := X.view("X")
	if err != nil {
		return Matrix{}, err
	}
	y, err := Y.view("Y")
	if err != nil {
		return Matrix{}, err
	}
	b, err := ols.SolveOLS(x, y)
	if err != nil {
		return Matrix{}, err
	}
	return fromDense(b), nil
}

// RcppGLS 对应宿主侧 rcpp_gls(X, Y, Sigma_inv)
func RcppGLS(X, Y, SigmaInv Matrix) (Matrix, error) {
	x, err := X.view("X")
	if err != nil {
		return Matrix{}, err
	}
	y, err := Y.view("Y")
	if err != nil {
		return Matrix{}, err
	}
	w, err := SigmaInv.view("Sigma_inv")
	if err != nil {
		return Matrix{}, err
	}
	b, err := ols.SolveGLS(x, y, w)
	if err != nil {
		return Matrix{}, err
	}
	return fromDense(b), nil
}
