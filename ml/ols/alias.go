package ols

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"gonum.org/v1/gonum/mat"
)

// aliasedColumns 对 Gram 矩阵做跳过主元的 Cholesky 扫描:
// 第 j 列的剩余主元 d_j <= tol*A_jj 时, 说明它是前面保留列的线性组合, 标记为共线并跳过
func aliasedColumns(a mat.Symmetric, tol float64) *bitset.BitSet {
	p := a.SymmetricDim()
	aliased := bitset.New(uint(p))
	l := mat.NewDense(p, p, nil)
	kept := make([]int, 0, p)

	for j := 0; j < p; j++ {
		ajj := a.At(j, j)
		d := ajj
		for _, k := range kept {
			d -= l.At(j, k) * l.At(j, k)
		}
		if !(ajj > 0) || !(d > tol*ajj) {
			aliased.Set(uint(j))
			continue
		}
		ljj := math.Sqrt(d)
		l.Set(j, j, ljj)
		for i := j + 1; i < p; i++ {
			s := a.At(i, j)
			for _, k := range kept {
				s -= l.At(i, k) * l.At(j, k)
			}
			l.Set(i, j, s/ljj)
		}
		kept = append(kept, j)
	}
	return aliased
}
