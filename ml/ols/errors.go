package ols

import (
	"lsqsolve/infra/errorx"
	"lsqsolve/infra/errorx/errCode"

	"github.com/bits-and-blooms/bitset"
)

// 哨兵错误, errors.Is 只比较错误码
var (
	ErrEmpty                = errorx.New(errCode.EMPTY_VALUE, "")
	ErrInvalidValue         = errorx.New(errCode.INVALID_VALUE, "")
	ErrDimensionMismatch    = errorx.New(errCode.DIMENSION_MISMATCH, "")
	ErrSingularMatrix       = errorx.New(errCode.SINGULAR_MATRIX, "")
	ErrNumericalInstability = errorx.New(errCode.NUMERICAL_INSTABILITY, "")
)

// SingularError Gram 矩阵奇异时返回, Aliased 标记与前面列共线的自变量列
type SingularError struct {
	Cond    float64 // 条件数估计, 分解失败时为 +Inf
	Aliased *bitset.BitSet
	err     *errorx.Error
}

func (e *SingularError) Error() string { return e.err.Error() }

func (e *SingularError) Unwrap() error { return e.err }

// AliasedColumns 共线列下标, 升序
func (e *SingularError) AliasedColumns() []int {
	if e.Aliased == nil {
		return nil
	}
	cols := make([]int, 0, e.Aliased.Count())
	for i, ok := e.Aliased.NextSet(0); ok; i, ok = e.Aliased.NextSet(i + 1) {
		cols = append(cols, int(i))
	}
	return cols
}
