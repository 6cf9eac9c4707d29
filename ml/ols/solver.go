// Package ols 最小二乘系数求解: OLS 与 GLS.
//
// 所有求解都对均衡后的 Gram 矩阵做 Cholesky 分解后回代, 不显式求逆.
// 存在共线列、分解失败或条件数超过上限 (默认 mat.ConditionTolerance) 时返回 *SingularError,
// 不会返回 NaN/Inf 填充的结果.
package ols

import (
	"errors"
	"math"

	"lsqsolve/config"
	"lsqsolve/infra/errorx"
	"lsqsolve/infra/errorx/errCode"
	"lsqsolve/infra/observe/log/staticLog"

	"github.com/bits-and-blooms/bitset"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Solver 无状态, 可并发使用
type Solver struct {
	cfg config.Solver
}

func NewSolver(cfg config.Solver) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errorx.Wrap(errCode.CONFIG_ERROR, "solver 参数非法", err)
	}
	return &Solver{cfg: cfg}, nil
}

// Default 使用当前全局配置
func Default() *Solver {
	return &Solver{cfg: config.Get().Solver}
}

// SolveOLS B = (X'X)^(-1) X'Y
func SolveOLS(x, y mat.Matrix) (*mat.Dense, error) {
	return Default().OLS(x, y)
}

// SolveGLS B = (X'Σ⁻¹X)^(-1) X'Σ⁻¹Y
func SolveGLS(x, y, sigmaInv mat.Matrix) (*mat.Dense, error) {
	return Default().GLS(x, y, sigmaInv)
}

// gradient 计算 X'W(Y - XB), 用于一步迭代修正
type gradient func(b *mat.Dense) *mat.Dense

// choleskySolve 解 gram·B = rhs.
// 先按对角线均衡 (D·gram·D, 对角为 1), 条件数和共线判定都在均衡后的矩阵上做;
// 回代后用同一个分解做一步修正 B += gram⁻¹·grad(B).
func (s *Solver) choleskySolve(gram mat.Symmetric, rhs mat.Matrix, grad gradient) (*mat.Dense, error) {
	p := gram.SymmetricDim()
	d := make([]float64, p)
	for j := range d {
		ajj := gram.At(j, j)
		if !(ajj > 0) {
			return nil, s.singular(aliasedColumns(gram, s.cfg.AliasTolerance), math.Inf(1), "X 存在全零列")
		}
		d[j] = 1 / math.Sqrt(ajj)
	}
	scaled := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			scaled.SetSym(i, j, gram.At(i, j)*d[i]*d[j])
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(scaled); !ok {
		return nil, s.singular(aliasedColumns(scaled, s.cfg.AliasTolerance), math.Inf(1), "Gram 矩阵非正定")
	}
	cond := chol.Cond()
	if aliased := aliasedColumns(scaled, s.cfg.AliasTolerance); aliased.Any() {
		return nil, s.singular(aliased, cond, "自变量共线")
	}
	if math.IsNaN(cond) || cond > s.cfg.MaxCondition {
		return nil, s.singular(nil, cond, "Gram 矩阵条件数过大")
	}

	beta, err := s.backSolve(&chol, d, rhs)
	if err != nil {
		return nil, err
	}
	if grad != nil {
		corr, err := s.backSolve(&chol, d, grad(beta))
		if err != nil {
			return nil, err
		}
		beta.Add(beta, corr)
	}
	if err := checkFinite("B", beta); err != nil {
		return nil, errorx.Wrap(errCode.NUMERICAL_INSTABILITY, "系数出现非有限值", err)
	}
	return beta, nil
}

// backSolve 解 gram·B = rhs, chol 为 D·gram·D 的分解
func (s *Solver) backSolve(chol *mat.Cholesky, d []float64, rhs mat.Matrix) (*mat.Dense, error) {
	var r mat.Dense
	r.Apply(func(i, _ int, v float64) float64 { return v * d[i] }, rhs)

	var z mat.Dense
	if err := chol.SolveTo(&z, &r); err != nil {
		var c mat.Condition
		if errors.As(err, &c) {
			return nil, s.singular(nil, float64(c), "Gram 矩阵病态")
		}
		return nil, errorx.Wrap(errCode.NUMERICAL_INSTABILITY, "Cholesky 回代失败", err)
	}

	var beta mat.Dense
	beta.Apply(func(i, _ int, v float64) float64 { return v * d[i] }, &z)
	return &beta, nil
}

func (s *Solver) singular(aliased *bitset.BitSet, cond float64, msg string) *SingularError {
	e := &SingularError{Cond: cond, Aliased: aliased}
	if cols := e.AliasedColumns(); len(cols) > 0 {
		e.err = errorx.Newf(errCode.SINGULAR_MATRIX, "%s (cond=%.3g), 共线列 %v", msg, cond, cols)
	} else {
		e.err = errorx.Newf(errCode.SINGULAR_MATRIX, "%s (cond=%.3g), 超过上限 maxcondition=%.3g", msg, cond, s.cfg.MaxCondition)
	}
	staticLog.Log.WithFields(logrus.Fields{
		"cond":    cond,
		"aliased": e.AliasedColumns(),
	}).Warn("warning Gram 矩阵奇异")
	return e
}

// tooFewRows p > n 时第 n..p-1 列必然与前 n 列线性相关
func tooFewRows(n, p int, what string) *SingularError {
	aliased := bitset.New(uint(p))
	for j := n; j < p; j++ {
		aliased.Set(uint(j))
	}
	return &SingularError{
		Cond:    math.Inf(1),
		Aliased: aliased,
		err:     errorx.Newf(errCode.SINGULAR_MATRIX, "样本数 n=%d 小于参数数 p=%d, %s 不可逆", n, p, what),
	}
}
