// Package jsonio JSON 请求/响应适配: 行主序嵌套数组 <-> gonum 矩阵.
package jsonio

import (
	"encoding/json"
	"io"
	"math"

	"lsqsolve/infra/errorx"
	"lsqsolve/infra/errorx/errCode"
	"lsqsolve/ml/ols"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"gonum.org/v1/gonum/mat"
)

type Method string

const (
	MethodOLS         Method = "ols"
	MethodGLS         Method = "gls"
	MethodGLSWhitened Method = "gls-whitened"
)

type Request struct {
	Method   Method
	X        *mat.Dense
	Y        *mat.Dense
	SigmaInv *mat.Dense // 仅 GLS
}

type Result struct {
	Method    Method
	B         *mat.Dense
	Residuals []ols.ResidualSummary
}

// DecodeRequest {"method": "...", "x": [[...]], "y": [[...]], "sigma_inv": [[...]]}, method 缺省为 ols
func DecodeRequest(b []byte) (*Request, error) {
	if !gjson.ValidBytes(b) {
		return nil, errorx.New(errCode.INVALID_VALUE, "请求不是合法 JSON")
	}
	req := &Request{Method: MethodOLS}
	if m := gjson.GetBytes(b, "method"); m.Exists() {
		req.Method = Method(m.String())
	}
	switch req.Method {
	case MethodOLS, MethodGLS, MethodGLSWhitened:
	default:
		return nil, errorx.Newf(errCode.INVALID_VALUE, "未知的求解方法 %q", req.Method)
	}

	var err error
	if req.X, err = parseMatrix("x", gjson.GetBytes(b, "x")); err != nil {
		return nil, err
	}
	if req.Y, err = parseMatrix("y", gjson.GetBytes(b, "y")); err != nil {
		return nil, err
	}
	if req.Method != MethodOLS {
		if req.SigmaInv, err = parseMatrix("sigma_inv", gjson.GetBytes(b, "sigma_inv")); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func parseMatrix(name string, v gjson.Result) (*mat.Dense, error) {
	if !v.Exists() {
		return nil, errorx.Newf(errCode.EMPTY_VALUE, "缺少字段 %s", name)
	}
	if !v.IsArray() {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "%s 必须是二维数组", name)
	}
	rows := v.Array()
	if len(rows) == 0 {
		return nil, errorx.Newf(errCode.EMPTY_VALUE, "%s 为空", name)
	}
	cols := -1
	data := make([]float64, 0, len(rows)*len(rows[0].Array()))
	for i, row := range rows {
		if !row.IsArray() {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "%s 第 %d 行不是数组", name, i)
		}
		cells := row.Array()
		if cols == -1 {
			cols = len(cells)
		}
		if len(cells) != cols || cols == 0 {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "%s 第 %d 行长度 %d, 期望 %d", name, i, len(cells), cols)
		}
		for j, c := range cells {
			if c.Type != gjson.Number {
				return nil, errorx.Newf(errCode.INVALID_VALUE, "%s[%d][%d]=%s 不是数值", name, i, j, c.Raw)
			}
			data = append(data, c.Float())
		}
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// Solve 按请求调用求解器, 并附带残差统计
func Solve(s *ols.Solver, req *Request) (*Result, error) {
	var (
		b   *mat.Dense
		err error
	)
	switch req.Method {
	case MethodGLS:
		b, err = s.GLS(req.X, req.Y, req.SigmaInv)
	case MethodGLSWhitened:
		b, err = s.GLSWhitened(req.X, req.Y, req.SigmaInv)
	default:
		b, err = s.OLS(req.X, req.Y)
	}
	if err != nil {
		return nil, err
	}
	resid, err := ols.Residuals(req.X, req.Y, b)
	if err != nil {
		return nil, err
	}
	return &Result{Method: req.Method, B: b, Residuals: ols.SummarizeResiduals(resid)}, nil
}

type response struct {
	Method       Method          `json:"method"`
	Rows         int             `json:"rows"`
	Cols         int             `json:"cols"`
	Coefficients [][]json.Number `json:"coefficients"`
	Residuals    []residual      `json:"residuals"`
}

type residual struct {
	Column int         `json:"column"`
	RSS    json.Number `json:"rss"`
	Mean   json.Number `json:"mean"`
	StdDev json.Number `json:"std"`
}

// EncodeResponse 数值按 precision 位小数四舍五入输出
func EncodeResponse(w io.Writer, res *Result, precision int32) error {
	r, c := res.B.Dims()
	out := response{
		Method:       res.Method,
		Rows:         r,
		Cols:         c,
		Coefficients: make([][]json.Number, r),
		Residuals:    make([]residual, 0, len(res.Residuals)),
	}
	var err error
	for i := 0; i < r; i++ {
		out.Coefficients[i] = make([]json.Number, c)
		for j := 0; j < c; j++ {
			if out.Coefficients[i][j], err = number(res.B.At(i, j), precision); err != nil {
				return err
			}
		}
	}
	for _, s := range res.Residuals {
		var e residual
		e.Column = s.Column
		if e.RSS, err = number(s.RSS, precision); err != nil {
			return err
		}
		if e.Mean, err = number(s.Mean, precision); err != nil {
			return err
		}
		if e.StdDev, err = number(s.StdDev, precision); err != nil {
			return err
		}
		out.Residuals = append(out.Residuals, e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func number(v float64, precision int32) (json.Number, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", errorx.Newf(errCode.NUMERICAL_INSTABILITY, "输出包含非有限值 %v", v)
	}
	return json.Number(decimal.NewFromFloat(v).Round(precision).String()), nil
}
