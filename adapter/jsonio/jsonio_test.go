package jsonio

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"lsqsolve/ml/ols"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleRequest = `{"x": [[1, 1], [1, 2], [1, 3]], "y": [[1], [2], [3]]}`

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(exampleRequest))
	require.NoError(t, err)

	assert.Equal(t, MethodOLS, req.Method)
	r, c := req.X.Dims()
	assert.Equal(t, []int{3, 2}, []int{r, c})
	assert.Equal(t, 3.0, req.X.At(2, 1))
	assert.Nil(t, req.SigmaInv)
}

func TestDecodeRequestErrors(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"invalid json":    {`{"x": [[1]`, ols.ErrInvalidValue},
		"unknown method":  {`{"method": "ridge", "x": [[1]], "y": [[1]]}`, ols.ErrInvalidValue},
		"missing y":       {`{"x": [[1]]}`, ols.ErrEmpty},
		"empty x":         {`{"x": [], "y": [[1]]}`, ols.ErrEmpty},
		"ragged":          {`{"x": [[1, 2], [3]], "y": [[1], [2]]}`, ols.ErrInvalidValue},
		"string cell":     {`{"x": [[1, "a"]], "y": [[1]]}`, ols.ErrInvalidValue},
		"flat array":      {`{"x": [1, 2], "y": [[1]]}`, ols.ErrInvalidValue},
		"gls needs sigma": {`{"method": "gls", "x": [[1]], "y": [[1]]}`, ols.ErrEmpty},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(tc.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "%v", err)
		})
	}
}

func TestSolveAndEncode(t *testing.T) {
	for _, method := range []string{"ols", "gls", "gls-whitened"} {
		t.Run(method, func(t *testing.T) {
			body := `{"method": "` + method + `",
				"x": [[1, 1], [1, 2], [1, 3]],
				"y": [[1], [2], [3]],
				"sigma_inv": [[1, 0, 0], [0, 1, 0], [0, 0, 1]]}`
			req, err := DecodeRequest([]byte(body))
			require.NoError(t, err)

			res, err := Solve(ols.Default(), req)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, EncodeResponse(&buf, res, 6))

			var out struct {
				Method       string      `json:"method"`
				Rows         int         `json:"rows"`
				Cols         int         `json:"cols"`
				Coefficients [][]float64 `json:"coefficients"`
				Residuals    []struct {
					RSS float64 `json:"rss"`
				} `json:"residuals"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
			assert.Equal(t, method, out.Method)
			assert.Equal(t, 2, out.Rows)
			assert.Equal(t, 1, out.Cols)
			assert.Equal(t, [][]float64{{0}, {1}}, out.Coefficients)
			require.Len(t, out.Residuals, 1)
			assert.Equal(t, 0.0, out.Residuals[0].RSS)
		})
	}
}

func TestSolvePropagatesSingular(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"x": [[1, 2], [2, 4], [3, 6]], "y": [[1], [2], [3]]}`))
	require.NoError(t, err)

	_, err = Solve(ols.Default(), req)
	assert.True(t, errors.Is(err, ols.ErrSingularMatrix))
}

func TestEncodePrecision(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"x": [[1], [1], [1]], "y": [[1], [1], [2]]}`))
	require.NoError(t, err)
	res, err := Solve(ols.Default(), req)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeResponse(&buf, res, 3))
	assert.True(t, strings.Contains(buf.String(), "1.333"), buf.String())
	assert.False(t, strings.Contains(buf.String(), "1.3333"), buf.String())
}
