package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"lsqsolve/adapter/jsonio"
	"lsqsolve/config"
	"lsqsolve/infra/observe/log/staticLog"
	"lsqsolve/ml/ols"
)

const (
	version      = "0.1.0"
	maxPrecision = 30
)

func main() {
	in := flag.String("in", "-", "请求 JSON 文件, - 为 stdin")
	out := flag.String("out", "", "输出文件, 缺省为 stdout")
	cfgPath := flag.String("config", "", "YAML 配置文件")
	precision := flag.Int("precision", 10, "输出小数位数")
	showVersion := flag.Bool("version", false, "打印版本并退出")
	flag.Parse()

	if *showVersion {
		fmt.Printf("lsqsolve %s\n", version)
		return
	}
	if err := run(*in, *out, *cfgPath, *precision); err != nil {
		staticLog.Log.Errorf("lsqsolve: %v", err)
		os.Exit(1)
	}
}

func run(in, out, cfgPath string, precision int) (err error) {
	if cfgPath != "" {
		if err := config.Init(cfgPath); err != nil {
			return err
		}
	}
	cfg := config.Get()
	if err := staticLog.Init(cfg.Log.Options()); err != nil {
		return fmt.Errorf("init log: %w", err)
	}
	if precision < 0 || precision > maxPrecision {
		return fmt.Errorf("invalid precision: %d, must be in [0, %d]", precision, maxPrecision)
	}

	body, err := readInput(in)
	if err != nil {
		return err
	}
	req, err := jsonio.DecodeRequest(body)
	if err != nil {
		return err
	}
	solver, err := ols.NewSolver(cfg.Solver)
	if err != nil {
		return err
	}
	res, err := jsonio.Solve(solver, req)
	if err != nil {
		return err
	}
	r, c := res.B.Dims()
	staticLog.Log.Debugf("solved %s: B %d×%d", res.Method, r, c)

	w := io.Writer(os.Stdout)
	if out != "" {
		f, cerr := os.Create(out)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		w = f
	}
	return jsonio.EncodeResponse(w, res, int32(precision))
}

func readInput(path string) ([]byte, error) {
	if path == "-" || path == "" {
		return io.ReadAll(os.Stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return b, nil
}
