package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync/atomic"

	"lsqsolve/infra/observe/log/staticLog"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Solver Solver `yaml:"solver"`
	Log    Log    `yaml:"log"`
}

type Solver struct {
	MaxCondition      float64 `yaml:"maxcondition"`      // 均衡后 Gram 矩阵条件数上限, 超过视为奇异
	AliasTolerance    float64 `yaml:"aliastolerance"`    // 共线列判定的相对主元阈值 (1-R²)
	SymmetryTolerance float64 `yaml:"symmetrytolerance"` // 精度矩阵对称性相对容差
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxsizemb"`
	MaxBackups int    `yaml:"maxbackups"`
	MaxAgeDays int    `yaml:"maxagedays"`
	Compress   bool   `yaml:"compress"`
}

const (
	DefaultMaxCondition      = mat.ConditionTolerance
	DefaultAliasTolerance    = 1e-12
	DefaultSymmetryTolerance = 1e-9
)

func Default() *Config {
	return &Config{
		Solver: DefaultSolver(),
		Log:    Log{Level: "info", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 7},
	}
}

func DefaultSolver() Solver {
	return Solver{
		MaxCondition:      DefaultMaxCondition,
		AliasTolerance:    DefaultAliasTolerance,
		SymmetryTolerance: DefaultSymmetryTolerance,
	}
}

// 用 atomic.Value 存当前配置，支持热更新时无锁读取
var cfgValue atomic.Value // stores *Config

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}
	return Parse(b)
}

// Parse 未出现的字段取默认值
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if err := c.Solver.Validate(); err != nil {
		return nil, err
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return nil, fmt.Errorf("invalid log rotation: size=%d backups=%d age=%d",
			c.Log.MaxSizeMB, c.Log.MaxBackups, c.Log.MaxAgeDays)
	}
	return c, nil
}

func (s Solver) Validate() error {
	if !(s.MaxCondition > 1) || math.IsInf(s.MaxCondition, 0) {
		return fmt.Errorf("invalid maxcondition: %v", s.MaxCondition)
	}
	if !(s.AliasTolerance > 0 && s.AliasTolerance < 1) {
		return fmt.Errorf("invalid aliastolerance: %v", s.AliasTolerance)
	}
	if !(s.SymmetryTolerance >= 0 && s.SymmetryTolerance < 1) {
		return fmt.Errorf("invalid symmetrytolerance: %v", s.SymmetryTolerance)
	}
	return nil
}

func (l Log) Options() staticLog.Options {
	return staticLog.Options{
		Level:      l.Level,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

func Init(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	Store(c)
	return nil
}

func Store(c *Config) {
	cfgValue.Store(c)
}

// Get 未初始化时返回默认配置
func Get() *Config {
	cAny := cfgValue.Load()
	if cAny == nil {
		return Default()
	}
	return cAny.(*Config)
}
