// ABOUTME: Runtime configuration from .env files and environment variables
// ABOUTME: Database path, HTTP port, CORS origins, log level and workload thresholds
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/nehemiah-ic/rv-takehome/workload"
	"github.com/shopspring/decimal"
)

const appName = "rv-pipeline"

type Config struct {
	DBPath      string
	Port        int
	CORSOrigins []string
	LogLevel    log.Level
	Thresholds  workload.Thresholds
}

// DefaultDBPath is where the database lives when nothing overrides it.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, appName, "pipeline.db")
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win over
// the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a variable lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBPath:      DefaultDBPath(),
		Port:        8080,
		CORSOrigins: []string{"http://localhost:3000"},
		LogLevel:    log.InfoLevel,
		Thresholds:  workload.DefaultThresholds(),
	}

	if v := getenv("RV_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("RV_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := getenv("RV_LOG_LEVEL"); v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("RV_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	p := parser{getenv: getenv}
	p.int("RV_PORT", &cfg.Port)

	t := &cfg.Thresholds
	p.int("RV_DEALS_LOW", &t.DealsLow)
	p.int("RV_DEALS_HIGH", &t.DealsHigh)
	p.decimal("RV_VALUE_LOW", &t.ValueLow)
	p.decimal("RV_VALUE_HIGH", &t.ValueHigh)
	p.decimal("RV_AVG_LOW", &t.AvgLow)
	p.decimal("RV_AVG_HIGH", &t.AvgHigh)
	p.int("RV_OVERLOAD_SCORE", &t.OverloadScore)
	p.int("RV_UNDER_SCORE", &t.UnderScore)
	p.int("RV_SHIFT_DEALS", &t.ShiftDeals)
	p.decimal("RV_SHIFT_VALUE", &t.ShiftValue)
	if p.err != nil {
		return nil, p.err
	}

	if t.DealsLow >= t.DealsHigh {
		return nil, fmt.Errorf("RV_DEALS_LOW (%d) must be below RV_DEALS_HIGH (%d)", t.DealsLow, t.DealsHigh)
	}
	if !t.ValueLow.LessThan(t.ValueHigh) {
		return nil, fmt.Errorf("RV_VALUE_LOW must be below RV_VALUE_HIGH")
	}
	if !t.AvgLow.LessThan(t.AvgHigh) {
		return nil, fmt.Errorf("RV_AVG_LOW must be below RV_AVG_HIGH")
	}

	return cfg, nil
}

// parser records the first malformed variable and ignores the rest.
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) int(key string, dst *int) {
	v := p.getenv(key)
	if v == "" || p.err != nil {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = n
}

func (p *parser) decimal(key string, dst *decimal.Decimal) {
	v := p.getenv(key)
	if v == "" || p.err != nil {
		return
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		p.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
