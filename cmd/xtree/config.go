package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/xlog"
)

const (
	envValues     = "XTREE_VALUES"
	envRemove     = "XTREE_REMOVE"
	envStats      = "XTREE_STATS"
	envLogLevel   = "XLOG_LVL"
	envLogEncoder = "XLOG_ENC"

	defaultValues = "4,2,5,1,3"

	statsDisabled   = ""
	statsConsole    = "console"
	statsPrometheus = "prometheus"
)

type config struct {
	values     []int64
	removes    []int64
	stats      string
	logLevel   string
	logEncoder string
}

func (cfg *config) loggerOptions() []xlog.XLoggerOption {
	return []xlog.XLoggerOption{
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(cfg.logLevel)),
		xlog.WithXLoggerEncoder(xlog.ParseLogEncoder(cfg.logEncoder)),
	}
}

// loadConfig reads the environment once, getenv is os.Getenv
// outside the tests.
func loadConfig(getenv func(string) string) (*config, error) {
	raw := getenv(envValues)
	if len(strings.TrimSpace(raw)) == 0 {
		raw = defaultValues
	}
	values, err := parseValues(raw)
	if err != nil {
		return nil, infra.WrapErrorStack(err, envValues)
	}
	removes, err := parseValues(getenv(envRemove))
	if err != nil {
		return nil, infra.WrapErrorStack(err, envRemove)
	}

	stats := strings.ToLower(strings.TrimSpace(getenv(envStats)))
	if !lo.Contains([]string{statsDisabled, statsConsole, statsPrometheus}, stats) {
		return nil, infra.NewErrorStack(fmt.Sprintf("%s: unknown stats exporter %q", envStats, stats))
	}

	logLevel := getenv(envLogLevel)
	if len(strings.TrimSpace(logLevel)) == 0 {
		logLevel = xlog.LogLevelInfo.String()
	}
	return &config{
		values:     values,
		removes:    removes,
		stats:      stats,
		logLevel:   logLevel,
		logEncoder: getenv(envLogEncoder),
	}, nil
}

// parseValues accepts a comma separated list, blanks are skipped.
func parseValues(raw string) ([]int64, error) {
	parts := lo.Compact(lo.Map(strings.Split(raw, ","), func(part string, _ int) string {
		return strings.TrimSpace(part)
	}))
	values := make([]int64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, infra.WrapErrorStack(err, fmt.Sprintf("invalid value %q", part))
		}
		values = append(values, v)
	}
	return values, nil
}
