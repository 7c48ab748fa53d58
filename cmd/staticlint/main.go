// Command staticlint is the repository multichecker: go vet passes, the
// ineffassign and nilerr analyzers, selected staticcheck checks and the
// project's own nostdlog analyzer.
//
// Staticcheck checks are listed in config.json next to the binary. An entry
// ending in "*" enables every check with that prefix ("SA4*"). Without the
// file only the fixed analyzers run.
package main

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/staticcheck"

	"github.com/patric-chuzhbe/suiteclient/cmd/staticlint/nostdlog"
)

// Config is the file name looked up next to the executable.
const Config = `config.json`

// ConfigData lists the staticcheck checks to enable, e.g. "SA1000" or "SA4*".
type ConfigData struct {
	Staticcheck []string
}

func loadConfig(path string) (ConfigData, error) {
	var cfg ConfigData

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	err = json.Unmarshal(data, &cfg)

	return cfg, err
}

// enabled reports whether name matches one of the configured checks.
func (cfg ConfigData) enabled(name string) bool {
	for _, pattern := range cfg.Staticcheck {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(name, prefix) {
				return true
			}
			continue
		}
		if pattern == name {
			return true
		}
	}

	return false
}

func analyzers(cfg ConfigData) []*analysis.Analyzer {
	checks := []*analysis.Analyzer{
		copylock.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		nostdlog.Analyzer,
	}

	for _, v := range staticcheck.Analyzers {
		if cfg.enabled(v.Analyzer.Name) {
			checks = append(checks, v.Analyzer)
		}
	}

	return checks
}

func main() {
	appfile, err := os.Executable()
	if err != nil {
		panic(err)
	}

	cfg, err := loadConfig(filepath.Join(filepath.Dir(appfile), Config))
	if err != nil {
		panic(err)
	}

	multichecker.Main(analyzers(cfg)...)
}
