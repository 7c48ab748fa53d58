// Package nostdlog reports output that bypasses the project logger: imports
// of the standard log package anywhere, and fmt.Print, fmt.Printf or
// fmt.Println calls outside package main and example tests.
package nostdlog

import (
	"go/ast"
	"go/types"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "nostdlog",
	Doc:  "prohibits the standard log package and stdout printing outside package main",
	Run:  run,
}

var printFuncs = map[string]bool{
	"Print":   true,
	"Printf":  true,
	"Println": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	isMain := pass.Pkg.Name() == "main"

	for _, file := range pass.Files {
		// Exclude go-build cache files
		filename := pass.Fset.File(file.Pos()).Name()
		if isGoBuildCacheFile(filename) {
			continue
		}

		for _, imp := range file.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err == nil && path == "log" {
				pass.Reportf(imp.Pos(), "use the zap logger instead of the standard log package")
			}
		}

		if isMain || strings.HasSuffix(filename, "_test.go") {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || !printFuncs[sel.Sel.Name] {
				return true
			}

			ident, ok := sel.X.(*ast.Ident)
			if !ok {
				return true
			}
			pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
			if ok && pkgName.Imported().Path() == "fmt" {
				pass.Reportf(call.Pos(), "fmt.%s writes to stdout; take an io.Writer or use the logger", sel.Sel.Name)
			}

			return true
		})
	}
	return nil, nil
}

func isGoBuildCacheFile(path string) bool {
	path = filepath.ToSlash(path)
	return strings.Contains(path, "/go-build/") || strings.Contains(path, `\go-build\`)
}
