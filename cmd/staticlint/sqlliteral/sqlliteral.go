// Package sqlliteral содержит анализатор, запрещающий собирать текст SQL-запроса
// из неконстантных частей. Значения должны передаваться через плейсхолдеры.
package sqlliteral

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// SQLLiteralAnalyzer проверяет аргумент query у методов database/sql и sqlx
var SQLLiteralAnalyzer = &analysis.Analyzer{
	Name:     "sqlliteral",
	Doc:      "запрещает собирать текст SQL-запроса конкатенацией или форматированием строк",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// sqlPackages содержит пакеты, чьи методы принимают параметр query
var sqlPackages = map[string]bool{
	"database/sql":            true,
	"github.com/jmoiron/sqlx": true,
}

// formatters перечисляет функции, результат которых считается собранным текстом
var formatters = map[string]map[string]bool{
	"fmt":     {"Sprintf": true, "Sprint": true, "Sprintln": true},
	"strings": {"Join": true, "Replace": true, "ReplaceAll": true},
}

func run(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(node ast.Node) {
		call := node.(*ast.CallExpr)

		idx := queryParamIndex(pass, call)
		if idx < 0 || idx >= len(call.Args) {
			return
		}

		if arg := call.Args[idx]; isBuilt(pass, arg) {
			pass.Reportf(arg.Pos(), "текст SQL-запроса собран из неконстантных частей; передавайте значения через плейсхолдеры")
		}
	})

	return nil, nil
}

// queryParamIndex возвращает позицию параметра query или -1
func queryParamIndex(pass *analysis.Pass, call *ast.CallExpr) int {
	fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
	if !ok || fn.Pkg() == nil || !sqlPackages[fn.Pkg().Path()] {
		return -1
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return -1
	}
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		if params.At(i).Name() == "query" {
			return i
		}
	}
	return -1
}

// isBuilt сообщает, что выражение склеивает или форматирует строку во время выполнения.
// Переменные не отслеживаются: значение, полученное из функции, считается доверенным.
func isBuilt(pass *analysis.Pass, expr ast.Expr) bool {
	expr = ast.Unparen(expr)

	if tv, ok := pass.TypesInfo.Types[expr]; ok && tv.Value != nil {
		return false
	}

	switch e := expr.(type) {
	case *ast.BinaryExpr:
		return e.Op == token.ADD
	case *ast.CallExpr:
		fn, ok := typeutil.Callee(pass.TypesInfo, e).(*types.Func)
		if !ok || fn.Pkg() == nil {
			return false
		}
		if fn.Name() == "Rebind" && sqlPackages[fn.Pkg().Path()] && len(e.Args) == 1 {
			return isBuilt(pass, e.Args[0])
		}
		return formatters[fn.Pkg().Path()][fn.Name()]
	}
	return false
}
