// Command staticlint проверяет код редиректора набором анализаторов:
// проходы x/tools, SA из staticcheck, ST1000/ST1005 и S1000, errcheck
// и sqlliteral, который не даёт подставлять коды ссылок в текст SQL.
//
//	go run ./cmd/staticlint ./...
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/buildtag"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/kisielk/errcheck/errcheck"

	"github.com/tempizhere/shorty/cmd/staticlint/sqlliteral"
)

// extraChecks перечисляет проверки классов ST и S, включаемые поимённо
var extraChecks = map[string]bool{
	"ST1000": true, // документация пакета
	"ST1005": true, // тексты ошибок
	"S1000":  true, // select с одним case
}

func main() {
	analyzers := []*analysis.Analyzer{
		nilness.Analyzer,
		shadow.Analyzer,
		unreachable.Analyzer,
		printf.Analyzer,
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		buildtag.Analyzer,
		copylock.Analyzer,
		httpresponse.Analyzer, // хендлеры и тесты работают с http.Response
		lostcancel.Analyzer,   // таймауты запросов к хранилищу
		errcheck.Analyzer,
		sqlliteral.SQLLiteralAnalyzer,
	}

	for _, a := range staticcheck.Analyzers {
		analyzers = append(analyzers, a.Analyzer)
	}
	analyzers = appendSelected(analyzers, stylecheck.Analyzers)
	analyzers = appendSelected(analyzers, simple.Analyzers)

	multichecker.Main(analyzers...)
}

// appendSelected добавляет анализаторы, перечисленные в extraChecks
func appendSelected(dst []*analysis.Analyzer, src []*lint.Analyzer) []*analysis.Analyzer {
	for _, a := range src {
		if extraChecks[a.Analyzer.Name] {
			dst = append(dst, a.Analyzer)
		}
	}
	return dst
}
