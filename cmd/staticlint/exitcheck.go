package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// NoDirectOsExit анализатор запрещающий прямой вызов os.Exit
// в функции main пакета main.
//
//nolint:gochecknoglobals
var NoDirectOsExit = &analysis.Analyzer{
	Name: "nodirectosexit",
	Doc:  "check for direct os.Exit calls in main function",
	Run:  runExitCheck,
}

func runExitCheck(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		if file.Name.Name != "main" {
			continue
		}
		// Сгенерированные файлы из кэша сборки не интересуют.
		if strings.Contains(pass.Fset.Position(file.Pos()).Filename, "go-build") {
			continue
		}

		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || funcDecl.Name.Name != "main" {
				continue
			}
			ast.Inspect(funcDecl, func(n ast.Node) bool {
				callExpr, okCall := n.(*ast.CallExpr)
				if !okCall {
					return true
				}
				selExpr, okSel := callExpr.Fun.(*ast.SelectorExpr)
				if !okSel {
					return true
				}
				ident, okIdent := selExpr.X.(*ast.Ident)
				if okIdent && ident.Name == "os" && selExpr.Sel.Name == "Exit" {
					pass.Reportf(callExpr.Pos(), "direct call os.Exit is not allowed in main function")
				}
				return true
			})
		}
	}

	return nil, nil //nolint:nilnil
}
