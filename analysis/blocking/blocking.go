// Package blocking defines an analyzer reporting operations that block
// inside resumable bodies. A body runs on the goroutine of the driving loop
// and must give control back by suspending; anything that parks the
// goroutine stalls every other body of the loop.
package blocking

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

const resumablePackage = "github.com/stealthrocket/resumable"

const doc = `report blocking operations in resumable bodies

A resumable body is a function returning resumable.Status or
resumable.Result. Inside a body the analyzer reports time.Sleep, waits on
sync.WaitGroup and sync.Cond, channel sends and receives, ranging over a
channel, select statements without a default case, calls to
resumable.Block and resumable.Drive, and dispatch switches with a default
case.`

var Analyzer = &analysis.Analyzer{
	Name:     "blocking",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var blockingFuncs = map[string]string{
	"time.Sleep":                "time.Sleep blocks the driving loop; wait on a timeout.Timeout instead",
	"(*sync.WaitGroup).Wait":    "sync.WaitGroup.Wait blocks the driving loop",
	"(*sync.Cond).Wait":         "sync.Cond.Wait blocks the driving loop",
	resumablePackage + ".Block": "resumable.Block busy-waits inside a body; suspend until the callee finishes",
	resumablePackage + ".Drive": "resumable.Drive busy-waits inside a body; suspend until the callee finishes",
}

func run(pass *analysis.Pass) (interface{}, error) {
	in := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	filter := []ast.Node{
		(*ast.FuncDecl)(nil),
		(*ast.FuncLit)(nil),
	}
	in.Preorder(filter, func(n ast.Node) {
		var sig *types.Signature
		var body *ast.BlockStmt
		switch fn := n.(type) {
		case *ast.FuncDecl:
			if obj, ok := pass.TypesInfo.Defs[fn.Name].(*types.Func); ok {
				sig = obj.Type().(*types.Signature)
			}
			body = fn.Body
		case *ast.FuncLit:
			sig, _ = pass.TypesInfo.TypeOf(fn).(*types.Signature)
			body = fn.Body
		}
		if sig == nil || body == nil || !isBody(sig) {
			return
		}
		checkBody(pass, body)
	})
	return nil, nil
}

// isBody returns true if the function returns a Status or a Result of the
// resumable package.
func isBody(sig *types.Signature) bool {
	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		if isResumableType(results.At(i).Type(), "Status", "Result") {
			return true
		}
	}
	return false
}

func isResumableType(t types.Type, names ...string) bool {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != resumablePackage {
		return false
	}
	for _, name := range names {
		if obj.Name() == name {
			return true
		}
	}
	return false
}

func checkBody(pass *analysis.Pass, body *ast.BlockStmt) {
	var visit func(ast.Node) bool
	visit = func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.FuncLit:
			// Checked on its own if it is a body.
			return false

		case *ast.CallExpr:
			fn, ok := typeutil.Callee(pass.TypesInfo, n).(*types.Func)
			if !ok {
				break
			}
			if msg, ok := blockingFuncs[fn.Origin().FullName()]; ok {
				pass.Reportf(n.Pos(), "%s", msg)
			}

		case *ast.SendStmt:
			pass.Reportf(n.Arrow, "channel send blocks the driving loop")

		case *ast.UnaryExpr:
			if n.Op == token.ARROW {
				pass.Reportf(n.OpPos, "channel receive blocks the driving loop")
			}

		case *ast.RangeStmt:
			if _, ok := pass.TypesInfo.TypeOf(n.X).Underlying().(*types.Chan); ok {
				pass.Reportf(n.For, "range over a channel blocks the driving loop")
			}

		case *ast.SelectStmt:
			if !hasDefault(n.Body) {
				pass.Reportf(n.Select, "select without default blocks the driving loop")
			}

		case *ast.CommClause:
			// The communication of a case is reported with its select.
			for _, stmt := range n.Body {
				ast.Inspect(stmt, visit)
			}
			return false

		case *ast.SwitchStmt:
			if isDispatch(pass, n.Tag) && hasDefault(n.Body) {
				pass.Reportf(n.Switch, "default case in a dispatch switch swallows finished and conflicting states")
			}
		}
		return true
	}
	ast.Inspect(body, visit)
}

func hasDefault(body *ast.BlockStmt) bool {
	for _, stmt := range body.List {
		switch c := stmt.(type) {
		case *ast.CaseClause:
			if c.List == nil {
				return true
			}
		case *ast.CommClause:
			if c.Comm == nil {
				return true
			}
		}
	}
	return false
}

// isDispatch returns true if tag is a call to Frame.Marker or Thread.Begin.
func isDispatch(pass *analysis.Pass, tag ast.Expr) bool {
	call, ok := tag.(*ast.CallExpr)
	if !ok {
		return false
	}
	fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
	if !ok {
		return false
	}
	recv := fn.Type().(*types.Signature).Recv()
	if recv == nil {
		return false
	}
	switch fn.Name() {
	case "Marker":
		return isResumableType(recv.Type(), "Frame")
	case "Begin":
		return isResumableType(recv.Type(), "Thread")
	}
	return false
}
