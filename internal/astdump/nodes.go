package astdump

import "github.com/tinycplus/tcppc/internal/ast"

// kindName returns the short tag used for a node's "kind" field,
// mirroring the case names of the tagged-variant AST.
func kindName(n ast.Node) string {
	switch n.(type) {
	case *ast.Program:
		return "Program"
	case *ast.VarDecl:
		return "VarDecl"
	case *ast.FuncDecl:
		return "FuncDecl"
	case *ast.StructDecl:
		return "StructDecl"
	case *ast.FuncPtrDecl:
		return "FuncPtrDecl"
	case *ast.MethodDecl:
		return "MethodDecl"
	case *ast.ClassDecl:
		return "ClassDecl"
	case *ast.InterfaceDecl:
		return "InterfaceDecl"
	case *ast.Block:
		return "Block"
	case *ast.If:
		return "If"
	case *ast.Switch:
		return "Switch"
	case *ast.While:
		return "While"
	case *ast.DoWhile:
		return "DoWhile"
	case *ast.For:
		return "For"
	case *ast.Break:
		return "Break"
	case *ast.Continue:
		return "Continue"
	case *ast.Return:
		return "Return"
	case *ast.ExprStmt:
		return "ExprStmt"
	case *ast.BinaryOp:
		return "BinaryOp"
	case *ast.Assignment:
		return "Assignment"
	case *ast.UnaryOp:
		return "UnaryOp"
	case *ast.UnaryPostOp:
		return "UnaryPostOp"
	case *ast.Address:
		return "Address"
	case *ast.Deref:
		return "Deref"
	case *ast.Index:
		return "Index"
	case *ast.Member:
		return "Member"
	case *ast.Call:
		return "Call"
	case *ast.Cast:
		return "Cast"
	case *ast.IntegerLit:
		return "IntegerLit"
	case *ast.DoubleLit:
		return "DoubleLit"
	case *ast.CharLit:
		return "CharLit"
	case *ast.StringLit:
		return "StringLit"
	case *ast.Identifier:
		return "Identifier"
	case *ast.NamedType:
		return "NamedType"
	case *ast.PointerType:
		return "PointerType"
	case *ast.ArrayType:
		return "ArrayType"
	default:
		return "?"
	}
}

// toValue converts n into a plain JSON-marshalable value: every node
// becomes a map carrying "kind", "pos", and that kind's own children,
// recursively. Nodes not yet annotated with a type (pre-analysis dumps)
// simply omit the "type" key.
func toValue(n ast.Node) map[string]any {
	if n == nil {
		return nil
	}
	v := map[string]any{
		"kind": kindName(n),
		"pos":  map[string]any{"file": n.Pos().File, "line": n.Pos().Line, "column": n.Pos().Column},
	}
	if t := n.Type(); t != nil {
		v["type"] = t.String()
	}
	switch x := n.(type) {
	case *ast.Program:
		v["body"] = declList(x.Body)
	case *ast.VarDecl:
		v["name"] = x.Name
		v["varType"] = typeExprValue(x.Type)
		v["value"] = exprValue(x.Value)
	case *ast.FuncDecl:
		v["name"] = x.Name
		v["params"] = paramList(x.Params)
		v["returnType"] = typeExprValue(x.ReturnType)
		if x.Body != nil {
			v["body"] = toValue(x.Body)
		}
	case *ast.StructDecl:
		v["name"] = x.Name
		v["isDefinition"] = x.IsDefinition
		v["fields"] = varDeclList(x.Fields)
	case *ast.FuncPtrDecl:
		v["name"] = x.Name
		params := make([]any, len(x.Params))
		for i, p := range x.Params {
			params[i] = typeExprValue(p)
		}
		v["params"] = params
		v["returnType"] = typeExprValue(x.ReturnType)
	case *ast.MethodDecl:
		v["access"] = x.Access.String()
		v["name"] = x.Name
		v["params"] = paramList(x.Params)
		v["returnType"] = typeExprValue(x.ReturnType)
		v["isConstructor"] = x.IsConstructor
		v["isInterfaceMethod"] = x.IsInterfaceMethod
		v["virtuality"] = int(x.Virtuality)
		if x.Delegate != nil {
			v["delegate"] = map[string]any{"base": x.Delegate.BaseName, "args": x.Delegate.Args}
		}
		if x.Body != nil {
			v["body"] = toValue(x.Body)
		}
	case *ast.ClassDecl:
		v["name"] = x.Name
		v["isDefinition"] = x.IsDefinition
		v["baseClass"] = typeExprValue(x.BaseClass)
		ifaces := make([]any, len(x.Interfaces))
		for i, it := range x.Interfaces {
			ifaces[i] = typeExprValue(it)
		}
		v["interfaces"] = ifaces
		v["fields"] = varDeclList(x.Fields)
		v["methods"] = methodDeclList(x.Methods)
		v["constructors"] = methodDeclList(x.Constructors)
	case *ast.InterfaceDecl:
		v["name"] = x.Name
		v["methods"] = methodDeclList(x.Methods)
	case *ast.Block:
		body := make([]any, len(x.Body))
		for i, s := range x.Body {
			body[i] = toValue(s)
		}
		v["body"] = body
	case *ast.If:
		v["cond"] = exprValue(x.Cond)
		v["trueCase"] = toValue(x.TrueCase)
		if x.FalseCase != nil {
			v["falseCase"] = toValue(x.FalseCase)
		}
	case *ast.Switch:
		v["cond"] = exprValue(x.Cond)
		cases := make([]any, len(x.Cases))
		for i, c := range x.Cases {
			body := make([]any, len(c.Body))
			for j, s := range c.Body {
				body[j] = toValue(s)
			}
			cases[i] = map[string]any{"value": c.Value, "body": body}
		}
		v["cases"] = cases
		if x.DefaultBody != nil {
			def := make([]any, len(x.DefaultBody))
			for i, s := range x.DefaultBody {
				def[i] = toValue(s)
			}
			v["default"] = def
		}
	case *ast.While:
		v["cond"] = exprValue(x.Cond)
		v["body"] = toValue(x.Body)
	case *ast.DoWhile:
		v["cond"] = exprValue(x.Cond)
		v["body"] = toValue(x.Body)
	case *ast.For:
		v["init"] = toValue(x.Init)
		v["cond"] = exprValue(x.Cond)
		v["post"] = toValue(x.Post)
		v["body"] = toValue(x.Body)
	case *ast.Return:
		v["value"] = exprValue(x.Value)
	case *ast.ExprStmt:
		v["x"] = exprValue(x.X)
	case *ast.BinaryOp:
		v["op"] = x.Op
		v["left"] = exprValue(x.Left)
		v["right"] = exprValue(x.Right)
	case *ast.Assignment:
		v["op"] = x.Op
		v["lvalue"] = exprValue(x.LValue)
		v["value"] = exprValue(x.Value)
	case *ast.UnaryOp:
		v["op"] = x.Op
		v["arg"] = exprValue(x.Arg)
	case *ast.UnaryPostOp:
		v["op"] = x.Op
		v["arg"] = exprValue(x.Arg)
	case *ast.Address:
		v["target"] = exprValue(x.Target)
	case *ast.Deref:
		v["target"] = exprValue(x.Target)
	case *ast.Index:
		v["base"] = exprValue(x.BaseExpr)
		v["index"] = exprValue(x.IndexExpr)
	case *ast.Member:
		v["base"] = exprValue(x.BaseExpr)
		v["name"] = x.Name
		v["arrow"] = x.Arrow
	case *ast.Call:
		v["function"] = exprValue(x.Function)
		args := make([]any, len(x.Args))
		for i, a := range x.Args {
			args[i] = exprValue(a)
		}
		v["args"] = args
	case *ast.Cast:
		v["value"] = exprValue(x.Value)
		v["targetType"] = typeExprValue(x.TargetType)
	case *ast.IntegerLit:
		v["value"] = x.Value
	case *ast.DoubleLit:
		v["value"] = x.Value
	case *ast.CharLit:
		v["value"] = x.Value
	case *ast.StringLit:
		v["value"] = x.Value
	case *ast.Identifier:
		v["name"] = x.Name
	case *ast.NamedType:
		v["name"] = x.Name
	case *ast.PointerType:
		v["base"] = typeExprValue(x.BaseType)
	case *ast.ArrayType:
		v["base"] = typeExprValue(x.BaseType)
		v["size"] = exprValue(x.Size)
	}
	return v
}

func exprValue(x ast.Expression) any {
	if x == nil {
		return nil
	}
	return toValue(x)
}

func typeExprValue(t ast.TypeExpr) any {
	if t == nil {
		return nil
	}
	return toValue(t)
}

func declList(decls []ast.Decl) []any {
	out := make([]any, len(decls))
	for i, d := range decls {
		out[i] = toValue(d)
	}
	return out
}

func varDeclList(fields []*ast.VarDecl) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = toValue(f)
	}
	return out
}

func methodDeclList(methods []*ast.MethodDecl) []any {
	out := make([]any, len(methods))
	for i, m := range methods {
		out[i] = toValue(m)
	}
	return out
}

func paramList(params []ast.Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = map[string]any{"name": p.Name, "type": typeExprValue(p.Type)}
	}
	return out
}
