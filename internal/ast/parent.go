package ast

// LinkParents walks n and sets every descendant's parent pointer,
// giving FindParent something to climb. It must run once, after
// parsing and before analysis, over the whole Program.
func LinkParents(n Node) {
	linkChildren(n)
}

func attach(parent, child Node) {
	if child == nil {
		return
	}
	child.SetParent(parent)
	linkChildren(child)
}

func linkChildren(n Node) {
	switch v := n.(type) {
	case *Program:
		for _, d := range v.Body {
			attach(v, d)
		}
	case *PointerType:
		attach(v, v.BaseType)
	case *ArrayType:
		attach(v, v.BaseType)
		attach(v, v.Size)
	case *Block:
		for _, s := range v.Body {
			attach(v, s)
		}
	case *VarDecl:
		attach(v, v.Type)
		attach(v, v.Value)
	case *FuncDecl:
		attach(v, v.ReturnType)
		for i := range v.Params {
			attach(v, v.Params[i].Type)
		}
		if v.Body != nil {
			attach(v, v.Body)
		}
	case *FuncPtrDecl:
		attach(v, v.ReturnType)
		for _, p := range v.Params {
			attach(v, p)
		}
	case *StructDecl:
		for _, f := range v.Fields {
			attach(v, f)
		}
	case *ClassDecl:
		attach(v, v.BaseClass)
		for _, i := range v.Interfaces {
			attach(v, i)
		}
		for _, f := range v.Fields {
			attach(v, f)
		}
		for _, m := range v.Methods {
			attach(v, m)
		}
		for _, c := range v.Constructors {
			attach(v, c)
		}
	case *InterfaceDecl:
		for _, m := range v.Methods {
			attach(v, m)
		}
	case *MethodDecl:
		attach(v, v.ReturnType)
		for i := range v.Params {
			attach(v, v.Params[i].Type)
		}
		if v.Body != nil {
			attach(v, v.Body)
		}
	case *If:
		attach(v, v.Cond)
		attach(v, v.TrueCase)
		attach(v, v.FalseCase)
	case *Switch:
		attach(v, v.Cond)
		for _, c := range v.Cases {
			for _, s := range c.Body {
				attach(v, s)
			}
		}
		for _, s := range v.DefaultBody {
			attach(v, s)
		}
	case *While:
		attach(v, v.Cond)
		attach(v, v.Body)
	case *DoWhile:
		attach(v, v.Body)
		attach(v, v.Cond)
	case *For:
		attach(v, v.Init)
		attach(v, v.Cond)
		attach(v, v.Post)
		attach(v, v.Body)
	case *Return:
		attach(v, v.Value)
	case *ExprStmt:
		attach(v, v.X)
	case *BinaryOp:
		attach(v, v.Left)
		attach(v, v.Right)
	case *Assignment:
		attach(v, v.LValue)
		attach(v, v.Value)
	case *UnaryOp:
		attach(v, v.Arg)
	case *UnaryPostOp:
		attach(v, v.Arg)
	case *Address:
		attach(v, v.Target)
	case *Deref:
		attach(v, v.Target)
	case *Index:
		attach(v, v.BaseExpr)
		attach(v, v.IndexExpr)
	case *Member:
		attach(v, v.BaseExpr)
	case *Call:
		attach(v, v.Function)
		for _, a := range v.Args {
			attach(v, a)
		}
	case *Cast:
		attach(v, v.TargetType)
		attach(v, v.Value)
	// IntegerLit, DoubleLit, CharLit, StringLit, Identifier, NamedType,
	// Break, Continue: leaves, nothing to recurse into.
	}
}
