package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src, "test.tcpp")
	p := New(l, "test.tcpp")
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	l := lexer.New(src, "test.tcpp")
	p := New(l, "test.tcpp")
	_, err := p.ParseProgram()
	return err
}

func TestParseGlobalVarDecl(t *testing.T) {
	prog := parse(t, "int x = 1;")
	require.Len(t, prog.Body, 1)
	v, ok := prog.Body[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
	lit, ok := v.Value.(*ast.IntegerLit)
	require.True(t, ok)
	assert.EqualValues(t, 1, lit.Value)
}

func TestParsePointerVsMultiplyAmbiguity(t *testing.T) {
	// "A" must already be a known type name for "A * b;" to parse as a
	// pointer declaration rather than a multiplication expression.
	prog := parse(t, "struct A { int x; }; A * b;")
	require.Len(t, prog.Body, 2)
	v, ok := prog.Body[1].(*ast.VarDecl)
	require.True(t, ok)
	_, isPtr := v.Type.(*ast.PointerType)
	assert.True(t, isPtr, "expected pointer type, got %T", v.Type)
}

func TestParseMultiplicationNotMistakenForPointerDecl(t *testing.T) {
	prog := parse(t, "int f() { int a; int b; a * b; }")
	fn, ok := prog.Body[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Len(t, fn.Body.Body, 3)
	exprStmt, ok := fn.Body.Body[2].(*ast.ExprStmt)
	require.True(t, ok)
	_, isBinOp := exprStmt.X.(*ast.BinaryOp)
	assert.True(t, isBinOp)
}

func TestParseFreeFunctionDecl(t *testing.T) {
	prog := parse(t, "int add(int a, int b) { return a + b; }")
	fn, ok := prog.Body[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Body, 1)
	ret, ok := fn.Body.Body[0].(*ast.Return)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseDuplicateParamNameRejected(t *testing.T) {
	err := parseErr(t, "int f(int a, int a) {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")
}

func TestParseClassWithFieldsMethodsAndConstructor(t *testing.T) {
	src := `
class Shape {
	public int sides;
	public Shape(int sides) {
	}
	public virtual int area() {
		return 0;
	}
};
`
	prog := parse(t, src)
	c, ok := prog.Body[0].(*ast.ClassDecl)
	require.True(t, ok)
	assert.Equal(t, "Shape", c.Name)
	require.Len(t, c.Fields, 1)
	assert.Equal(t, "sides", c.Fields[0].Name)
	require.Len(t, c.Constructors, 1)
	assert.Equal(t, "Shape", c.Constructors[0].Name)
	assert.True(t, c.Constructors[0].IsConstructor)
	require.Len(t, c.Methods, 1)
	assert.Equal(t, ast.VirtualityVirtual, c.Methods[0].Virtuality)
}

func TestParseClassWithBaseDelegatingConstructor(t *testing.T) {
	src := `
class Base {
	public int x;
	public Base(int x) {
	}
};
class Derived : Base {
	public Derived(int x) : Base(x) {
	}
};
`
	prog := parse(t, src)
	derived, ok := prog.Body[1].(*ast.ClassDecl)
	require.True(t, ok)
	require.Len(t, derived.Constructors, 1)
	ctor := derived.Constructors[0]
	require.NotNil(t, ctor.Delegate)
	assert.Equal(t, "Base", ctor.Delegate.BaseName)
	assert.Equal(t, []string{"x"}, ctor.Delegate.Args)
}

func TestParseAbstractMethodRequiresNoBody(t *testing.T) {
	src := `
class Shape {
	public int area() abstract;
};
`
	prog := parse(t, src)
	c := prog.Body[0].(*ast.ClassDecl)
	require.Len(t, c.Methods, 1)
	assert.Equal(t, ast.VirtualityAbstract, c.Methods[0].Virtuality)
	assert.Nil(t, c.Methods[0].Body)
}

func TestParseNonAbstractMethodWithoutBodyIsError(t *testing.T) {
	src := `
class Shape {
	public int area();
};
`
	err := parseErr(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "body")
}

func TestParseInterfaceDecl(t *testing.T) {
	src := `
interface Printable {
	void print();
};
`
	prog := parse(t, src)
	iface, ok := prog.Body[0].(*ast.InterfaceDecl)
	require.True(t, ok)
	assert.Equal(t, "Printable", iface.Name)
	require.Len(t, iface.Methods, 1)
	assert.Equal(t, "print", iface.Methods[0].Name)
	assert.True(t, iface.Methods[0].IsInterfaceMethod)
}

func TestParseInterfaceMethodWithBodyIsError(t *testing.T) {
	src := `
interface Printable {
	void print() { }
};
`
	err := parseErr(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not have a body")
}

func TestParseClassImplementsInterfaces(t *testing.T) {
	src := `
interface Printable {
	void print();
};
interface Sized {
	int size();
};
class Object {
};
class Widget : Object, Printable, Sized {
};
`
	prog := parse(t, src)
	c, ok := prog.Body[3].(*ast.ClassDecl)
	require.True(t, ok)
	require.Len(t, c.Interfaces, 2)
}

func TestParseSwitchDuplicateCaseIsError(t *testing.T) {
	src := `
int f() {
	int x;
	switch (x) {
		case 1:
			break;
		case 1:
			break;
	}
}
`
	err := parseErr(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate case")
}

func TestParseSwitchDuplicateDefaultIsError(t *testing.T) {
	src := `
int f() {
	int x;
	switch (x) {
		default:
			break;
		default:
			break;
	}
}
`
	err := parseErr(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default")
}

func TestParseForLoop(t *testing.T) {
	src := `
int f() {
	for (int i = 0; i < 10; i = i + 1) {
	}
}
`
	prog := parse(t, src)
	fn := prog.Body[0].(*ast.FuncDecl)
	forStmt, ok := fn.Body.Body[0].(*ast.For)
	require.True(t, ok)
	require.NotNil(t, forStmt.Init)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Post)
}

func TestParseCastExpression(t *testing.T) {
	src := `
int f() {
	int *p;
	return cast<int>(p);
}
`
	prog := parse(t, src)
	fn := prog.Body[0].(*ast.FuncDecl)
	ret := fn.Body.Body[1].(*ast.Return)
	cast, ok := ret.Value.(*ast.Cast)
	require.True(t, ok)
	named, ok := cast.TargetType.(*ast.NamedType)
	require.True(t, ok)
	assert.Equal(t, "int", named.Name)
}

func TestParseMemberAndArrowChain(t *testing.T) {
	src := `
struct Point { int x; };
int f() {
	Point *p;
	return p->x;
}
`
	prog := parse(t, src)
	fn := prog.Body[1].(*ast.FuncDecl)
	ret := fn.Body.Body[1].(*ast.Return)
	mem, ok := ret.Value.(*ast.Member)
	require.True(t, ok)
	assert.True(t, mem.Arrow)
	assert.Equal(t, "x", mem.Name)
}

func TestParseConstructorCallExpression(t *testing.T) {
	src := `
class Point {
	public int x;
	public Point(int x) {
	}
};
int f() {
	Point p = Point(1);
}
`
	prog := parse(t, src)
	fn := prog.Body[1].(*ast.FuncDecl)
	v, ok := fn.Body.Body[0].(*ast.VarDecl)
	require.True(t, ok)
	call, ok := v.Value.(*ast.Call)
	require.True(t, ok)
	ident, ok := call.Function.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "Point", ident.Name)
}

func TestParseOperatorPrecedence(t *testing.T) {
	src := "int f() { return 1 + 2 * 3; }"
	prog := parse(t, src)
	fn := prog.Body[0].(*ast.FuncDecl)
	ret := fn.Body.Body[0].(*ast.Return)
	top, ok := ret.Value.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", top.Op)
	_, isInt := top.Left.(*ast.IntegerLit)
	assert.True(t, isInt)
	_, isMul := top.Right.(*ast.BinaryOp)
	assert.True(t, isMul)
}

func TestParseFuncPtrTypedef(t *testing.T) {
	src := "typedef int (*IntOp)(int, int); IntOp op;"
	prog := parse(t, src)
	_, ok := prog.Body[0].(*ast.FuncPtrDecl)
	require.True(t, ok)
	v, ok := prog.Body[1].(*ast.VarDecl)
	require.True(t, ok)
	named, ok := v.Type.(*ast.NamedType)
	require.True(t, ok)
	assert.Equal(t, "IntOp", named.Name)
}
