package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/ident"
	"github.com/tinycplus/tcppc/internal/lexer"
	"github.com/tinycplus/tcppc/internal/parser"
	"github.com/tinycplus/tcppc/internal/types"
)

// analyze runs src through lex/parse/analyze and returns the resulting
// program, or the first error any stage produces.
func analyze(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	l := lexer.New(src, "test.tcpp")
	p := parser.New(l, "test.tcpp")
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	ast.LinkParents(prog)

	reg := types.NewRegistry()
	mgl := ident.NewMangler("")
	a := New(reg, mgl, "")
	return prog, a.Analyze(prog)
}

func TestAnalyzeSimpleClass(t *testing.T) {
	_, err := analyze(t, `
class Point {
	int x;
	int y;
};
`)
	require.NoError(t, err)
}

func TestAnalyzeVirtualMethodRegistersSlot(t *testing.T) {
	prog, err := analyze(t, `
class Animal {
	int speak() virtual { return 0; }
};
`)
	require.NoError(t, err)

	decl := prog.Body[0].(*ast.ClassDecl)
	class, ok := decl.Type().(*types.Class)
	require.True(t, ok)
	_, found := class.GetMethodInfo("speak")
	assert.True(t, found)
}

func TestAnalyzeOverrideWithoutBaseIsAnError(t *testing.T) {
	_, err := analyze(t, `
class C {
	int f() override { return 1; }
};
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no base class")
}

func TestAnalyzeOverrideWithNoMatchingBaseMethodIsAnError(t *testing.T) {
	_, err := analyze(t, `
class B {
	int f() virtual { return 1; }
};
class D : B {
	int g() override { return 2; }
};
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no base method")
}

func TestAnalyzeDuplicateMemberIsAnError(t *testing.T) {
	_, err := analyze(t, `
class C {
	int f() { return 1; }
	int f() { return 2; }
};
`)
	require.Error(t, err)
}

func TestAnalyzeUndeclaredIdentifierIsAnError(t *testing.T) {
	_, err := analyze(t, `
int f() { return y; }
`)
	require.Error(t, err)
}

func TestAnalyzeClassImplementsInterface(t *testing.T) {
	_, err := analyze(t, `
interface Shape {
	int area();
};
class Figure {
};
class Square : Figure, Shape {
	int side;
	int area() { return this.side * this.side; }
};
`)
	require.NoError(t, err)
}

func TestAnalyzeReservedPrefixIdentifierIsAnError(t *testing.T) {
	l := lexer.New("int __tinycpp__x = 1;", "test.tcpp")
	p := parser.New(l, "test.tcpp")
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	ast.LinkParents(prog)

	reg := types.NewRegistry()
	mgl := ident.NewMangler("__tinycpp__")
	a := New(reg, mgl, "__tinycpp__")
	err = a.Analyze(prog)
	require.Error(t, err)
}

func TestAnalyzeConstructorCallWithWrongArityIsAnError(t *testing.T) {
	_, err := analyze(t, `
class Point {
    int x;
    Point(int x) {
        this.x = x;
    }
};
void use() {
    Point p = Point(1, 2);
}
`)
	require.Error(t, err)
}

func TestAnalyzeImplicitConstructorCallWithArgumentsIsAnError(t *testing.T) {
	_, err := analyze(t, `
class Point {
    int x;
};
void use() {
    Point p = Point(1);
}
`)
	require.Error(t, err)
}

func TestAnalyzeConstructorCallWithMatchingArgsIsFine(t *testing.T) {
	_, err := analyze(t, `
class Point {
    int x;
    Point(int x) {
        this.x = x;
    }
};
void use() {
    Point p = Point(1);
}
`)
	require.NoError(t, err)
}
