package astdump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/lexer"
	"github.com/tinycplus/tcppc/internal/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src, "test.tcpp")
	p := parser.New(l, "test.tcpp")
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	ast.LinkParents(prog)
	return prog
}

func TestDumpProgramIsValidJSON(t *testing.T) {
	prog := parseProgram(t, "int x = 1;")
	doc, err := Dump(prog)
	require.NoError(t, err)
	assert.Contains(t, doc, `"kind": "Program"`)
	assert.Contains(t, doc, `"kind": "VarDecl"`)
}

func TestDumpClassIncludesMethodsAndFields(t *testing.T) {
	prog := parseProgram(t, `
class Animal {
	int legs;
	int speak() virtual { return 0; }
};
`)
	doc, err := Dump(prog)
	require.NoError(t, err)
	assert.Contains(t, doc, `"kind": "ClassDecl"`)
	assert.Contains(t, doc, `"name": "Animal"`)
	assert.Contains(t, doc, `"kind": "MethodDecl"`)
	assert.Contains(t, doc, `"name": "legs"`)
}

func TestQueryExtractsNestedValue(t *testing.T) {
	prog := parseProgram(t, "int x = 1;")
	doc, err := Dump(prog)
	require.NoError(t, err)

	val, err := Query(doc, "body.0.name")
	require.NoError(t, err)
	assert.Equal(t, `"x"`, val)
}

func TestQueryMissingPathIsAnError(t *testing.T) {
	prog := parseProgram(t, "int x = 1;")
	doc, err := Dump(prog)
	require.NoError(t, err)

	_, err = Query(doc, "body.0.nonexistent.deeply.nested")
	assert.Error(t, err)
}

func TestSummaryIncludesKindAndPosition(t *testing.T) {
	prog := parseProgram(t, "int x = 1;")
	decl := prog.Body[0]

	doc, err := Summary(decl)
	require.NoError(t, err)
	assert.Contains(t, doc, `"kind":"VarDecl"`)
	assert.Contains(t, doc, `"file":"test.tcpp"`)
}

func TestDumpHandlesForLoopWithOmittedClauses(t *testing.T) {
	prog := parseProgram(t, `
int f() {
	for (; ; ) {
		break;
	}
	return 0;
}
`)
	doc, err := Dump(prog)
	require.NoError(t, err)
	assert.Contains(t, doc, `"kind": "For"`)
}

func TestDumpHandlesForwardDeclaredFunction(t *testing.T) {
	prog := parseProgram(t, "int f(int x);")
	doc, err := Dump(prog)
	require.NoError(t, err)
	assert.Contains(t, doc, `"kind": "FuncDecl"`)
}
