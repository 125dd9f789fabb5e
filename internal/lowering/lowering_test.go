package lowering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinycplus/tcppc/internal/ast"
	"github.com/tinycplus/tcppc/internal/ident"
	"github.com/tinycplus/tcppc/internal/lexer"
	"github.com/tinycplus/tcppc/internal/parser"
	"github.com/tinycplus/tcppc/internal/semantic"
	"github.com/tinycplus/tcppc/internal/types"
)

// lower runs src through the full lex/parse/analyze/lower pipeline and
// returns the emitted text, failing the test on any stage error.
func lower(t *testing.T, src string) string {
	t.Helper()
	l := lexer.New(src, "test.tcpp")
	p := parser.New(l, "test.tcpp")
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	ast.LinkParents(prog)

	reg := types.NewRegistry()
	mgl := ident.NewMangler("")
	an := semantic.New(reg, mgl, "")
	require.NoError(t, an.Analyze(prog))

	e := New(reg, mgl, "")
	out, err := e.Emit(prog)
	require.NoError(t, err)
	return out
}

func TestEmitGlobalVarDecl(t *testing.T) {
	out := lower(t, "int x = 1;")
	assert.Contains(t, out, "int x = 1;")
}

func TestEmitFuncDecl(t *testing.T) {
	out := lower(t, "int add(int a, int b) { return a + b; }")
	assert.Contains(t, out, "int add(int a, int b)")
	assert.Contains(t, out, "return (a + b);")
}

func TestEmitStructDecl(t *testing.T) {
	out := lower(t, "struct Point { int x; int y; };")
	assert.Contains(t, out, "typedef struct Point {")
	assert.Contains(t, out, "int x;")
	assert.Contains(t, out, "int y;")
	assert.Contains(t, out, "} Point;")
}

func TestEmitClassStructHasVTablePointerFirst(t *testing.T) {
	out := lower(t, `
class Animal {
    int legs;
    int speak() virtual { return 0; }
};
`)
	assert.Contains(t, out, "typedef struct Animal {")
	assert.Contains(t, out, "vtable;")
	assert.Contains(t, out, "int legs;")
	assert.Contains(t, out, "__tinycpp__Animal_vtable* vtable;\n    int legs;")
}

func TestEmitVirtualMethodDispatchesThroughVTable(t *testing.T) {
	out := lower(t, `
class Animal {
    int speak() virtual { return 0; }
};
int callIt(Animal* a) { return a.speak(); }
`)
	assert.Contains(t, out, "->vtable->speak(")
}

func TestEmitNonVirtualMethodCallsMangledNameDirectly(t *testing.T) {
	out := lower(t, `
class Animal {
    int legs() { return 4; }
};
int callIt(Animal* a) { return a.legs(); }
`)
	assert.Contains(t, out, "__tinycpp__Animal__legs(")
	assert.NotContains(t, out, "->vtable->legs(")
}

func TestEmitBaseRoutedCallBypassesVTable(t *testing.T) {
	out := lower(t, `
class Animal {
    int speak() virtual { return 0; }
};
class Dog : Animal {
    int speak() override {
        return base.speak();
    }
};
`)
	assert.Contains(t, out, "__tinycpp__Animal_virtual_speak((Animal*)this)")
}

func TestEmitImplicitConstructor(t *testing.T) {
	out := lower(t, `
class Point {
    int x;
    int y;
};
void use() {
    Point p;
}
`)
	assert.Contains(t, out, "__tinycpp__make_Point(void)")
	assert.Contains(t, out, "Point this;")
	assert.Contains(t, out, "= __tinycpp__make_Point();")
}

func TestEmitFieldDefaultAppliedInConstructor(t *testing.T) {
	out := lower(t, `
class Counter {
    int count = 0;
};
`)
	assert.Contains(t, out, "this.count = 0;")
}

func TestEmitDelegatingConstructorCallsBaseConstructorAndCopiesFields(t *testing.T) {
	out := lower(t, `
class Animal {
    int legs;
    Animal(int l) {
        this.legs = l;
    }
};
class Dog : Animal {
    int breed;
    Dog(int l, int b) : Animal(l) {
        this.breed = b;
    }
};
`)
	assert.Contains(t, out, "Animal __base = __tinycpp__make_Animal(l);")
	assert.Contains(t, out, "this.legs = __base.legs;")
	assert.Contains(t, out, "this.breed = b;")
}

func TestEmitAbstractClassGetsNoConstructor(t *testing.T) {
	out := lower(t, `
class Shape {
    int area() abstract;
};
`)
	assert.NotContains(t, out, "make_Shape")
}

func TestEmitAbstractSlotSkippedInVTableInit(t *testing.T) {
	out := lower(t, `
class Shape {
    int area() abstract;
};
class Square {
    int area() { return 1; }
};
`)
	// Shape's vtable-init body should not reference a function for the
	// abstract slot since none was ever defined.
	assert.Contains(t, out, "__tinycpp__Shape_init(void)")
	assert.NotContains(t, out, "__tinycpp__Shape_instance.area")
}

func TestEmitCastUsesAngleBracketSyntax(t *testing.T) {
	out := lower(t, "int f(void* p) { return cast<int>(p); }")
	assert.Contains(t, out, "cast<int>(p)")
}

func TestEmitFuncPtrTypedef(t *testing.T) {
	out := lower(t, "typedef int (*Callback)(int);")
	assert.Contains(t, out, "typedef int (*Callback)(int);")
}

func TestEmitEntryFunctionBootstrapsVTables(t *testing.T) {
	out := lower(t, `
class Animal {
    int speak() virtual { return 0; }
};
int main() {
    return 0;
}
`)
	mainIdx := indexOf(out, "int main(void)")
	initCallIdx := indexOf(out, "__tinycpp__Animal_init();")
	require.GreaterOrEqual(t, mainIdx, 0)
	require.GreaterOrEqual(t, initCallIdx, 0)
	assert.Less(t, mainIdx, initCallIdx)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
