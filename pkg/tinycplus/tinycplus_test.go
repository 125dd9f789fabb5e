package tinycplus

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinycplus/tcppc/internal/postprocess"
)

func TestCompileEmptyClass(t *testing.T) {
	res, err := Compile("class C {}; int main() { return 0; }", "scenario_a.tcpp")
	require.NoError(t, err)
	snaps.MatchSnapshot(t, "scenario_a_empty_class", res.Output)
}

func TestCompileSingleVirtualMethod(t *testing.T) {
	res, err := Compile(`
class C { virtual int f() { return 1; } };
int main() { C c; return c.f(); }
`, "scenario_b.tcpp")
	require.NoError(t, err)
	assert.Contains(t, res.Output, "vtable->f(")
	snaps.MatchSnapshot(t, "scenario_b_single_virtual_method", res.Output)
}

func TestCompileOverride(t *testing.T) {
	res, err := Compile(`
class B { virtual int f() { return 1; } };
class D : B { override int f() { return 2; } };
int main() { D d; return d.f(); }
`, "scenario_c.tcpp")
	require.NoError(t, err)
	snaps.MatchSnapshot(t, "scenario_c_override", res.Output)
}

func TestCompileBaseCall(t *testing.T) {
	res, err := Compile(`
class B { virtual int f() { return 1; } };
class D : B { override int f() { return base.f() + 1; } };
`, "scenario_d.tcpp")
	require.NoError(t, err)
	assert.Contains(t, res.Output, "(B*)this")
	snaps.MatchSnapshot(t, "scenario_d_base_call", res.Output)
}

func TestCompileImplicitConstruction(t *testing.T) {
	res, err := Compile(`
class C { int x; };
void use() { C c; }
`, "scenario_e.tcpp")
	require.NoError(t, err)
	assert.Contains(t, res.Output, "make_C()")
	snaps.MatchSnapshot(t, "scenario_e_implicit_construction", res.Output)
}

func TestCompileOverrideWithNoBaseIsAnError(t *testing.T) {
	_, err := Compile("class C { override int f() {} };", "scenario_f.tcpp")
	require.Error(t, err)
}

func TestCompileWithDialectRewritesCast(t *testing.T) {
	res, err := Compile(`
int f(void* p) { return cast<int>(p); }
`, "dialect.tcpp", WithDialect(postprocess.Default()))
	require.NoError(t, err)
	assert.Contains(t, res.Output, "reinterpret_cast<int>(p)")
}

func TestCompileWithCustomEntryFunction(t *testing.T) {
	res, err := Compile(`
class C { virtual int f() { return 1; } };
int run() { return 0; }
`, "entry.tcpp", WithEntryFunction("run"))
	require.NoError(t, err)
	assert.Contains(t, res.Output, "int run(void) {")
	assert.Contains(t, res.Output, "__tinycpp__C_init();")
}

func TestCompileReportsLocatedSyntaxError(t *testing.T) {
	_, err := Compile("int x = ;", "bad.tcpp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[error]")
}
