package ast

import "github.com/tinycplus/tcppc/internal/token"

// BinaryOp is a left-associative infix operator application; Op holds
// the operator's literal spelling (e.g. "+", "==", "&&").
type BinaryOp struct {
	Base
	Op          string
	Left, Right Expression
}

func NewBinaryOp(t token.Token, op string, left, right Expression) *BinaryOp {
	return &BinaryOp{Base: newBase(t), Op: op, Left: left, Right: right}
}
func (*BinaryOp) expressionNode() {}

// Assignment is `lvalue op= value`; Op is "=" for plain assignment.
// Its result always has the lvalue's address.
type Assignment struct {
	Base
	Op     string
	LValue Expression
	Value  Expression
}

func NewAssignment(t token.Token, op string, lvalue, value Expression) *Assignment {
	return &Assignment{Base: newBase(t), Op: op, LValue: lvalue, Value: value}
}
func (*Assignment) expressionNode()  {}
func (*Assignment) HasAddress() bool { return true }

// UnaryOp is a prefix operator: + - ! ~ ++ --. Prefix increment/decrement
// modify and yield their operand in place, so they retain its address;
// the others yield a fresh temporary.
type UnaryOp struct {
	Base
	Op  string
	Arg Expression
}

func NewUnaryOp(t token.Token, op string, arg Expression) *UnaryOp {
	return &UnaryOp{Base: newBase(t), Op: op, Arg: arg}
}
func (*UnaryOp) expressionNode() {}
func (u *UnaryOp) HasAddress() bool {
	return u.Op == "++" || u.Op == "--"
}

// UnaryPostOp is postfix ++ or --; its value is the operand's previous
// (now temporary) value, so it never has an address.
type UnaryPostOp struct {
	Base
	Op  string
	Arg Expression
}

func NewUnaryPostOp(t token.Token, op string, arg Expression) *UnaryPostOp {
	return &UnaryPostOp{Base: newBase(t), Op: op, Arg: arg}
}
func (*UnaryPostOp) expressionNode() {}

// Address is `&target`; target must itself have an address.
type Address struct {
	Base
	Target Expression
}

func NewAddress(t token.Token, target Expression) *Address {
	return &Address{Base: newBase(t), Target: target}
}
func (*Address) expressionNode() {}

// Deref is `*target`; the result of following a pointer always has an
// address.
type Deref struct {
	Base
	Target Expression
}

func NewDeref(t token.Token, target Expression) *Deref {
	return &Deref{Base: newBase(t), Target: target}
}
func (*Deref) expressionNode()  {}
func (*Deref) HasAddress() bool { return true }

// Index is `base[index]`; it has an address exactly when base does.
type Index struct {
	Base
	BaseExpr Expression
	IndexExpr Expression
}

func NewIndex(t token.Token, base, index Expression) *Index {
	return &Index{Base: newBase(t), BaseExpr: base, IndexExpr: index}
}
func (*Index) expressionNode() {}
func (i *Index) HasAddress() bool { return i.BaseExpr.HasAddress() }

// Member is `base.member` or `base->member`; Arrow records which of the
// two spellings was written. The emitter decides between `.`/`->` and
// whether to insert a `&` from the base's resolved type, not from
// Arrow. It has an address exactly when base does.
type Member struct {
	Base
	BaseExpr Expression
	Name     string
	Arrow    bool
}

func NewMember(t token.Token, base Expression, name string, arrow bool) *Member {
	return &Member{Base: newBase(t), BaseExpr: base, Name: name, Arrow: arrow}
}
func (*Member) expressionNode() {}
func (m *Member) HasAddress() bool { return m.BaseExpr.HasAddress() }

// Call is `function(args...)`. function is either an Identifier (a
// free function or, when Name matches a known type, a constructor
// call) or a Member (a method call).
type Call struct {
	Base
	Function Expression
	Args     []Expression
}

func NewCall(t token.Token, function Expression, args []Expression) *Call {
	return &Call{Base: newBase(t), Function: function, Args: args}
}
func (*Call) expressionNode() {}

// Cast is `cast<Type>(value)`. Its result is always a temporary.
type Cast struct {
	Base
	Value    Expression
	TargetType TypeExpr
}

func NewCast(t token.Token, value Expression, target TypeExpr) *Cast {
	return &Cast{Base: newBase(t), Value: value, TargetType: target}
}
func (*Cast) expressionNode() {}
