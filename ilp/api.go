package ilp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type Problem struct {
	Variables   []*Variable
	Constraints []Constraint
}

type Variable struct {
	// coefficient of the variable in the objective function
	Coefficient float64

	// integrality constraint
	Integer bool

	// upper bound, +Inf when the variable is only bounded from below by 0
	Upper float64

	// position in Problem.Variables
	index int
}

// Index returns the position of the variable in the problem, which is also its position
// in the solution vectors.
func (v *Variable) Index() int {
	return v.index
}

// an expression of a variable and an arbitrary float for use in defining constraints
// e.g. "-1 * x1"
type Expression struct {
	coef     float64
	variable *Variable
}

func NewExpression(coef float64, v *Variable) Expression {
	return Expression{coef: coef, variable: v}
}

type Sense int

const (
	LessOrEqual Sense = iota
	GreaterOrEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

type Constraint struct {
	// expressions will be summed together to form the LHS of ...
	expressions []Expression

	// ... a constraint with a certain RHS
	sense Sense
	rhs   float64
}

func NewProblem() Problem {
	return Problem{}
}

// add a variable and return a reference to that variable
func (p *Problem) AddVariable(coef float64, integer bool) *Variable {
	return p.AddBoundedVariable(coef, math.Inf(1), integer)
}

// AddBoundedVariable adds a variable restricted to [0, upper].
func (p *Problem) AddBoundedVariable(coef, upper float64, integer bool) *Variable {
	if upper < 0 || math.IsNaN(upper) {
		panic("upper bound of a variable must be nonnegative")
	}

	v := Variable{
		Coefficient: coef,
		Integer:     integer,
		Upper:       upper,
		index:       len(p.Variables),
	}

	p.Variables = append(p.Variables, &v)

	return &v
}

// AddEquality adds the row sum(expr) = equalTo and returns its constraint index, which
// addresses the row's dual value in an LPSolution.
func (p *Problem) AddEquality(expr []Expression, equalTo float64) int {
	return p.addConstraint(expr, Equal, equalTo)
}

// AddInEquality adds the row sum(expr) <= smallerThan.
func (p *Problem) AddInEquality(expr []Expression, smallerThan float64) int {
	return p.addConstraint(expr, LessOrEqual, smallerThan)
}

// AddGreaterEquality adds the row sum(expr) >= greaterThan.
func (p *Problem) AddGreaterEquality(expr []Expression, greaterThan float64) int {
	return p.addConstraint(expr, GreaterOrEqual, greaterThan)
}

func (p *Problem) addConstraint(expr []Expression, sense Sense, rhs float64) int {
	if len(expr) == 0 {
		panic("must add expressions")
	}

	for _, e := range expr {
		if !p.checkExpression(e) {
			panic("provided expression contains a variable that has not been declared to this problem yet")
		}
	}

	p.Constraints = append(p.Constraints, Constraint{
		expressions: expr,
		sense:       sense,
		rhs:         rhs,
	})

	return len(p.Constraints) - 1
}

// Check whether the expression is legal considering the variables currently present in the problem
func (p *Problem) checkExpression(e Expression) bool {
	if e.variable == nil {
		return false
	}
	i := e.variable.index
	return i >= 0 && i < len(p.Variables) && p.Variables[i] == e.variable
}

// where a user constraint ended up in the solveable problem
type rowRef struct {
	equality bool
	row      int

	// -1 when the row was negated to fit the G x <= h form
	sign float64
}

// ToSolveable converts the problem into matrix form:
// minimize c^T x subject to A x = b, G x <= h, x >= 0.
// Greater-or-equal rows are negated, finite upper bounds become rows of G.
func (p *Problem) ToSolveable() *MILPproblem {
	nVar := len(p.Variables)

	var aData, gData []float64
	var b, h []float64
	refs := make([]rowRef, len(p.Constraints))

	for i, constr := range p.Constraints {
		row := make([]float64, nVar)
		for _, e := range constr.expressions {
			row[e.variable.index] += e.coef
		}

		switch constr.sense {
		case Equal:
			refs[i] = rowRef{equality: true, row: len(b), sign: 1}
			aData = append(aData, row...)
			b = append(b, constr.rhs)
		case LessOrEqual:
			refs[i] = rowRef{row: len(h), sign: 1}
			gData = append(gData, row...)
			h = append(h, constr.rhs)
		case GreaterOrEqual:
			refs[i] = rowRef{row: len(h), sign: -1}
			for j := range row {
				row[j] = -row[j]
			}
			gData = append(gData, row...)
			h = append(h, -constr.rhs)
		}
	}

	c := make([]float64, nVar)
	integrality := make([]bool, nVar)
	for j, v := range p.Variables {
		c[j] = v.Coefficient
		integrality[j] = v.Integer
		if !math.IsInf(v.Upper, 1) {
			row := make([]float64, nVar)
			row[j] = 1
			gData = append(gData, row...)
			h = append(h, v.Upper)
		}
	}

	milp := &MILPproblem{
		c:                      c,
		integralityConstraints: integrality,
		rows:                   refs,
	}
	if len(b) > 0 {
		milp.A = mat.NewDense(len(b), nVar, aData)
		milp.b = b
	}
	if len(h) > 0 {
		milp.G = mat.NewDense(len(h), nVar, gData)
		milp.h = h
	}

	return milp
}
