package ilp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestProblem_checkExpression(t *testing.T) {

	// a true case
	prob := NewProblem()
	v := prob.AddVariable(1, false)
	assert.True(t, prob.checkExpression(NewExpression(2, v)))

	// an expression with a new variable not declared in the problem
	assert.False(t, prob.checkExpression(NewExpression(1, &Variable{Coefficient: 1})))

	// a variable declared to another problem at the same index
	other := NewProblem()
	foreign := other.AddVariable(1, false)
	assert.False(t, prob.checkExpression(NewExpression(1, foreign)))

	assert.False(t, prob.checkExpression(Expression{coef: 1}))
}

func TestProblem_AddVariable(t *testing.T) {
	prob := NewProblem()
	v1 := prob.AddVariable(3, false)
	v2 := prob.AddBoundedVariable(-1, 1, true)

	assert.Equal(t, 0, v1.Index())
	assert.Equal(t, 1, v2.Index())
	assert.True(t, math.IsInf(v1.Upper, 1))
	assert.Equal(t, 1.0, v2.Upper)
	assert.True(t, v2.Integer)

	assert.Panics(t, func() { prob.AddBoundedVariable(1, -1, false) })
}

func TestProblem_addConstraintPanics(t *testing.T) {
	prob := NewProblem()
	assert.Panics(t, func() { prob.AddEquality(nil, 1) })
	assert.Panics(t, func() {
		prob.AddInEquality([]Expression{NewExpression(1, &Variable{})}, 1)
	})
}

func TestProblem_constraintIndices(t *testing.T) {
	prob := NewProblem()
	v := prob.AddVariable(1, false)

	assert.Equal(t, 0, prob.AddEquality([]Expression{NewExpression(1, v)}, 1))
	assert.Equal(t, 1, prob.AddInEquality([]Expression{NewExpression(1, v)}, 2))
	assert.Equal(t, 2, prob.AddGreaterEquality([]Expression{NewExpression(1, v)}, 0))
}

func TestSense_String(t *testing.T) {
	assert.Equal(t, "<=", LessOrEqual.String())
	assert.Equal(t, ">=", GreaterOrEqual.String())
	assert.Equal(t, "=", Equal.String())
	assert.Equal(t, "Sense(7)", Sense(7).String())
}

// a minimization with one equality, one inequality per direction and a bounded integer variable
func TestProblem_ToSolveable(t *testing.T) {
	prob := NewProblem()
	v1 := prob.AddVariable(1, false)
	v2 := prob.AddBoundedVariable(2, 3, true)

	prob.AddEquality([]Expression{NewExpression(1, v1), NewExpression(1, v2)}, 4)
	prob.AddInEquality([]Expression{NewExpression(1, v1)}, 2)
	prob.AddGreaterEquality([]Expression{NewExpression(2, v2)}, 1)

	s := prob.ToSolveable()

	assert.Equal(t, []float64{1, 2}, s.c)
	assert.Equal(t, []bool{false, true}, s.integralityConstraints)

	require.NotNil(t, s.A)
	assert.True(t, mat.Equal(mat.NewDense(1, 2, []float64{1, 1}), s.A))
	assert.Equal(t, []float64{4}, s.b)

	require.NotNil(t, s.G)
	assert.True(t, mat.Equal(mat.NewDense(3, 2, []float64{
		1, 0,
		0, -2,
		0, 1,
	}), s.G))
	assert.Equal(t, []float64{2, -1, 3}, s.h)

	assert.Equal(t, []rowRef{
		{equality: true, row: 0, sign: 1},
		{row: 0, sign: 1},
		{row: 1, sign: -1},
	}, s.rows)
}

// repeated expressions on one variable are summed
func TestProblem_ToSolveableSumsExpressions(t *testing.T) {
	prob := NewProblem()
	v1 := prob.AddVariable(1, false)
	v2 := prob.AddVariable(1, false)

	prob.AddInEquality([]Expression{NewExpression(1, v1), NewExpression(2, v1), NewExpression(-1, v2)}, 5)

	s := prob.ToSolveable()
	assert.Nil(t, s.A)
	assert.Nil(t, s.b)
	assert.True(t, mat.Equal(mat.NewDense(1, 2, []float64{3, -1}), s.G))
	assert.Equal(t, []float64{5}, s.h)
}

func TestProblem_ToSolveableEmpty(t *testing.T) {
	prob := NewProblem()
	prob.AddVariable(1, false)

	s := prob.ToSolveable()
	assert.True(t, s.empty())
	assert.NoError(t, s.trivial())

	prob.AddVariable(-1, false)
	assert.ErrorIs(t, prob.ToSolveable().trivial(), ErrUnbounded)
}
