package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/types"
)

func videoSchema() *record.Schema {
	schema := record.NewSchema()
	schema.AddStringField("id")
	schema.AddIntField("likes")
	return schema
}

func TestExpression_Evaluate(t *testing.T) {
	schema := videoSchema()
	row := record.NewRow("V1", 10)

	// 1. A field expression reads the column value from the row.
	value, err := NewFieldExpression("likes").Evaluate(schema, row)
	require.NoError(t, err)
	assert.Equal(t, 10, value)

	// 2. A constant expression ignores the row.
	value, err = NewConstantExpression(30.0).Evaluate(schema, row)
	require.NoError(t, err)
	assert.Equal(t, 30.0, value)

	// 3. A reference to a missing column is an execution error.
	_, err = NewFieldExpression("dislikes").Evaluate(schema, row)
	require.Error(t, err)
	assert.True(t, qerr.IsKind(err, qerr.ExecutionError))
}

func TestExpression_AppliesTo(t *testing.T) {
	schema := videoSchema()
	assert.True(t, NewFieldExpression("likes").AppliesTo(schema))
	assert.False(t, NewFieldExpression("dislikes").AppliesTo(schema))
	assert.True(t, NewConstantExpression(1).AppliesTo(schema))
}

func TestTerm_IsSatisfied(t *testing.T) {
	schema := videoSchema()
	term := NewTerm(NewFieldExpression("likes"), NewConstantExpression(30.0), types.GT)

	// Integer column against a float threshold: coerced comparison.
	ok, err := term.IsSatisfied(schema, record.NewRow("V2", 50))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = term.IsSatisfied(schema, record.NewRow("V1", 10))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "likes > 30", term.String())
}

func TestPredicate_Conjunction(t *testing.T) {
	schema := videoSchema()

	p := NewPredicateFromTerm(NewTerm(NewFieldExpression("likes"), NewConstantExpression(5), types.GT))
	p.CojoinWith(NewPredicateFromTerm(NewTerm(NewFieldExpression("id"), NewConstantExpression("V1"), types.EQ)))

	ok, err := p.IsSatisfied(schema, record.NewRow("V1", 10))
	require.NoError(t, err)
	assert.True(t, ok)

	// One failing term falsifies the conjunction.
	ok, err = p.IsSatisfied(schema, record.NewRow("V2", 10))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "likes > 5 and id = V1", p.String())
}

func TestPredicate_EmptyIsTrue(t *testing.T) {
	p := NewPredicate()
	ok, err := p.IsSatisfied(videoSchema(), record.NewRow("V1", 10))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", p.String())
}

func TestPredicate_AppliesTo(t *testing.T) {
	schema := videoSchema()
	p := NewPredicateFromTerm(NewTerm(NewFieldExpression("likes"), NewConstantExpression(5), types.GT))
	assert.True(t, p.AppliesTo(schema))

	p.CojoinWith(NewPredicateFromTerm(NewTerm(NewFieldExpression("comment"), NewConstantExpression("x"), types.EQ)))
	assert.False(t, p.AppliesTo(schema))
}
