package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprBuilder_SetScalar(t *testing.T) {
	b := newExprBuilder()
	require.NoError(t, b.Set("intro_completed", true))

	assert.Equal(t, "SET #f0 = :v1", b.Expr())
	assert.Equal(t, map[string]string{"#f0": "intro_completed"}, b.names)
	av, ok := b.values[":v1"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestExprBuilder_SetDottedPath(t *testing.T) {
	b := newExprBuilder()
	require.NoError(t, b.Set("meta.created", "2026-01-01"))

	assert.Equal(t, "SET #f0.#f1 = :v2", b.Expr())
	assert.Equal(t, "meta", b.names["#f0"])
	assert.Equal(t, "created", b.names["#f1"])
}

func TestExprBuilder_CombinedClauses(t *testing.T) {
	b := newExprBuilder()
	b.Increment("grammar_streak", 1)
	require.NoError(t, b.Set("grammar_completed_today", true))
	b.Remove("grammar_correctly_answered")

	expr := b.Expr()
	assert.Contains(t, expr, "SET ")
	assert.Contains(t, expr, "ADD ")
	assert.Contains(t, expr, "REMOVE ")
}

func TestExprBuilder_AddAndDeleteStringSets(t *testing.T) {
	b := newExprBuilder()
	b.AddToSet("grammar_correctly_answered", []string{"q1"})
	b.DeleteFromSet("grammar_incorrectly_answered", []string{"q1"})

	expr := b.Expr()
	assert.Contains(t, expr, "ADD #f0 :v1")
	assert.Contains(t, expr, "DELETE #f2 :v3")

	ss, ok := b.values[":v1"].(*types.AttributeValueMemberSS)
	require.True(t, ok)
	assert.Equal(t, []string{"q1"}, ss.Value)
}

// ADD and DELETE actions are only valid against top-level attributes, so the
// builder must register each target as one whole attribute name and never
// split it into a document path.
func TestExprBuilder_AddAndDeleteTargetTopLevelAttributes(t *testing.T) {
	b := newExprBuilder()
	b.Increment("grammar_streak", 1)
	b.DeleteFromSet("grammar_incorrectly_answered", []string{"q1"})

	assert.Equal(t, "ADD #f0 :v1 DELETE #f2 :v3", b.Expr())
	assert.Equal(t, "grammar_streak", b.names["#f0"])
	assert.Equal(t, "grammar_incorrectly_answered", b.names["#f2"])
}

func TestExprBuilder_Empty(t *testing.T) {
	b := newExprBuilder()
	assert.True(t, b.Empty())
	assert.Equal(t, "", b.Expr())
}
