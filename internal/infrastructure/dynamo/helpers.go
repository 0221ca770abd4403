package dynamo

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// exprBuilder accumulates a DynamoDB update expression across the SET, ADD,
// DELETE, and REMOVE clauses. SET and REMOVE accept dotted paths into nested
// maps; ADD and DELETE take top-level attribute names only, per the
// update-expression contract.
type exprBuilder struct {
	names  map[string]string
	values map[string]types.AttributeValue
	set    []string
	add    []string
	del    []string
	remove []string
	n      int
}

func newExprBuilder() *exprBuilder {
	return &exprBuilder{
		names:  make(map[string]string),
		values: make(map[string]types.AttributeValue),
	}
}

// path converts a dotted field path to placeholder form, e.g.
// "meta.created" -> "#f0.#f1".
func (b *exprBuilder) path(field string) string {
	segs := strings.Split(field, ".")
	out := make([]string, len(segs))
	for i, s := range segs {
		key := fmt.Sprintf("#f%d", b.n)
		b.names[key] = s
		out[i] = key
		b.n++
	}
	return strings.Join(out, ".")
}

// name registers a single top-level attribute placeholder. The ADD and
// DELETE actions are valid only on top-level attributes, so set and counter
// fields never go through path.
func (b *exprBuilder) name(field string) string {
	key := fmt.Sprintf("#f%d", b.n)
	b.names[key] = field
	b.n++
	return key
}

func (b *exprBuilder) value(av types.AttributeValue) string {
	key := fmt.Sprintf(":v%d", b.n)
	b.values[key] = av
	b.n++
	return key
}

func (b *exprBuilder) Set(field string, v interface{}) error {
	av, err := attributevalue.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal field %s: %w", field, err)
	}
	b.set = append(b.set, fmt.Sprintf("%s = %s", b.path(field), b.value(av)))
	return nil
}

func (b *exprBuilder) AddToSet(field string, members []string) {
	av := &types.AttributeValueMemberSS{Value: members}
	b.add = append(b.add, fmt.Sprintf("%s %s", b.name(field), b.value(av)))
}

func (b *exprBuilder) Increment(field string, by int) {
	av := &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", by)}
	b.add = append(b.add, fmt.Sprintf("%s %s", b.name(field), b.value(av)))
}

func (b *exprBuilder) DeleteFromSet(field string, members []string) {
	av := &types.AttributeValueMemberSS{Value: members}
	b.del = append(b.del, fmt.Sprintf("%s %s", b.name(field), b.value(av)))
}

// Remove drops the attribute entirely. DynamoDB has no empty string set, so
// clearing a set means removing it.
func (b *exprBuilder) Remove(field string) {
	b.remove = append(b.remove, b.path(field))
}

func (b *exprBuilder) Empty() bool {
	return len(b.set) == 0 && len(b.add) == 0 && len(b.del) == 0 && len(b.remove) == 0
}

// Expr renders the combined update expression.
func (b *exprBuilder) Expr() string {
	var parts []string
	if len(b.set) > 0 {
		parts = append(parts, "SET "+strings.Join(b.set, ", "))
	}
	if len(b.add) > 0 {
		parts = append(parts, "ADD "+strings.Join(b.add, ", "))
	}
	if len(b.del) > 0 {
		parts = append(parts, "DELETE "+strings.Join(b.del, ", "))
	}
	if len(b.remove) > 0 {
		parts = append(parts, "REMOVE "+strings.Join(b.remove, ", "))
	}
	return strings.Join(parts, " ")
}
