package domain

// Unit is a grouping of practice items: a grammar day or a writing module.
type Unit struct {
	Practice string `json:"practice" dynamodbav:"practice"`
	UnitID   string `json:"unit_id" dynamodbav:"unit_id"`
	Title    string `json:"title" dynamodbav:"title"`
	Demo     bool   `json:"demo,omitempty" dynamodbav:"demo"`
}

// Item is a single practice question inside a unit.
type Item struct {
	ItemID  string   `json:"item_id" dynamodbav:"item_id"`
	UnitID  string   `json:"unit_id" dynamodbav:"unit_id"`
	Prompt  string   `json:"prompt" dynamodbav:"prompt"`
	Choices []string `json:"choices,omitempty" dynamodbav:"choices"`
	Answer  string   `json:"answer" dynamodbav:"answer"`
}
