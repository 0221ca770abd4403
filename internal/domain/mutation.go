package domain

// Mutation describes one atomic document update. Set and Remove may name
// dotted paths into nested maps; Add, Increment and DeleteFromSet must name
// top-level attributes ("grammar_streak"), which is all the store's ADD and
// DELETE actions accept. Set replaces values,
// Add appends to string sets without duplication, Increment adds to numbers,
// DeleteFromSet pulls members out of string sets, and Remove drops the
// attribute entirely (how a stored set is cleared).
type Mutation struct {
	Set           map[string]interface{}
	Add           map[string][]string
	Increment     map[string]int
	DeleteFromSet map[string][]string
	Remove        []string
}

func (m Mutation) Empty() bool {
	return len(m.Set) == 0 && len(m.Add) == 0 && len(m.Increment) == 0 &&
		len(m.DeleteFromSet) == 0 && len(m.Remove) == 0
}
