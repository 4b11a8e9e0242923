package entities

// Entity is one extracted resume fact.
type Entity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Selection maps a label to the entities the user picked for research.
type Selection map[string][]Entity

// Count returns the total number of entities in the selection.
func (s Selection) Count() int {
	n := 0
	for _, ents := range s {
		n += len(ents)
	}
	return n
}

// Flatten returns all entities of the selection in label order as sent.
func (s Selection) Flatten() []Entity {
	out := make([]Entity, 0, s.Count())
	for _, ents := range s {
		out = append(out, ents...)
	}
	return out
}
