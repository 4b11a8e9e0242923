package selection

// Entity is one extracted resume fact. Label is its category (skill,
// organization, location, ...) and Text the extracted value.
type Entity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Selection maps a label to the ordered set of entities the user picked
// for that label. Within a label, entities are unique by Text and keep
// the order in which they were toggled on.
type Selection map[string][]Entity

// Clone returns a deep copy of the selection.
func (s Selection) Clone() Selection {
	if s == nil {
		return Selection{}
	}
	out := make(Selection, len(s))
	for label, ents := range s {
		copied := make([]Entity, len(ents))
		copy(copied, ents)
		out[label] = copied
	}
	return out
}

// Contains reports whether text is selected under label.
func (s Selection) Contains(label, text string) bool {
	for _, e := range s[label] {
		if e.Text == text {
			return true
		}
	}
	return false
}

// Count returns the total number of selected entities across labels.
func (s Selection) Count() int {
	n := 0
	for _, ents := range s {
		n += len(ents)
	}
	return n
}

// Equal reports structural equality with order treated as significant
// within each label. A label mapped to an empty set never occurs here:
// toggling the last entity off removes the label key, so the empty
// selection has exactly one representation.
func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for label, ents := range s {
		otherEnts, ok := other[label]
		if !ok || len(ents) != len(otherEnts) {
			return false
		}
		for i := range ents {
			if ents[i].Text != otherEnts[i].Text {
				return false
			}
		}
	}
	return true
}

// toggle returns a copy of the selection with the entity added under
// label, or removed if its text is already present. Removing the last
// entity of a label drops the label key entirely.
func (s Selection) toggle(label string, ent Entity) Selection {
	out := s.Clone()
	current := out[label]
	for i, e := range current {
		if e.Text == ent.Text {
			updated := append(append([]Entity{}, current[:i]...), current[i+1:]...)
			if len(updated) == 0 {
				delete(out, label)
			} else {
				out[label] = updated
			}
			return out
		}
	}
	out[label] = append(current, ent)
	return out
}
