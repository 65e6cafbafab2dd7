package model

// Params is the parameters mapping of a step. Values are anything that
// encodes to JSON; numbers read from a document are json.Number.
type Params map[string]any

// Clone returns a shallow copy of p. A nil p yields an empty mapping.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}

// MergeParams returns a new mapping holding current overlaid with updates.
// Keys only in current are kept, keys in both take the value from updates and
// keys only in updates are added. Nested mappings are replaced, not merged.
func MergeParams(current, updates Params) Params {
	merged := current.Clone()
	for k, v := range updates {
		merged[k] = v
	}

	return merged
}
