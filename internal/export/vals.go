package export

// Vals is the structured partial result an export chunk produces.
// Chunk results are folded together with Merge, so a chunked job and
// an unchunked job over the same records end with the same vals.
type Vals map[string]any

// Merge combines b into a copy of a. Nested maps merge recursively,
// lists with the same key concatenate in call order, and any other
// collision takes b's value. The fold is associative: merging chunks
// pairwise or all at once gives the same result.
func Merge(a, b Vals) Vals {
	out := make(Vals, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if prev, ok := out[k]; ok {
			out[k] = mergeValue(prev, v)
			continue
		}
		out[k] = v
	}
	return out
}

// MergeAll folds a slice of chunk results into one.
func MergeAll(chunks []Vals) Vals {
	out := Vals{}
	for _, c := range chunks {
		out = Merge(out, c)
	}
	return out
}

func mergeValue(a, b any) any {
	if am, ok := asVals(a); ok {
		if bm, ok := asVals(b); ok {
			return Merge(am, bm)
		}
	}
	switch av := a.(type) {
	case []string:
		if bv, ok := b.([]string); ok {
			return append(append([]string{}, av...), bv...)
		}
	case []any:
		if bv, ok := b.([]any); ok {
			return append(append([]any{}, av...), bv...)
		}
	}
	return b
}

func asVals(v any) (Vals, bool) {
	switch m := v.(type) {
	case Vals:
		return m, true
	case map[string]any:
		return Vals(m), true
	}
	return nil, false
}
