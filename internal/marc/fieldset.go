// Package marc models MARC-style fields and filterable sets of fields.
//
// Fields, subfields, and fieldsets are plain data with a particular
// sharing contract: a Fieldset holds pointers to Field values, and a
// Field holds pointers to Subfield values. Field-level filters return
// new Fieldsets referencing the same Field pointers; subfield-level
// filters return shallow Field copies whose subfield slices reference
// the original Subfield values. Mutating subfield data through a
// filtered view therefore changes the data seen through every other
// view, which is the intended find-and-patch idiom.
package marc

import (
	"sort"
	"strings"
)

// Subfield is one tagged sub-component of a variable-length field.
// Subfields are owned by exactly one Field but may be referenced by any
// number of filtered Field copies.
type Subfield struct {
	Tag  string
	Data string
}

// Field is a single MARC-style field. Control fields (tag 001-009)
// carry Data and have no indicators or subfields; all other fields,
// including the LDR leader, carry indicators and subfields and leave
// Data empty. An empty indicator string means "no indicator" (control
// fields); a single space is a blank indicator.
//
// Occurrence disambiguates repeated tags for sorting. It is not a
// uniqueness key.
type Field struct {
	Tag        string
	Data       string
	Indicators [2]string
	Subfields  []*Subfield
	Occurrence int
}

// shallowCopy returns a new Field with the same scalar attributes and a
// new subfield slice referencing the same Subfield values.
func (f *Field) shallowCopy() *Field {
	subs := make([]*Subfield, len(f.Subfields))
	copy(subs, f.Subfields)
	return &Field{
		Tag:        f.Tag,
		Data:       f.Data,
		Indicators: f.Indicators,
		Subfields:  subs,
		Occurrence: f.Occurrence,
	}
}

// SubfieldsWhere returns a shallow copy of the field holding only the
// subfields matching test. The copy's subfields are the original
// Subfield values, not copies. A field with no matches gets an empty
// subfield list.
func (f *Field) SubfieldsWhere(test SubfieldTest) *Field {
	nf := f.shallowCopy()
	nf.Subfields = nil
	for _, sf := range f.Subfields {
		if test(sf) {
			nf.Subfields = append(nf.Subfields, sf)
		}
	}
	return nf
}

// SubfieldsWhereNot is the complement of SubfieldsWhere.
func (f *Field) SubfieldsWhereNot(test SubfieldTest) *Field {
	return f.SubfieldsWhere(func(sf *Subfield) bool { return !test(sf) })
}

// ReplaceSubfieldData replaces each subfield's data in place by running
// it through replace, and returns the receiver. Because filtered views
// share Subfield values, calling this on a filtered field changes the
// data in the original fieldset too.
func (f *Field) ReplaceSubfieldData(replace func(string) string) *Field {
	for _, sf := range f.Subfields {
		sf.Data = replace(sf.Data)
	}
	return f
}

// SubfieldResult records a subfield's tag and data before and after a
// DoForEachSubfield callback ran, plus whatever the callback returned.
type SubfieldResult struct {
	Before Subfield
	After  Subfield
	Value  any
}

// DoForEachSubfield runs do on each subfield. The callback may mutate
// the subfield; before and after snapshots are captured in the results.
func (f *Field) DoForEachSubfield(do func(*Subfield) any) []SubfieldResult {
	results := make([]SubfieldResult, 0, len(f.Subfields))
	for _, sf := range f.Subfields {
		r := SubfieldResult{Before: *sf}
		r.Value = do(sf)
		r.After = *sf
		results = append(results, r)
	}
	return results
}

// SubfieldsString joins the field's subfield data, in slice order,
// using delimiter.
func (f *Field) SubfieldsString(delimiter string) string {
	parts := make([]string, len(f.Subfields))
	for i, sf := range f.Subfields {
		parts[i] = sf.Data
	}
	return strings.Join(parts, delimiter)
}

// Fieldset is an ordered collection of fields. Slicing and appending
// work as for any slice; the methods below give filtered views per the
// sharing contract described in the package comment.
type Fieldset []*Field

// Where returns a new Fieldset holding the fields matching test, in
// their original relative order. The returned set references the same
// Field values.
func (fs Fieldset) Where(test FieldTest) Fieldset {
	var out Fieldset
	for _, f := range fs {
		if test(f) {
			out = append(out, f)
		}
	}
	return out
}

// WhereNot is the complement of Where.
func (fs Fieldset) WhereNot(test FieldTest) Fieldset {
	return fs.Where(func(f *Field) bool { return !test(f) })
}

// First returns the first field matching test, or nil if none match.
func (fs Fieldset) First(test FieldTest) *Field {
	for _, f := range fs {
		if test(f) {
			return f
		}
	}
	return nil
}

// SubfieldsWhere filters each field's subfield list to the subfields
// matching test. Every field stays in the returned set, including those
// left with zero subfields.
func (fs Fieldset) SubfieldsWhere(test SubfieldTest) Fieldset {
	out := make(Fieldset, len(fs))
	for i, f := range fs {
		out[i] = f.SubfieldsWhere(test)
	}
	return out
}

// SubfieldsWhereNot is the complement of SubfieldsWhere.
func (fs Fieldset) SubfieldsWhereNot(test SubfieldTest) Fieldset {
	out := make(Fieldset, len(fs))
	for i, f := range fs {
		out[i] = f.SubfieldsWhereNot(test)
	}
	return out
}

// ReplaceSubfieldData runs replace over every subfield of every field,
// in place, and returns the receiver.
func (fs Fieldset) ReplaceSubfieldData(replace func(string) string) Fieldset {
	for _, f := range fs {
		f.ReplaceSubfieldData(replace)
	}
	return fs
}

// DoForEachSubfield runs do on every subfield of every field and
// returns the per-field results.
func (fs Fieldset) DoForEachSubfield(do func(*Subfield) any) [][]SubfieldResult {
	out := make([][]SubfieldResult, len(fs))
	for i, f := range fs {
		out[i] = f.DoForEachSubfield(do)
	}
	return out
}

// SubfieldsStrings returns one joined subfield string per field.
func (fs Fieldset) SubfieldsStrings(delimiter string) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.SubfieldsString(delimiter)
	}
	return out
}

// Sorted returns a new Fieldset sorted by the named top-level
// attributes ("tag", "data", "occurrence"), defaulting to tag order.
// Unknown attribute names contribute no ordering weight. The sort is
// stable, so insertion order breaks ties.
func (fs Fieldset) Sorted(keys []string, reverse bool) Fieldset {
	if len(keys) == 0 {
		keys = []string{"tag"}
	}
	out := make(Fieldset, len(fs))
	copy(out, fs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if reverse {
			a, b = b, a
		}
		for _, key := range keys {
			if c := compareByKey(a, b, key); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out
}

func compareByKey(a, b *Field, key string) int {
	switch key {
	case "tag":
		return strings.Compare(a.Tag, b.Tag)
	case "data":
		return strings.Compare(a.Data, b.Data)
	case "occurrence":
		switch {
		case a.Occurrence < b.Occurrence:
			return -1
		case a.Occurrence > b.Occurrence:
			return 1
		}
	}
	return 0
}
