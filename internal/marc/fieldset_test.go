package marc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestFieldset() Fieldset {
	return Fieldset{
		{Tag: "LDR", Data: "#####nam a22#####7i 4500", Occurrence: 0},
		{Tag: "007", Data: "98765", Occurrence: 1},
		{Tag: "100", Indicators: [2]string{"1", " "}, Occurrence: 2, Subfields: []*Subfield{
			{Tag: "a", Data: "Byron, George Gordon Byron,"},
			{Tag: "c", Data: "Baron,"},
			{Tag: "d", Data: "1788-1824."},
		}},
		{Tag: "500", Indicators: [2]string{" ", " "}, Occurrence: 3, Subfields: []*Subfield{
			{Tag: "a", Data: "Test note."},
			{Tag: "a", Data: "Repeated subfield a."},
			{Tag: "c", Data: "Subfield c."},
		}},
		{Tag: "500", Indicators: [2]string{" ", " "}, Occurrence: 4, Subfields: []*Subfield{
			{Tag: "b", Data: "No subfield a here."},
		}},
	}
}

func TestWhere_PartitionsWithWhereNot(t *testing.T) {
	fs := makeTestFieldset()
	test := TagEquals("500")

	matched := fs.Where(test)
	unmatched := fs.WhereNot(test)

	assert.Len(t, matched, 2)
	assert.Len(t, unmatched, 3)
	assert.Equal(t, len(fs), len(matched)+len(unmatched))

	// No overlap: every original field lands in exactly one partition.
	seen := map[*Field]int{}
	for _, f := range matched {
		seen[f]++
	}
	for _, f := range unmatched {
		seen[f]++
	}
	require.Len(t, seen, len(fs))
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}
}

func TestWhere_SharesFieldPointers(t *testing.T) {
	fs := makeTestFieldset()
	matched := fs.Where(TagEquals("100"))

	require.Len(t, matched, 1)
	assert.Same(t, fs[2], matched[0])
}

func TestWhere_PreservesOrder(t *testing.T) {
	fs := makeTestFieldset()
	matched := fs.Where(TagIn("007", "500"))

	require.Len(t, matched, 3)
	assert.Equal(t, "007", matched[0].Tag)
	assert.Equal(t, 3, matched[1].Occurrence)
	assert.Equal(t, 4, matched[2].Occurrence)
}

func TestSubfieldsWhere_KeepsEveryField(t *testing.T) {
	fs := makeTestFieldset()
	filtered := fs.SubfieldsWhere(SubTagEquals("a"))

	require.Len(t, filtered, len(fs))
	assert.Len(t, filtered[3].Subfields, 2)
	// The 500 with only subfield b stays, with zero subfields.
	assert.Equal(t, "500", filtered[4].Tag)
	assert.Empty(t, filtered[4].Subfields)
}

func TestSubfieldsWhere_CopiesFieldSharesSubfields(t *testing.T) {
	fs := makeTestFieldset()
	filtered := fs.SubfieldsWhere(SubTagEquals("a"))

	assert.NotSame(t, fs[3], filtered[3])
	assert.Same(t, fs[3].Subfields[0], filtered[3].Subfields[0])
	// The original field keeps its full subfield list.
	assert.Len(t, fs[3].Subfields, 3)
}

func TestReplaceSubfieldData_MutatesThroughFilteredView(t *testing.T) {
	fs := makeTestFieldset()

	fs.SubfieldsWhere(SubTagEquals("a")).ReplaceSubfieldData(strings.ToUpper)

	// Matching subfields changed in the original collection.
	assert.Equal(t, "BYRON, GEORGE GORDON BYRON,", fs[2].Subfields[0].Data)
	assert.Equal(t, "TEST NOTE.", fs[3].Subfields[0].Data)
	// Non-matching subfields did not.
	assert.Equal(t, "Baron,", fs[2].Subfields[1].Data)
	assert.Equal(t, "Subfield c.", fs[3].Subfields[2].Data)
	assert.Equal(t, "No subfield a here.", fs[4].Subfields[0].Data)
}

func TestReplaceSubfieldData_ReturnsReceiver(t *testing.T) {
	fs := makeTestFieldset()
	got := fs.ReplaceSubfieldData(func(s string) string { return s })
	assert.Equal(t, fs, got)
}

func TestSubfieldsString_PreservesOrder(t *testing.T) {
	fs := makeTestFieldset()
	s := fs[3].SubfieldsString(" ")
	assert.Equal(t, "Test note. Repeated subfield a. Subfield c.", s)

	s = fs[3].SubfieldsString("|")
	assert.Equal(t, "Test note.|Repeated subfield a.|Subfield c.", s)
}

func TestDoForEachSubfield_CapturesBeforeAndAfter(t *testing.T) {
	fs := makeTestFieldset()
	results := fs[4].DoForEachSubfield(func(sf *Subfield) any {
		sf.Data = "changed"
		return len(sf.Data)
	})

	require.Len(t, results, 1)
	assert.Equal(t, "No subfield a here.", results[0].Before.Data)
	assert.Equal(t, "changed", results[0].After.Data)
	assert.Equal(t, 7, results[0].Value)
	assert.Equal(t, "changed", fs[4].Subfields[0].Data)
}

func TestSorted_DefaultsToTagOrder(t *testing.T) {
	fs := Fieldset{
		{Tag: "500", Occurrence: 1},
		{Tag: "100", Occurrence: 2},
		{Tag: "245", Occurrence: 3},
	}
	sorted := fs.Sorted(nil, false)

	assert.Equal(t, "100", sorted[0].Tag)
	assert.Equal(t, "245", sorted[1].Tag)
	assert.Equal(t, "500", sorted[2].Tag)
	// Original untouched.
	assert.Equal(t, "500", fs[0].Tag)
}

func TestSorted_UnknownKeyBehavesLikeOmitted(t *testing.T) {
	fs := makeTestFieldset()

	withUnknown := fs.Sorted([]string{"bogus", "tag"}, false)
	without := fs.Sorted([]string{"tag"}, false)

	assert.Equal(t, without, withUnknown)
}

func TestSorted_Reverse(t *testing.T) {
	fs := Fieldset{
		{Tag: "100"},
		{Tag: "500"},
		{Tag: "245"},
	}
	sorted := fs.Sorted([]string{"tag"}, true)
	assert.Equal(t, "500", sorted[0].Tag)
	assert.Equal(t, "100", sorted[2].Tag)
}

func TestSorted_TieBrokenByOccurrence(t *testing.T) {
	fs := Fieldset{
		{Tag: "500", Occurrence: 9},
		{Tag: "500", Occurrence: 3},
	}
	sorted := fs.Sorted([]string{"tag", "occurrence"}, false)
	assert.Equal(t, 3, sorted[0].Occurrence)
	assert.Equal(t, 9, sorted[1].Occurrence)
}

func TestControlFieldShape(t *testing.T) {
	fs := makeTestFieldset()
	cf := fs.First(TagEquals("007"))

	require.NotNil(t, cf)
	assert.Equal(t, "98765", cf.Data)
	assert.Equal(t, [2]string{"", ""}, cf.Indicators)
	assert.Empty(t, cf.Subfields)
}
