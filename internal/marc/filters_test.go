package marc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagFilters(t *testing.T) {
	f := &Field{Tag: "245"}

	assert.True(t, TagEquals("245")(f))
	assert.False(t, TagEquals("246")(f))
	assert.True(t, TagIn("100", "245")(f))
	assert.False(t, TagIn("100", "110")(f))
	assert.True(t, TagMatches(`^2.5$`)(f))
	assert.False(t, TagMatches(`^6`)(f))
}

func TestDataFilters(t *testing.T) {
	f := &Field{Tag: "008", Data: "890512s1989    txu"}

	assert.True(t, DataEquals("890512s1989    txu")(f))
	assert.False(t, DataEquals("890512")(f))
	assert.True(t, DataMatches(`s\d{4}`)(f))
	assert.False(t, DataMatches(`^\d{4}$`)(f))
}

func TestCompoundTagDataFilters(t *testing.T) {
	f := &Field{Tag: "007", Data: "cr"}

	assert.True(t, TagInDataEquals([]string{"006", "007"}, "cr")(f))
	assert.False(t, TagInDataEquals([]string{"006"}, "cr")(f))
	assert.False(t, TagInDataEquals([]string{"006", "007"}, "vd")(f))
	assert.True(t, TagInDataMatches([]string{"007"}, `^c`)(f))
	assert.False(t, TagInDataMatches([]string{"007"}, `^v`)(f))
}

func TestIndicatorFilters(t *testing.T) {
	f := &Field{Tag: "100", Indicators: [2]string{"1", " "}}

	assert.True(t, IndicatorEquals(1, "1")(f))
	assert.False(t, IndicatorEquals(1, "0")(f))
	assert.True(t, IndicatorEquals(2, " ")(f))
	assert.True(t, IndicatorIn(1, "0", "1")(f))
	assert.False(t, IndicatorIn(1, "2", "3")(f))

	// Control fields have empty-string indicators, never blanks.
	cf := &Field{Tag: "008"}
	assert.False(t, IndicatorEquals(1, " ")(cf))
	assert.True(t, IndicatorEquals(1, "")(cf))
}

func TestSubfieldFilters(t *testing.T) {
	sf := &Subfield{Tag: "a", Data: "Byron, George Gordon Byron,"}

	assert.True(t, SubTagEquals("a")(sf))
	assert.False(t, SubTagEquals("b")(sf))
	assert.True(t, SubTagIn("a", "q")(sf))
	assert.True(t, SubDataMatches(`^Byron`)(sf))
	assert.False(t, SubDataEquals("Byron")(sf))
	assert.True(t, SubTagInDataMatches([]string{"a"}, `Gordon`)(sf))
}

func TestHasAnySubfieldWhere(t *testing.T) {
	f := &Field{Tag: "500", Subfields: []*Subfield{
		{Tag: "b", Data: "one"},
		{Tag: "a", Data: "two"},
	}}

	assert.True(t, HasAnySubfieldWhere(SubTagEquals("a"))(f))
	assert.False(t, HasAnySubfieldWhere(SubTagEquals("z"))(f))

	empty := &Field{Tag: "500"}
	assert.False(t, HasAnySubfieldWhere(SubTagEquals("a"))(empty))
}
