package marc

import (
	"regexp"
	"slices"
)

// FieldTest and SubfieldTest are the predicate types used by the Where
// family. The constructors below build the premade predicates; custom
// closures work anywhere these types are accepted.
type (
	FieldTest    func(*Field) bool
	SubfieldTest func(*Subfield) bool
)

// Tag predicates apply to fields. The Sub-prefixed variants are the
// same tests over subfield tags.

func TagEquals(tag string) FieldTest {
	return func(f *Field) bool { return f.Tag == tag }
}

func TagIn(tags ...string) FieldTest {
	return func(f *Field) bool { return slices.Contains(tags, f.Tag) }
}

func TagMatches(pattern string) FieldTest {
	re := regexp.MustCompile(pattern)
	return func(f *Field) bool { return re.MatchString(f.Tag) }
}

func SubTagEquals(tag string) SubfieldTest {
	return func(sf *Subfield) bool { return sf.Tag == tag }
}

func SubTagIn(tags ...string) SubfieldTest {
	return func(sf *Subfield) bool { return slices.Contains(tags, sf.Tag) }
}

func SubTagMatches(pattern string) SubfieldTest {
	re := regexp.MustCompile(pattern)
	return func(sf *Subfield) bool { return re.MatchString(sf.Tag) }
}

// Data predicates apply to anything with a data payload: control fields
// at the field level, or subfields.

func DataEquals(data string) FieldTest {
	return func(f *Field) bool { return f.Data == data }
}

func DataMatches(pattern string) FieldTest {
	re := regexp.MustCompile(pattern)
	return func(f *Field) bool { return re.MatchString(f.Data) }
}

func SubDataEquals(data string) SubfieldTest {
	return func(sf *Subfield) bool { return sf.Data == data }
}

func SubDataMatches(pattern string) SubfieldTest {
	re := regexp.MustCompile(pattern)
	return func(sf *Subfield) bool { return re.MatchString(sf.Data) }
}

// Compound tag+data predicates.

func TagInDataEquals(tags []string, data string) FieldTest {
	return func(f *Field) bool {
		return slices.Contains(tags, f.Tag) && f.Data == data
	}
}

func TagInDataMatches(tags []string, pattern string) FieldTest {
	re := regexp.MustCompile(pattern)
	return func(f *Field) bool {
		return slices.Contains(tags, f.Tag) && re.MatchString(f.Data)
	}
}

func SubTagInDataEquals(tags []string, data string) SubfieldTest {
	return func(sf *Subfield) bool {
		return slices.Contains(tags, sf.Tag) && sf.Data == data
	}
}

func SubTagInDataMatches(tags []string, pattern string) SubfieldTest {
	re := regexp.MustCompile(pattern)
	return func(sf *Subfield) bool {
		return slices.Contains(tags, sf.Tag) && re.MatchString(sf.Data)
	}
}

// Indicator predicates only make sense for fields. num is 1 or 2.

func IndicatorEquals(num int, value string) FieldTest {
	return func(f *Field) bool { return f.Indicators[num-1] == value }
}

func IndicatorIn(num int, values ...string) FieldTest {
	return func(f *Field) bool {
		return slices.Contains(values, f.Indicators[num-1])
	}
}

// HasAnySubfieldWhere filters fields by their subfield content.
// Example: fs.Where(HasAnySubfieldWhere(SubTagEquals("a"))) keeps only
// fields with at least one subfield a.
func HasAnySubfieldWhere(test SubfieldTest) FieldTest {
	return func(f *Field) bool {
		for _, sf := range f.Subfields {
			if test(sf) {
				return true
			}
		}
		return false
	}
}
