package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeConcatenatesLists(t *testing.T) {
	a := Vals{"updated": []string{"b1", "b2"}}
	b := Vals{"updated": []string{"b3"}}

	merged := Merge(a, b)
	assert.Equal(t, []string{"b1", "b2", "b3"}, merged["updated"])
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	a := Vals{"updated": []string{"b1"}}
	b := Vals{"updated": []string{"b2"}}

	Merge(a, b)
	assert.Equal(t, []string{"b1"}, a["updated"])
	assert.Equal(t, []string{"b2"}, b["updated"])
}

func TestMergeRecursesIntoNestedMaps(t *testing.T) {
	a := Vals{"bibs": Vals{"updated": []string{"b1"}, "count": 1}}
	b := Vals{"bibs": Vals{"updated": []string{"b2"}}, "items": Vals{"updated": []string{"i1"}}}

	merged := Merge(a, b)
	assert.Equal(t, Vals{
		"bibs":  Vals{"updated": []string{"b1", "b2"}, "count": 1},
		"items": Vals{"updated": []string{"i1"}},
	}, merged)
}

func TestMergeScalarCollisionTakesLatest(t *testing.T) {
	merged := Merge(Vals{"core": "bibs-v1"}, Vals{"core": "bibs-v2"})
	assert.Equal(t, "bibs-v2", merged["core"])
}

func TestMergeAllIsAssociative(t *testing.T) {
	chunks := []Vals{
		{"updated": []string{"b1"}, "deleted": []string{}},
		{"updated": []string{"b2", "b3"}},
		{"updated": []string{"b4"}, "deleted": []string{"b9"}},
	}

	allAtOnce := MergeAll(chunks)
	pairwise := Merge(Merge(chunks[0], chunks[1]), chunks[2])
	leftFirst := Merge(chunks[0], Merge(chunks[1], chunks[2]))

	assert.Equal(t, allAtOnce, pairwise)
	assert.Equal(t, allAtOnce, leftFirst)
	assert.Equal(t, []string{"b1", "b2", "b3", "b4"}, allAtOnce["updated"])
	assert.Equal(t, []string{"b9"}, allAtOnce["deleted"])
}
