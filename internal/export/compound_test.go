package export

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlibdev/catalog-export/internal/entities"
)

func printKey(rec any) string { return fmt.Sprint(rec) }

func attachedOf(parent any) []any {
	switch parent {
	case "b1":
		return []any{"i1", "i2"}
	case "b2":
		return []any{"i2", "i3"}
	}
	return nil
}

func TestCompoundExportFansOutWithPerChildDedup(t *testing.T) {
	bibsChild := &fakeStrategy{name: "bibs"}
	itemsChild := &fakeStrategy{name: "items"}
	comp := NewCompound("compound", &fakeStrategy{}, []Child{
		{Name: "bibs", Strategy: bibsChild, RecordKey: printKey},
		{Name: "items", Strategy: itemsChild, DeriveRecords: attachedOf, RecordKey: printKey},
	})

	res, err := comp.ExportRecords(context.Background(), []any{"b1", "b2"})
	require.NoError(t, err)
	assert.Empty(t, res.RecordErrors)

	require.Len(t, bibsChild.exportCalls, 1)
	assert.Equal(t, []any{"b1", "b2"}, bibsChild.exportCalls[0])

	require.Len(t, itemsChild.exportCalls, 1)
	assert.Equal(t, []any{"i1", "i2", "i3"}, itemsChild.exportCalls[0], "shared item appears once")

	bibVals, ok := res.Vals["bibs"].(Vals)
	require.True(t, ok)
	assert.Equal(t, []string{"b1", "b2"}, bibVals["updated"])
	itemVals, ok := res.Vals["items"].(Vals)
	require.True(t, ok)
	assert.Equal(t, []string{"i1", "i2", "i3"}, itemVals["updated"])
}

func TestCompoundChildFailureDoesNotStopSiblings(t *testing.T) {
	bibsChild := &fakeStrategy{name: "bibs", exportErr: errors.New("index offline")}
	itemsChild := &fakeStrategy{name: "items"}
	comp := NewCompound("compound", &fakeStrategy{}, []Child{
		{Name: "bibs", Strategy: bibsChild, RecordKey: printKey},
		{Name: "items", Strategy: itemsChild, DeriveRecords: attachedOf, RecordKey: printKey},
	})

	res, err := comp.ExportRecords(context.Background(), []any{"b1"})
	require.NoError(t, err)

	require.Len(t, res.RecordErrors, 1)
	assert.Contains(t, res.RecordErrors[0].Error(), "child bibs")
	require.Len(t, itemsChild.exportCalls, 1, "second child still exported")

	_, hasBibs := res.Vals["bibs"]
	assert.False(t, hasBibs)
	assert.Contains(t, res.Vals, "items")
}

func TestCompoundDeleteRecordsRespectsOptOut(t *testing.T) {
	bibsChild := &fakeStrategy{name: "bibs"}
	itemsChild := &fakeStrategy{name: "items"}
	comp := NewCompound("compound", &fakeStrategy{}, []Child{
		{Name: "bibs", Strategy: bibsChild, RecordKey: printKey},
		{
			Name: "items", Strategy: itemsChild, RecordKey: printKey,
			DeriveDeletions: func([]string) []string { return nil },
		},
	})

	res, err := comp.DeleteRecords(context.Background(), []string{"b1", "b2"})
	require.NoError(t, err)

	require.Len(t, bibsChild.deleteCalls, 1)
	assert.Equal(t, []string{"b1", "b2"}, bibsChild.deleteCalls[0])
	assert.Empty(t, itemsChild.deleteCalls)

	bibVals, ok := res.Vals["bibs"].(Vals)
	require.True(t, ok)
	assert.Equal(t, []string{"b1", "b2"}, bibVals["deleted"])
}

func TestCompoundCompileValsDelegatesPerChild(t *testing.T) {
	comp := NewCompound("compound", &fakeStrategy{}, []Child{
		{Name: "bibs", Strategy: &fakeStrategy{name: "bibs"}, RecordKey: printKey},
		{Name: "items", Strategy: &fakeStrategy{name: "items"}, RecordKey: printKey},
	})

	chunks := []Vals{
		{"bibs": Vals{"updated": []string{"b1"}}, "items": Vals{"updated": []string{"i1"}}},
		{"bibs": Vals{"updated": []string{"b2"}}},
	}
	vals := comp.CompileVals(chunks)

	bibVals, ok := vals["bibs"].(Vals)
	require.True(t, ok)
	assert.Equal(t, []string{"b1", "b2"}, bibVals["updated"])
	itemVals, ok := vals["items"].(Vals)
	require.True(t, ok)
	assert.Equal(t, []string{"i1"}, itemVals["updated"])
}

func TestCompoundFinalCallbackFansOutOwnVals(t *testing.T) {
	bibsChild := &fakeStrategy{name: "bibs", finalErr: errors.New("commit refused")}
	itemsChild := &fakeStrategy{name: "items"}
	comp := NewCompound("compound", &fakeStrategy{}, []Child{
		{Name: "bibs", Strategy: bibsChild, RecordKey: printKey},
		{Name: "items", Strategy: itemsChild, RecordKey: printKey},
	})

	vals := Vals{
		"bibs":  Vals{"updated": []string{"b1"}},
		"items": Vals{"updated": []string{"i1"}},
	}
	err := comp.FinalCallback(context.Background(), vals, entities.ExportStatusSuccess)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "child bibs")
	assert.Equal(t, 1, bibsChild.finalCalls)
	assert.Equal(t, 1, itemsChild.finalCalls, "sibling callback still runs")
	assert.Equal(t, Vals{"updated": []string{"i1"}}, itemsChild.finalVals)
}

func TestCompoundPrefetchCombinesChildPathsOnce(t *testing.T) {
	parent := &fakeStrategy{prefetch: []string{"RecordMetadata.Varfields", "Language"}}
	itemsChild := &fakeStrategy{name: "items", prefetch: []string{"Location", "Checkouts"}}
	comp := NewCompound("compound", parent, []Child{
		{Name: "bibs", Strategy: parent, RecordKey: printKey},
		{
			Name: "items", Strategy: itemsChild, RecordKey: printKey,
			PrefetchPrefix: "ItemLinks.ItemRecord.",
		},
	})

	combined := comp.Prefetch()
	assert.Equal(t, []string{
		"RecordMetadata.Varfields",
		"Language",
		"ItemLinks.ItemRecord.Location",
		"ItemLinks.ItemRecord.Checkouts",
	}, combined)

	again := comp.Prefetch()
	assert.Equal(t, combined, again)
}
