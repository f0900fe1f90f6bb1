package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(contracts []Contract) []string {
	out := make([]string, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, c.ID)
	}
	return out
}

func TestPendingContractStaysUnfiled(t *testing.T) {
	c := Contract{ID: "1", Status: StatusPending, FolderID: "A"}
	assert.True(t, VisibleInUnfiled(c))
	assert.False(t, VisibleInFolder(c, "A"))
	assert.Empty(t, Filter([]Contract{c}, InFolder("A")))
	assert.Equal(t, []string{"1"}, ids(Filter([]Contract{c}, Unfiled())))
}

func TestFilterByView(t *testing.T) {
	contracts := []Contract{
		{ID: "1", Status: StatusCompleted, FolderID: "A"},
		{ID: "2", Status: StatusCompleted},
		{ID: "3", Status: StatusSigned, FolderID: "A"},
		{ID: "4", Status: StatusCompleted, FolderID: "B"},
		{ID: "5", Status: StatusPending},
	}
	assert.Equal(t, []string{"2", "5"}, ids(Filter(contracts, Unfiled())))
	assert.Equal(t, []string{"1"}, ids(Filter(contracts, InFolder("A"))))
	assert.Equal(t, []string{"4"}, ids(Filter(contracts, InFolder("B"))))
}

func TestMergeUniqueKeepsFirstOccurrence(t *testing.T) {
	first := []Contract{{ID: "x", WorkerName: "first"}, {ID: "y"}}
	second := []Contract{{ID: "z"}, {ID: "x", WorkerName: "second"}}
	merged := MergeUnique(first, second)
	assert.Equal(t, []string{"x", "y", "z"}, ids(merged))
	assert.Equal(t, "first", merged[0].WorkerName)
}

func TestSelection(t *testing.T) {
	done := Contract{ID: "1", Status: StatusCompleted}
	open := Contract{ID: "2", Status: StatusPending}
	other := Contract{ID: "3", Status: StatusCompleted}

	sel := NewSelection()
	assert.True(t, sel.Select(done))
	assert.True(t, sel.Select(done), "selecting twice is a no-op")
	assert.Equal(t, 1, sel.Len())
	assert.False(t, sel.Select(open), "pending contracts are not selectable")

	sel.Toggle(done)
	assert.False(t, sel.Has("1"))
	sel.Toggle(done)
	assert.True(t, sel.Has("1"))

	visible := []Contract{done, open, other}
	sel.ToggleAll(visible)
	assert.Equal(t, []string{"1", "3"}, sel.IDs())
	sel.ToggleAll(visible)
	assert.Equal(t, 0, sel.Len())
	sel.ToggleAll(visible)
	assert.Equal(t, []string{"1", "3"}, sel.IDs())
}
