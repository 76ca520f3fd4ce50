package evidence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corpusai/corpuschat/chunkstore"
)

func TestGroupSortsAndPreservesFirstSeenOrder(t *testing.T) {
	results := []chunkstore.Result{
		{Title: "B", URL: "u_b", Text: "b1", Distance: 0.3},
		{Title: "A", URL: "u_a", Text: "a1", Distance: 0.1},
		{Title: "B", URL: "u_b", Text: "b2", Distance: 0.5},
		{Title: "A", URL: "u_a", Text: "a2", Distance: 0.2},
	}

	grouped := Group(results)

	assert.Equal(t, []string{"A", "B"}, grouped.Order)
	assert.Equal(t, []string{"a1", "a2"}, grouped.Groups["A"].Texts)
	assert.Equal(t, []string{"b1", "b2"}, grouped.Groups["B"].Texts)
	assert.Equal(t, "u_a", grouped.Groups["A"].URL)
}

func TestGroupStableOnTies(t *testing.T) {
	results := []chunkstore.Result{
		{Title: "X", Text: "first", Distance: 0.2},
		{Title: "X", Text: "second", Distance: 0.2},
	}

	grouped := Group(results)
	assert.Equal(t, []string{"first", "second"}, grouped.Groups["X"].Texts)
}

func TestGroupPreSortedInputUnchanged(t *testing.T) {
	results := []chunkstore.Result{
		{Title: "A", Text: "a1", Distance: 0.1},
		{Title: "B", Text: "b1", Distance: 0.2},
		{Title: "A", Text: "a2", Distance: 0.3},
	}

	grouped := Group(results)
	assert.Equal(t, []string{"A", "B"}, grouped.Order)
	assert.Equal(t, []string{"a1", "a2"}, grouped.Groups["A"].Texts)
}

func TestGroupDoesNotMutateInput(t *testing.T) {
	results := []chunkstore.Result{
		{Title: "B", Distance: 0.9},
		{Title: "A", Distance: 0.1},
	}

	Group(results)
	assert.Equal(t, "B", results[0].Title)
}

func TestAssembleSummariesFirstThenChunks(t *testing.T) {
	summaries := []Summary{
		{Title: "A", Summary: "S_A", URL: "u_a"},
	}
	grouped := Group([]chunkstore.Result{
		{Title: "B", URL: "u_b", Text: "b chunk", Distance: 0.2},
	})

	got := Assemble(summaries, grouped)

	want := "[A](u_a)\nSummary: S_A\n" + Separator + "\n[B](u_b)\nb chunk"
	assert.Equal(t, want, got)
}

func TestAssembleConsumesMatchingChunkGroup(t *testing.T) {
	summaries := []Summary{
		{Title: "A", Summary: "S_A", URL: "u_a"},
	}
	grouped := Group([]chunkstore.Result{
		{Title: "A", URL: "u_a", Text: "a chunk 1", Distance: 0.1},
		{Title: "A", URL: "u_a", Text: "a chunk 2", Distance: 0.2},
	})

	got := Assemble(summaries, grouped)

	assert.Equal(t, "[A](u_a)\nSummary: S_A\na chunk 1\na chunk 2", got)
	assert.Equal(t, 1, strings.Count(got, "[A](u_a)"), "article must appear exactly once")
}

func TestAssembleSummaryOrderIsRequestOrder(t *testing.T) {
	summaries := []Summary{
		{Title: "Z", Summary: "S_Z", URL: "u_z"},
		{Title: "A", Summary: "S_A", URL: "u_a"},
	}

	got := Assemble(summaries, GroupedChunks{Groups: map[string]ChunkGroup{}})

	assert.Less(t, strings.Index(got, "[Z](u_z)"), strings.Index(got, "[A](u_a)"))
}

func TestAssembleEmptyInputs(t *testing.T) {
	assert.Equal(t, "", Assemble(nil, GroupedChunks{}))
	assert.Equal(t, "", Assemble(nil, Group(nil)))
}

func TestAssembleTrimsTrailingSeparator(t *testing.T) {
	got := Assemble([]Summary{{Title: "A", Summary: "S", URL: "u"}}, GroupedChunks{})

	assert.False(t, strings.HasSuffix(got, Separator))
	assert.False(t, strings.HasSuffix(got, "\n"))
}
