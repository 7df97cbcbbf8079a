package ps_test

import (
	"testing"

	"github.com/midbel/ps"
	"github.com/stretchr/testify/require"
)

func TestParseRanges(t *testing.T) {
	tests := []struct {
		Input string
		Want  []ps.PageRange
	}{
		{Input: "1", Want: []ps.PageRange{{First: 1, Last: 1}}},
		{Input: "1-3,_1,0", Want: []ps.PageRange{{First: 1, Last: 3}, {First: -1, Last: -1}, {First: 0, Last: 0}}},
		{Input: "5-", Want: []ps.PageRange{{First: 5, Last: -1}}},
		{Input: "-3", Want: []ps.PageRange{{First: 1, Last: 3}}},
		{Input: "-", Want: []ps.PageRange{{First: 1, Last: -1}}},
		{Input: "_", Want: []ps.PageRange{{First: 0, Last: 0}}},
		{Input: "2:4", Want: []ps.PageRange{{First: 2, Last: 4}}},
		{Input: "_3-_1", Want: []ps.PageRange{{First: -3, Last: -1}}},
		{Input: "9-2", Want: []ps.PageRange{{First: 9, Last: 2}}},
	}
	for _, tt := range tests {
		got, err := ps.ParseRanges(tt.Input)
		require.NoError(t, err, tt.Input)
		require.Equal(t, tt.Want, got, tt.Input)
	}
}

func TestParseRangesErrors(t *testing.T) {
	for _, str := range []string{"", "a", "1,", ",1", "1-3x", "1--2", "1 - 2"} {
		_, err := ps.ParseRanges(str)
		require.ErrorIs(t, err, ps.ErrPageRange, str)
		require.ErrorIs(t, err, ps.ErrSyntax, str)
	}
}

func TestSelectionResolve(t *testing.T) {
	tests := []struct {
		Input string
		Sel   ps.Selection
		Pages int
		Want  []int
	}{
		{Pages: 4, Want: []int{0, 1, 2, 3}},
		{Pages: 0, Want: []int{}},
		{Input: "1-10", Sel: ps.Selection{Even: true}, Pages: 10, Want: []int{1, 3, 5, 7, 9}},
		{Input: "1-10", Sel: ps.Selection{Even: true, Reverse: true}, Pages: 10, Want: []int{9, 7, 5, 3, 1}},
		{Sel: ps.Selection{Odd: true}, Pages: 5, Want: []int{0, 2, 4}},
		{Sel: ps.Selection{Odd: true, Even: true}, Pages: 3, Want: []int{0, 1, 2}},
		{Sel: ps.Selection{Reverse: true}, Pages: 3, Want: []int{2, 1, 0}},
		{Input: "1,0,2", Pages: 3, Want: []int{0, ps.Blank, 1}},
		{Input: "0", Sel: ps.Selection{Even: true}, Pages: 3, Want: []int{ps.Blank}},
		{Input: "_1", Pages: 7, Want: []int{6}},
		{Input: "_3-_1", Pages: 5, Want: []int{2, 3, 4}},
		{Input: "_9-2", Pages: 5, Want: []int{0, 1}},
		{Input: "8-12", Pages: 10, Want: []int{7, 8, 9}},
		{Input: "3-1", Pages: 5, Want: []int{2, 1, 0}},
		{Input: "1-2,4-5", Sel: ps.Selection{Reverse: true}, Pages: 5, Want: []int{4, 3, 1, 0}},
	}
	for _, tt := range tests {
		sel := tt.Sel
		if tt.Input != "" {
			list, err := ps.ParseRanges(tt.Input)
			require.NoError(t, err, tt.Input)
			sel.Ranges = list
		}
		require.Equal(t, tt.Want, sel.Resolve(tt.Pages), tt.Input)
	}
}

func TestSelectionEndRelative(t *testing.T) {
	for pages := 1; pages < 20; pages++ {
		sel := ps.Selection{Ranges: []ps.PageRange{{First: -1, Last: -1}}}
		require.Equal(t, []int{pages - 1}, sel.Resolve(pages))
	}
}

func TestSelectionDeterministic(t *testing.T) {
	list, err := ps.ParseRanges("_2-,1,0,3-1")
	require.NoError(t, err)
	sel := ps.Selection{Ranges: list, Odd: true}
	require.Equal(t, sel.Resolve(9), sel.Resolve(9))
}

func TestRangeList(t *testing.T) {
	var rg ps.RangeList
	require.True(t, rg.IsEmpty())
	require.NoError(t, rg.Set("1-3"))
	require.NoError(t, rg.Set("_1,0"))
	require.False(t, rg.IsEmpty())
	require.Len(t, rg.Ranges(), 3)
	require.Equal(t, "1-3,_1,0", rg.String())
	require.Error(t, rg.Set("x"))
}
