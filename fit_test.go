package ps_test

import (
	"testing"

	"github.com/midbel/ps"
	"github.com/stretchr/testify/require"
)

func TestFitPageSame(t *testing.T) {
	a4 := ps.Size{Width: 595, Height: 842}
	f := ps.FitPage(a4, a4)
	require.True(t, f.IsIdentity())
}

func TestFitPageRotated(t *testing.T) {
	var (
		a4        = ps.Size{Width: 595, Height: 842}
		landscape = a4.Swap()
	)
	f := ps.FitPage(a4, landscape)
	require.Equal(t, 90, f.Rotate)
	require.InDelta(t, 1, f.Scale, 1e-9)
	require.InDelta(t, 842, f.ShiftX, 1e-9)
	require.InDelta(t, 0, f.ShiftY, 1e-9)
}

func TestFitPageSmaller(t *testing.T) {
	var (
		a4 = ps.Size{Width: 595, Height: 842}
		a5 = ps.Size{Width: 420, Height: 595}
	)
	f := ps.FitPage(a4, a5)
	require.Equal(t, 0, f.Rotate)
	require.InDelta(t, 420.0/595.0, f.Scale, 1e-9)
	require.InDelta(t, 0, f.ShiftX, 1e-9)
	require.InDelta(t, (595-842*f.Scale)/2, f.ShiftY, 1e-9)
}

func TestFitPageTie(t *testing.T) {
	f := ps.FitPage(ps.Size{Width: 100, Height: 100}, ps.Size{Width: 200, Height: 200})
	require.Equal(t, 0, f.Rotate)
	require.Equal(t, 2.0, f.Scale)
}

func TestFitPageUnset(t *testing.T) {
	f := ps.FitPage(ps.Unset, ps.Size{Width: 200, Height: 200})
	require.True(t, f.IsIdentity())
}
