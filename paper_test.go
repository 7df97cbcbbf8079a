package ps_test

import (
	"testing"

	"github.com/midbel/ps"
	"github.com/stretchr/testify/require"
)

func TestLookupPaper(t *testing.T) {
	s, err := ps.LookupPaper("A4")
	require.NoError(t, err)
	require.Equal(t, ps.Size{Width: 595, Height: 842}, s)

	s, err = ps.LookupPaper("letter")
	require.NoError(t, err)
	require.Equal(t, ps.Size{Width: 612, Height: 792}, s)

	_, err = ps.LookupPaper("napkin")
	require.ErrorIs(t, err, ps.ErrPaper)
	require.ErrorIs(t, err, ps.ErrConfig)
}

func TestParsePaper(t *testing.T) {
	s, err := ps.ParsePaper("10x14")
	require.NoError(t, err)
	require.Equal(t, ps.Size{Width: 720, Height: 1008}, s)

	s, err = ps.ParsePaper("100x200")
	require.NoError(t, err)
	require.Equal(t, ps.Size{Width: 100, Height: 200}, s)

	s, err = ps.ParsePaper("1inx2in")
	require.NoError(t, err)
	require.Equal(t, ps.Size{Width: 72, Height: 144}, s)

	for _, str := range []string{"", "x", "10x", "x10", "0x10", "axb"} {
		_, err := ps.ParsePaper(str)
		require.ErrorIs(t, err, ps.ErrPaper, str)
	}
}

func TestDefaultPaper(t *testing.T) {
	t.Setenv("PAPERSIZE", "letter")
	require.Equal(t, ps.Size{Width: 612, Height: 792}, ps.DefaultPaper())

	t.Setenv("PAPERSIZE", "unknown")
	require.Equal(t, ps.Size{Width: 595, Height: 842}, ps.DefaultPaper())
}

func TestPaperFlag(t *testing.T) {
	var p ps.PaperFlag
	require.False(t, p.IsSet())
	require.NoError(t, p.Set("a5"))
	require.True(t, p.IsSet())
	require.Equal(t, "420x595", p.String())
	require.ErrorIs(t, p.Set("napkin"), ps.ErrPaper)
}

func TestResolveSize(t *testing.T) {
	var (
		paper  ps.PaperFlag
		width  ps.DimensionFlag
		height ps.DimensionFlag
	)
	s, err := ps.ResolveSize(&paper, &width, &height, ps.Unset)
	require.NoError(t, err)
	require.False(t, s.IsSet())

	require.NoError(t, paper.Set("a4"))
	require.NoError(t, width.Set("10in"))
	require.NoError(t, height.Set(".5h"))
	s, err = ps.ResolveSize(&paper, &width, &height, ps.Unset)
	require.NoError(t, err)
	require.Equal(t, ps.Size{Width: 720, Height: 421}, s)

	require.Error(t, width.Set("ten"))
}
