package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandNup(t *testing.T) {
	set := flag.NewFlagSet("psnup", flag.ContinueOnError)
	set.Int("n", 1, "")
	set.Float64("t", 0, "")
	set.String("m", "", "")
	set.Bool("l", false, "")

	tests := []struct {
		Args []string
		Want []string
	}{
		{
			Args: []string{"-4", "in.ps"},
			Want: []string{"-n", "4", "in.ps"},
		},
		{
			Args: []string{"-t", "-5", "-2"},
			Want: []string{"-t", "-5", "-n", "2"},
		},
		{
			Args: []string{"-l", "-8"},
			Want: []string{"-l", "-n", "8"},
		},
		{
			Args: []string{"-m=-1", "-2", "--", "-3"},
			Want: []string{"-m=-1", "-n", "2", "--", "-3"},
		},
		{
			Args: []string{"--t", "-6", "in.ps"},
			Want: []string{"--t", "-6", "in.ps"},
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.Want, expandNup(set, tt.Args), "%q", tt.Args)
	}
}
