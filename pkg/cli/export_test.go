package cli

import "io"

var RunBadgeForTest = runBadge

func NewWithOutput(out io.Writer) *CLI {
	return &CLI{out: out}
}
