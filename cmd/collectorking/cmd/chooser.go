package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/collectorking/collectorking/pkg/errors"
)

// terminalChooser resolves ambiguous rarities by prompting on the
// terminal: the candidates are printed numbered and the user picks one by
// number or by name. An empty line cancels the row.
type terminalChooser struct {
	in  *bufio.Scanner
	out io.Writer
}

func newTerminalChooser(in io.Reader, out io.Writer) *terminalChooser {
	return &terminalChooser{in: bufio.NewScanner(in), out: out}
}

// Choose implements reconcile.Chooser.
func (c *terminalChooser) Choose(ctx context.Context, setCode string, candidates []string) (string, error) {
	fmt.Fprintf(c.out, "\n%s has multiple rarities:\n", setCode)
	for i, name := range candidates {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, name)
	}
	fmt.Fprintf(c.out, "Pick one (1-%d, empty to skip): ", len(candidates))

	for {
		if ctx.Err() != nil {
			return "", errors.ErrCanceled
		}
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return "", errors.WrapIO("read", "choice", err)
			}
			return "", errors.ErrCanceled
		}

		answer := strings.TrimSpace(c.in.Text())
		if answer == "" {
			return "", errors.ErrCanceled
		}

		if n, err := strconv.Atoi(answer); err == nil {
			if n >= 1 && n <= len(candidates) {
				return candidates[n-1], nil
			}
		} else {
			for _, name := range candidates {
				if strings.EqualFold(name, answer) {
					return name, nil
				}
			}
		}

		fmt.Fprintf(c.out, "Invalid choice, pick 1-%d or a rarity name: ", len(candidates))
	}
}
