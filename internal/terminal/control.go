package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Control rewrites a block of lines in place on an ANSI terminal.
type Control struct {
	mu         sync.Mutex
	out        io.Writer
	isTerminal bool
	printed    int
}

// NewControl creates a control writing to stdout.
func NewControl() *Control {
	return &Control{
		out:        os.Stdout,
		isTerminal: IsTerminal(os.Stdout),
	}
}

// NewControlWriter creates a control for an arbitrary writer. interactive
// selects in-place updates instead of plain appending.
func NewControlWriter(out io.Writer, interactive bool) *Control {
	return &Control{out: out, isTerminal: interactive}
}

// MoveCursorUp moves the cursor up by the specified number of lines
func (c *Control) MoveCursorUp(lines int) {
	if lines <= 0 {
		return
	}
	fmt.Fprintf(c.out, "\033[%dA", lines)
}

// ClearLine clears the current line
func (c *Control) ClearLine() {
	fmt.Fprint(c.out, "\033[2K\r")
}

// IsTerminal checks if f is a character device
func IsTerminal(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// UpdateInPlace replaces the previously printed block with lines. The block
// may grow or shrink between calls. Without a terminal the lines are simply
// appended.
func (c *Control) UpdateInPlace(lines []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isTerminal {
		for _, line := range lines {
			fmt.Fprintln(c.out, line)
		}
		return
	}

	// Cursor sits on the line after the block.
	c.MoveCursorUp(c.printed)
	for _, line := range lines {
		c.ClearLine()
		fmt.Fprintln(c.out, line)
	}
	// Blank out leftovers of a taller previous block.
	for i := len(lines); i < c.printed; i++ {
		c.ClearLine()
		fmt.Fprintln(c.out)
	}
	if extra := c.printed - len(lines); extra > 0 {
		c.MoveCursorUp(extra)
	}
	c.printed = len(lines)
}

// Reset forgets the printed block so the next update starts below it.
func (c *Control) Reset() {
	c.mu.Lock()
	c.printed = 0
	c.mu.Unlock()
}

// HideCursor hides the terminal cursor
func (c *Control) HideCursor() {
	if c.isTerminal {
		fmt.Fprint(c.out, "\033[?25l")
	}
}

// ShowCursor shows the terminal cursor
func (c *Control) ShowCursor() {
	if c.isTerminal {
		fmt.Fprint(c.out, "\033[?25h")
	}
}
