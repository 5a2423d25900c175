// Package display renders a small fixed region of live status lines at the
// bottom of the terminal: one aggregate line plus one line per worker.
// Updates are coalesced on a render tick so that four workers reporting
// byte-level progress cannot flood the terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	// renderInterval is the minimum time between terminal rewrites.
	renderInterval = 100 * time.Millisecond

	// plainInterval is the minimum time between status prints when the
	// output is not a terminal (log files, CI pipes).
	plainInterval = time.Second

	// defaultTerminalWidth is used when the real width cannot be determined.
	defaultTerminalWidth = 100

	// ansiCursorUpFormat moves the cursor up n lines.
	ansiCursorUpFormat = "\x1b[%dA"

	// ansiClearLine clears the current line after a carriage return.
	ansiClearLine = "\r\x1b[2K"
)

// Display owns the live status region. One goroutine performs all writes;
// setters only update state, so they are cheap and safe from any worker.
type Display struct {
	// out is the destination stream, normally os.Stdout.
	out io.Writer
	// fd is the file descriptor of out when it is a real file.
	fd int
	// isTTY selects in-place rewriting over sequential plain prints.
	isTTY bool

	mu sync.Mutex
	// aggregate is the first line of the region.
	aggregate string
	// workers holds one status line per worker slot.
	workers []string
	// dirty marks that state changed since the last render.
	dirty bool
	// renderedLines is how many lines the previous render wrote.
	renderedLines int
	// lastPlain is when the last plain (non-TTY) line was printed.
	lastPlain time.Time

	done      chan struct{}
	waitGroup sync.WaitGroup
	closeOnce sync.Once
}

// New creates a display with the given number of worker lines and starts its
// render goroutine. Callers must Close it to release the region.
func New(out io.Writer, workerCount int) *Display {
	fd := -1
	isTTY := false

	if file, isFile := out.(*os.File); isFile {
		fd = int(file.Fd())
		isTTY = term.IsTerminal(fd)
	}

	return newDisplay(out, fd, isTTY, workerCount)
}

// newDisplay wires the display and starts the render goroutine.
func newDisplay(out io.Writer, fd int, isTTY bool, workerCount int) *Display {
	d := &Display{
		out:     out,
		fd:      fd,
		isTTY:   isTTY,
		workers: make([]string, workerCount),
		done:    make(chan struct{}),
	}

	d.waitGroup.Add(1)

	go d.run()

	return d
}

// SetAggregate replaces the aggregate line.
func (d *Display) SetAggregate(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.aggregate = fmt.Sprintf(format, args...)
	d.dirty = true
}

// SetWorker replaces the status line of one worker slot.
// Out-of-range slots are ignored.
func (d *Display) SetWorker(slot int, format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if slot < 0 || slot >= len(d.workers) {
		return
	}

	d.workers[slot] = fmt.Sprintf(format, args...)
	d.dirty = true
}

// Close renders the final state and stops the render goroutine.
func (d *Display) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})

	d.waitGroup.Wait()
}

// run is the single render owner.
func (d *Display) run() {
	defer d.waitGroup.Done()

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.render(false)
		case <-d.done:
			d.render(true)

			return
		}
	}
}

// render rewrites the region when state changed. force bypasses the plain
// print interval so the final state always lands.
func (d *Display) render(force bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.dirty && !force {
		return
	}

	if d.isTTY {
		d.renderRegionLocked()
	} else {
		d.renderPlainLocked(force)
	}
}

// renderRegionLocked rewrites the whole region in place.
// The caller must hold d.mu.
func (d *Display) renderRegionLocked() {
	width := d.terminalWidth()
	lines := make([]string, 0, len(d.workers)+1)
	lines = append(lines, truncateLine(d.aggregate, width))

	for _, workerLine := range d.workers {
		lines = append(lines, truncateLine(workerLine, width))
	}

	var region strings.Builder

	if d.renderedLines > 0 {
		fmt.Fprintf(&region, ansiCursorUpFormat, d.renderedLines)
	}

	for _, line := range lines {
		region.WriteString(ansiClearLine)
		region.WriteString(line)
		region.WriteString("\n")
	}

	fmt.Fprint(d.out, region.String())

	d.renderedLines = len(lines)
	d.dirty = false
}

// renderPlainLocked prints the aggregate line sequentially, throttled for
// non-interactive outputs. Worker lines are skipped: interleaved per-worker
// percentages are noise in a log file.
// The caller must hold d.mu.
func (d *Display) renderPlainLocked(force bool) {
	if d.aggregate == "" {
		return
	}

	now := time.Now()
	if !force && now.Sub(d.lastPlain) < plainInterval {
		return
	}

	fmt.Fprintln(d.out, d.aggregate)

	d.lastPlain = now
	d.dirty = false
}

// terminalWidth returns the current terminal width, falling back to a fixed
// width when the size cannot be read.
func (d *Display) terminalWidth() int {
	if d.fd >= 0 {
		if width, _, err := term.GetSize(d.fd); err == nil && width > 0 {
			return width
		}
	}

	return defaultTerminalWidth
}

// truncateLine cuts the line to the terminal width so a long track title
// cannot wrap and break the in-place rewrite arithmetic.
func truncateLine(line string, width int) string {
	if width <= 0 {
		return line
	}

	runes := []rune(line)
	if len(runes) <= width {
		return line
	}

	if width <= 1 {
		return string(runes[:width])
	}

	return string(runes[:width-1]) + "…"
}
