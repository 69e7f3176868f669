package readme

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Defaults for Options.
const (
	DefaultMarker      = "Byte-by-byte Description of file:"
	DefaultHeaderLines = 3
)

var separatorLine = regexp.MustCompile(`^\s*-{3,}\s*$`)

// Options control which table of a ReadMe is parsed.
type Options struct {
	// DataFile is the data file name that must appear on the marker line.
	DataFile string
	// Marker is the phrase that opens a byte-by-byte table.
	Marker string
	// HeaderLines is the number of lines between the marker and the
	// first column definition (separator, heading, separator).
	HeaderLines int
	// Echo receives every matched column line. Nil discards.
	Echo io.Writer
}

func (o Options) withDefaults() Options {
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	if o.HeaderLines <= 0 {
		o.HeaderLines = DefaultHeaderLines
	}
	return o
}

type parseState int

const (
	stateSeeking parseState = iota
	stateSkipping
	stateCollecting
	stateDone
)

func (s parseState) String() string {
	switch s {
	case stateSeeking:
		return "seeking"
	case stateSkipping:
		return "skipping"
	case stateCollecting:
		return "collecting"
	case stateDone:
		return "done"
	}
	return fmt.Sprintf("parseState(%d)", int(s))
}

// builder consumes ReadMe lines one at a time.
type builder struct {
	opts    Options
	state   parseState
	skip    int
	lineNo  int
	fields  []Field
	echoErr error
}

func newBuilder(opts Options) *builder {
	return &builder{opts: opts.withDefaults()}
}

// feed advances the state machine by one line.
func (b *builder) feed(line string) error {
	b.lineNo++

	switch b.state {
	case stateSeeking:
		if strings.Contains(line, b.opts.Marker) && strings.Contains(line, b.opts.DataFile) {
			b.state = stateSkipping
			b.skip = b.opts.HeaderLines
		}
	case stateSkipping:
		b.skip--
		if b.skip == 0 {
			b.state = stateCollecting
		}
	case stateCollecting:
		if separatorLine.MatchString(line) {
			b.state = stateDone
			return nil
		}
		if !IsColumnLine(line) {
			return nil
		}
		b.echo(line)
		f, ok, err := ParseField(line)
		if err != nil {
			return &LineError{Line: b.lineNo, Raw: line, Err: err}
		}
		if ok {
			b.fields = append(b.fields, f)
		}
	}
	return nil
}

func (b *builder) echo(line string) {
	if b.opts.Echo == nil || b.echoErr != nil {
		return
	}
	_, b.echoErr = fmt.Fprintln(b.opts.Echo, line)
}

func (b *builder) done() bool {
	return b.state == stateDone
}

// Parse reads a ReadMe and returns the fields of the table describing
// opts.DataFile. A stream that ends before the table is found yields an
// empty slice; callers detect that with ValidateCount.
func Parse(r io.Reader, opts Options) ([]Field, error) {
	b := newBuilder(opts)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for !b.done() && sc.Scan() {
		if err := b.feed(strings.TrimRight(sc.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ReadMe: %w", err)
	}
	if b.echoErr != nil {
		return nil, fmt.Errorf("failed to echo column line: %w", b.echoErr)
	}

	return b.fields, nil
}

// ParseLines is Parse over lines already in memory.
func ParseLines(lines []string, opts Options) ([]Field, error) {
	b := newBuilder(opts)
	for _, line := range lines {
		if b.done() {
			break
		}
		if err := b.feed(line); err != nil {
			return nil, err
		}
	}
	if b.echoErr != nil {
		return nil, fmt.Errorf("failed to echo column line: %w", b.echoErr)
	}
	return b.fields, nil
}
