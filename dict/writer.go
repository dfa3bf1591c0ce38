package dict

import (
	"bufio"
	"io"
	"iter"
)

// Writer emits records one per line as name;age;email
type Writer struct {
	w     *bufio.Writer
	lines int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (p *Writer) Write(r Record) error {
	if _, err := p.w.WriteString(r.Line()); err != nil {
		return err
	}
	if err := p.w.WriteByte('\n'); err != nil {
		return err
	}
	p.lines++
	return nil
}

func (p *Writer) Flush() error {
	return p.w.Flush()
}

// Lines is the number of records written so far.
func (p *Writer) Lines() int {
	return p.lines
}

// WriteAll drains seq into w and flushes. It returns the number of lines written.
func WriteAll(w io.Writer, seq iter.Seq[Record]) (int, error) {
	out := NewWriter(w)
	for r := range seq {
		if err := out.Write(r); err != nil {
			return out.Lines(), err
		}
	}
	return out.Lines(), out.Flush()
}
