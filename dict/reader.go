package dict

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	// "regexp"
	regexp "github.com/wasilibs/go-re2"
)

const MAX_LINE_BYTES = 1024 * 1024

var ErrMalformedLine = errors.New("malformed dictionary line")

// one @ with something on both sides
var emailRegex = regexp.MustCompile(`^[^@;]+@[^@;]+$`)

// ParseLine parses one dictionary line: exactly 3 non-empty fields,
// an age in [1,100] and something that looks like an email.
func ParseLine(line string) (Record, error) {
	parts := splitLine(line)
	if len(parts) != 3 {
		return Record{}, fmt.Errorf("%w: %d fields", ErrMalformedLine, len(parts))
	}
	for i, part := range parts {
		if part == "" {
			return Record{}, fmt.Errorf("%w: field %d is empty", ErrMalformedLine, i+1)
		}
	}

	age, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Record{}, fmt.Errorf("%w: age '%s' is not an integer", ErrMalformedLine, parts[1])
	}
	if age < MIN_AGE || age > MAX_AGE {
		return Record{}, fmt.Errorf("%w: age %d out of range [%d,%d]", ErrMalformedLine, age, MIN_AGE, MAX_AGE)
	}

	email := strings.TrimSpace(parts[2])
	if !emailRegex.MatchString(email) {
		return Record{}, fmt.Errorf("%w: bad email '%s'", ErrMalformedLine, parts[2])
	}

	return Record{Name: parts[0], Age: age, Email: email}, nil
}

// Reader reads a dictionary file. Invalid lines are skipped and reported
// to OnSkip, blank lines are skipped silently.
type Reader struct {
	OnSkip func(line string, err error)

	scanner *bufio.Scanner
	skipped int
	err     error
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MAX_LINE_BYTES)
	return &Reader{scanner: scanner}
}

func (p *Reader) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for p.scanner.Scan() {
			line := p.scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			r, err := ParseLine(line)
			if err != nil {
				p.skipped++
				if p.OnSkip != nil {
					p.OnSkip(line, err)
				}
				continue
			}
			if !yield(r) {
				return
			}
		}
		p.err = p.scanner.Err()
	}
}

// Skipped is the number of invalid lines seen so far.
func (p *Reader) Skipped() int {
	return p.skipped
}

// Err returns the first read error, after Records has been drained.
func (p *Reader) Err() error {
	return p.err
}
