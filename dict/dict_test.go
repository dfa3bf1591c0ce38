package dict

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
		err  error
	}{
		{"zero", []string{"0"}, 0, nil},
		{"three", []string{"3"}, 3, nil},
		{"spaces", []string{" 42 "}, 42, nil},
		{"extra args ignored", []string{"5", "abc"}, 5, nil},
		{"missing", nil, 0, ErrMissingArgument},
		{"empty slice", []string{}, 0, ErrMissingArgument},
		{"not a number", []string{"abc"}, 0, ErrInvalidArgument},
		{"negative", []string{"-5"}, 0, ErrInvalidArgument},
		{"negative zero", []string{"-0"}, 0, ErrInvalidArgument},
		{"float", []string{"1.5"}, 0, ErrInvalidArgument},
		{"empty string", []string{""}, 0, ErrInvalidArgument},
		{"overflow", []string{"99999999999999999999999"}, 0, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseCount(tt.args)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestGeneratorRecords(t *testing.T) {
	g := NewGenerator(0)

	count := 0
	for r := range g.Records(200) {
		count++
		assert.NotEmpty(t, r.Name)
		assert.Contains(t, r.Email, "@")
		assert.GreaterOrEqual(t, r.Age, MIN_AGE)
		assert.LessOrEqual(t, r.Age, MAX_AGE)
	}
	assert.Equal(t, 200, count)
}

func TestGeneratorZeroAndNegative(t *testing.T) {
	g := NewGenerator(0)
	for range g.Records(0) {
		t.Fatal("expected no records for n=0")
	}
	for range g.Records(-3) {
		t.Fatal("expected no records for n<0")
	}
	assert.Empty(t, g.Collect(-1))
}

func TestGeneratorEarlyBreak(t *testing.T) {
	g := NewGenerator(7)
	count := 0
	for range g.Records(100) {
		count++
		if count == 10 {
			break
		}
	}
	assert.Equal(t, 10, count)
}

func TestGeneratorSeed(t *testing.T) {
	a := NewGenerator(42).Collect(20)
	b := NewGenerator(42).Collect(20)
	assert.Equal(t, a, b)
	assert.Equal(t, uint64(42), NewGenerator(42).Seed())

	c := NewGenerator(43).Collect(20)
	assert.NotEqual(t, a, c)
}

func TestWriteAll(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteAll(&buf, NewGenerator(0).Records(3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	out := buf.String()
	require.True(t, strings.HasSuffix(out, "\n"))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		fields := strings.Split(line, ";")
		require.Len(t, fields, 3, line)
		assert.NotEmpty(t, fields[0])
		age, err := strconv.Atoi(fields[1])
		require.NoError(t, err)
		assert.True(t, age >= 1 && age <= 100, "age %d", age)
		assert.NotEmpty(t, fields[2])
	}
}

func TestWriteAllEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteAll(&buf, NewGenerator(0).Records(0))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, buf.String())
}

func TestRecordLine(t *testing.T) {
	r := Record{Name: "Jane Doe", Age: 33, Email: "jane@example.com"}
	assert.Equal(t, "Jane Doe;33;jane@example.com", r.Line())
	assert.Equal(t, []any{"Jane Doe", 33, "jane@example.com"}, r.Row())
	assert.Len(t, Columns(), len(r.Row()))
}

func TestParseLine(t *testing.T) {
	r, err := ParseLine("Jane Doe;33;jane@example.com\r\n")
	require.NoError(t, err)
	assert.Equal(t, Record{Name: "Jane Doe", Age: 33, Email: "jane@example.com"}, r)

	bad := []string{
		"only;two",
		"a;b;c;d",
		";33;jane@example.com",
		"Jane;;jane@example.com",
		"Jane;33;",
		"Jane;old;jane@example.com",
		"Jane;0;jane@example.com",
		"Jane;101;jane@example.com",
		"Jane;33;not-an-email",
	}
	for _, line := range bad {
		_, err := ParseLine(line)
		assert.ErrorIs(t, err, ErrMalformedLine, line)
	}
}

func TestParseLineRoundTrip(t *testing.T) {
	for r := range NewGenerator(99).Records(50) {
		got, err := ParseLine(r.Line())
		require.NoError(t, err, r.Line())
		assert.Equal(t, r, got)
	}
}

func TestReader(t *testing.T) {
	input := strings.Join([]string{
		"Jane Doe;33;jane@example.com",
		"",
		"broken line",
		"John Roe;101;john@example.com",
		"Max Mustermann;7;max@example.de",
	}, "\n")

	var skipped []string
	reader := NewReader(strings.NewReader(input))
	reader.OnSkip = func(line string, err error) {
		assert.True(t, errors.Is(err, ErrMalformedLine))
		skipped = append(skipped, line)
	}

	var names []string
	for r := range reader.Records() {
		names = append(names, r.Name)
	}
	require.NoError(t, reader.Err())
	assert.Equal(t, []string{"Jane Doe", "Max Mustermann"}, names)
	assert.Equal(t, []string{"broken line", "John Roe;101;john@example.com"}, skipped)
	assert.Equal(t, 2, reader.Skipped())
}

func TestFieldHashes(t *testing.T) {
	r := Record{Name: "ab", Age: 1, Email: "x@y.io"}
	length := func(s string) uint32 { return uint32(len(s)) }
	assert.Equal(t, uint32(2), NameHash(length)(r))
	assert.Equal(t, uint32(6), EmailHash(length)(r))
}
