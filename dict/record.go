package dict

import (
	"strconv"
	"strings"
)

const (
	Delimiter = ";"

	MIN_AGE = 1
	MAX_AGE = 100
)

// Record is one generated person: name;age;email
type Record struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

// Line formats the record without the trailing newline.
// Fields are not escaped.
func (r Record) Line() string {
	return r.Name + Delimiter + strconv.Itoa(r.Age) + Delimiter + r.Email
}

func (r Record) String() string {
	return r.Line()
}

// Row returns the fields in output order, used by the excel and docx exports.
func (r Record) Row() []any {
	return []any{r.Name, r.Age, r.Email}
}

// Columns is the header matching Row.
func Columns() []string {
	return []string{"name", "age", "email"}
}

// NameHash and EmailHash key a record by one field with the given string hash.
func NameHash(hash func(string) uint32) func(Record) uint32 {
	return func(r Record) uint32 { return hash(r.Name) }
}

func EmailHash(hash func(string) uint32) func(Record) uint32 {
	return func(r Record) uint32 { return hash(r.Email) }
}

func splitLine(line string) []string {
	return strings.Split(strings.TrimRight(line, "\r\n"), Delimiter)
}
