// Package sqlutil builds the dynamic pieces of SQL statements that bun's query
// builder can't express with numbered placeholders.
package sqlutil

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/joblyhq/jobly/pkg/errcodes"
)

// ErrNothingToUpdate is returned when a partial update has no fields set.
var ErrNothingToUpdate = errcodes.BadRequest("No data to update.")

// Field is an updatable column of a resource. Each resource declares its own
// enum of fields so that only known columns can ever reach a SET clause.
type Field interface {
	comparable
	Column() string
}

// SetClause is the output of a partial update: the `"col"=$1, ...` fragment and
// the values bound to its placeholders, in order.
type SetClause struct {
	SQL  string
	Args []any
}

// NextPlaceholder returns the placeholder that follows the SET clause, for use
// in the WHERE clause of the same statement.
func (sc *SetClause) NextPlaceholder() string {
	return "$" + strconv.Itoa(len(sc.Args)+1)
}

// With returns the clause's args followed by the given trailing args.
func (sc *SetClause) With(args ...any) []any {
	all := make([]any, 0, len(sc.Args)+len(args))
	all = append(all, sc.Args...)
	return append(all, args...)
}

// Builder collects a sparse set of field values for a single UPDATE.
type Builder[F Field] struct {
	fields []F
	values map[F]any
}

func NewBuilder[F Field]() *Builder[F] {
	return &Builder[F]{values: map[F]any{}}
}

// Set records a new value for the field. Setting a field again replaces the
// value but keeps its original position.
func (b *Builder[F]) Set(field F, value any) *Builder[F] {
	if _, ok := b.values[field]; !ok {
		b.fields = append(b.fields, field)
	}
	b.values[field] = value
	return b
}

// Len returns the number of fields set.
func (b *Builder[F]) Len() int {
	return len(b.fields)
}

// Build renders the SET clause. It fails with ErrNothingToUpdate rather than
// producing an empty clause.
func (b *Builder[F]) Build() (*SetClause, error) {
	if len(b.fields) == 0 {
		return nil, ErrNothingToUpdate
	}

	cols := make([]string, 0, len(b.fields))
	args := make([]any, 0, len(b.fields))
	for i, f := range b.fields {
		cols = append(cols, fmt.Sprintf("%q=$%d", f.Column(), i+1))
		args = append(args, b.values[f])
	}

	return &SetClause{SQL: strings.Join(cols, ", "), Args: args}, nil
}

type namedField string

func (f namedField) Column() string {
	return string(f)
}

// ForPartialUpdate builds a SET clause from a sparse map of field names to
// values. Names found in columns are translated to their column, e.g.
// numEmployees -> num_employees; others are used as is. Keys are emitted in
// sorted order so the same input always yields the same clause.
func ForPartialUpdate(data map[string]any, columns map[string]string) (*SetClause, error) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := NewBuilder[namedField]()
	for _, k := range keys {
		col, ok := columns[k]
		if !ok {
			col = k
		}
		b.Set(namedField(col), data[k])
	}
	return b.Build()
}
