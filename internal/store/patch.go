package store

import (
	"fmt"
	"strings"
)

// updateBuilder assembles an UPDATE statement from the fields present in a
// patch. Placeholders are numbered in the order values are added.
type updateBuilder struct {
	table      string
	sets       []string
	conditions []string
	args       []any
	touch      bool
}

func newUpdate(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

func (b *updateBuilder) set(column string, value any) *updateBuilder {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
	return b
}

// touchUpdatedAt adds updated_at = NOW() whenever at least one field is set.
func (b *updateBuilder) touchUpdatedAt() *updateBuilder {
	b.touch = true
	return b
}

func (b *updateBuilder) where(column string, value any) *updateBuilder {
	b.args = append(b.args, value)
	b.conditions = append(b.conditions, fmt.Sprintf("%s = $%d", column, len(b.args)))
	return b
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

func (b *updateBuilder) build(returning string) (string, []any) {
	sets := b.sets
	if b.touch {
		sets = append(sets[:len(sets):len(sets)], "updated_at = NOW()")
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(sets, ", "))
	if len(b.conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.conditions, " AND "))
	}
	if returning != "" {
		sb.WriteString(" RETURNING ")
		sb.WriteString(returning)
	}

	return sb.String(), b.args
}
