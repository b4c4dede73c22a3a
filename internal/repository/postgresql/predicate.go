package postgresql

import (
	"strconv"
	"strings"
)

// predicates accumulates AND-ed WHERE clauses with positional arguments.
// Each '?' in a clause is bound to the next argument passed to add, so user
// input never reaches the SQL text.
type predicates struct {
	clauses []string
	args    []any
}

func (p *predicates) add(clause string, args ...any) {
	var b strings.Builder
	next := 0
	for _, r := range clause {
		if r == '?' && next < len(args) {
			p.args = append(p.args, args[next])
			next++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(len(p.args)))
			continue
		}
		b.WriteRune(r)
	}
	p.clauses = append(p.clauses, b.String())
}

// bind appends a standalone argument, e.g. for LIMIT/OFFSET, and returns its
// placeholder.
func (p *predicates) bind(arg any) string {
	p.args = append(p.args, arg)
	return "$" + strconv.Itoa(len(p.args))
}

func (p *predicates) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}
