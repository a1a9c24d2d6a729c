package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect is the SQL flavour of the configured engine. Queries are written
// with ? placeholders and rebound per dialect.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(s)); d {
	case Postgres, SQLite:
		return d, nil
	}

	return "", fmt.Errorf("unsupported database driver %q", s)
}

// Rebind rewrites ? placeholders into $1, $2, ... for Postgres. Quoted
// literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var (
		b       strings.Builder
		n       int
		inQuote bool
	)

	b.Grow(len(query) + 8)

	for i := 0; i < len(query); i++ {
		c := query[i]

		switch {
		case c == '\'':
			inQuote = !inQuote
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))

			continue
		}

		b.WriteByte(c)
	}

	return b.String()
}

// ForUpdate is the row lock suffix for a SELECT inside a transaction.
// SQLite locks the whole database on write and has no row locks.
func (d Dialect) ForUpdate() string {
	if d == Postgres {
		return " FOR UPDATE"
	}

	return ""
}

func (d Dialect) ForShare() string {
	if d == Postgres {
		return " FOR SHARE"
	}

	return ""
}
