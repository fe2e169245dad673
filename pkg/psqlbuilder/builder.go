package psqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Dialect SQL-диалект хранилища
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect проверяет название диалекта
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case Postgres, SQLite:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("psqlbuilder: unknown dialect %q", s)
	}
}

// Builder построитель запросов с плейсхолдерами нужного диалекта
// Postgres: $1, $2 ...; SQLite: ?
type Builder struct {
	dialect Dialect
	sb      squirrel.StatementBuilderType
}

// ForDialect создает построитель для диалекта
func ForDialect(d Dialect) Builder {
	var format squirrel.PlaceholderFormat = squirrel.Question
	if d == Postgres {
		format = squirrel.Dollar
	}
	return Builder{
		dialect: d,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(format),
	}
}

// Dialect returns the builder dialect
func (b Builder) Dialect() Dialect {
	return b.dialect
}

func (b Builder) Select(columns ...string) squirrel.SelectBuilder {
	return b.sb.Select(columns...)
}

func (b Builder) Insert(table string) squirrel.InsertBuilder {
	return b.sb.Insert(table)
}

func (b Builder) Update(table string) squirrel.UpdateBuilder {
	return b.sb.Update(table)
}

func (b Builder) Delete(table string) squirrel.DeleteBuilder {
	return b.sb.Delete(table)
}
