package psqlbuilder

import "github.com/Masterminds/squirrel"

// Dialect SQL-диалект хранилища
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// For возвращает построитель запросов с плейсхолдерами нужного диалекта
func For(d Dialect) squirrel.StatementBuilderType {
	if d == SQLite {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// SupportsRowLocks сообщает, поддерживает ли диалект SELECT ... FOR UPDATE
func (d Dialect) SupportsRowLocks() bool {
	return d == Postgres
}

// Select построитель SELECT для PostgreSQL
func Select(columns ...string) squirrel.SelectBuilder {
	return For(Postgres).Select(columns...)
}

// Insert построитель INSERT для PostgreSQL
func Insert(into string) squirrel.InsertBuilder {
	return For(Postgres).Insert(into)
}

// Delete построитель DELETE для PostgreSQL
func Delete(from string) squirrel.DeleteBuilder {
	return For(Postgres).Delete(from)
}
