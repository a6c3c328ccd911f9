package database

import (
	"fmt"
	"strings"

	"github.com/camden-git/genealogybackend/config"
)

// ConcatStrategy renders a string concatenation of SQL expressions in the
// dialect of one backend. Implementations must produce semantically equal
// results; only the syntax differs.
type ConcatStrategy interface {
	Concat(exprs ...string) string
	Name() string
}

// PipeConcat uses the standard || operator (SQLite).
type PipeConcat struct{}

func (PipeConcat) Concat(exprs ...string) string {
	return "(" + strings.Join(exprs, " || ") + ")"
}

func (PipeConcat) Name() string { return "pipe" }

// FunctionConcat uses the CONCAT() function (PostgreSQL, MySQL).
type FunctionConcat struct{}

func (FunctionConcat) Concat(exprs ...string) string {
	return "CONCAT(" + strings.Join(exprs, ", ") + ")"
}

func (FunctionConcat) Name() string { return "function" }

// ConcatStrategyFor picks the strategy matching a configured database driver.
func ConcatStrategyFor(driver string) (ConcatStrategy, error) {
	switch driver {
	case config.DriverSQLite:
		return PipeConcat{}, nil
	case config.DriverPostgres:
		return FunctionConcat{}, nil
	default:
		return nil, fmt.Errorf("no concat strategy for driver '%s'", driver)
	}
}

// FullNameExpr is the "name firstname" expression people are searched by.
func FullNameExpr(s ConcatStrategy) string {
	return s.Concat("name", "' '", "firstname")
}
