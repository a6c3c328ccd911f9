package database

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// fragments are handed to GORM, which expects ? placeholders on every dialect
var sqlBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes LIKE wildcards in s match literally (escape char is a backslash).
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// NamePrefixPredicate builds the WHERE fragment matching people whose
// "name firstname" starts with prefix.
func NamePrefixPredicate(strategy ConcatStrategy, prefix string) (string, []interface{}, error) {
	sqlStr, args, err := sq.Like{FullNameExpr(strategy): EscapeLike(prefix) + "%"}.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build name prefix predicate: %w", err)
	}
	return sqlStr + ` ESCAPE '\'`, args, nil
}

// VisibleProjectsPredicate builds the WHERE fragment selecting projects a user
// owns or has been invited into.
func VisibleProjectsPredicate(userID uint) (string, []interface{}, error) {
	memberSQL, memberArgs, err := sqlBuilder.Select("project_id").
		From("project_members").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build membership subquery: %w", err)
	}

	sqlStr, args, err := sq.Or{
		sq.Eq{"projects.owner_id": userID},
		sq.Expr("projects.id IN ("+memberSQL+")", memberArgs...),
	}.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build visible projects predicate: %w", err)
	}
	return sqlStr, args, nil
}
