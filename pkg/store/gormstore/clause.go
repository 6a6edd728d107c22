package gormstore

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-checkout/pkg/store"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildClause renders a filter into a parameterised WHERE fragment.
// Field names have already been validated as identifiers.
func buildClause(f store.Filter) (string, []any, error) {
	switch node := f.(type) {
	case store.Cond:
		if node.Op == store.OpContains {
			value, _ := node.Value.(string)
			pattern := "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
			return fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, node.Field), []any{pattern}, nil
		}
		return fmt.Sprintf("%s %s ?", node.Field, string(node.Op)), []any{node.Value}, nil
	case store.Group:
		joiner := " AND "
		if node.Kind == store.GroupOr {
			joiner = " OR "
		}
		parts := make([]string, 0, len(node.Filters))
		args := []any{}
		for _, child := range node.Filters {
			clause, childArgs, err := buildClause(child)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, "("+clause+")")
			args = append(args, childArgs...)
		}
		return strings.Join(parts, joiner), args, nil
	default:
		return "", nil, fmt.Errorf("%w: unsupported filter %T", store.ErrInvalid, f)
	}
}
