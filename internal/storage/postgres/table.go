package postgres

import (
	"context"
	"fmt"

	"dating-backend/internal/query"
)

// relation is an eagerly attachable collection rendered as a JSON column
type relation[T any] struct {
	expr   string
	assign func(*T, []byte) error
}

// table executes plans for one row type
type table[T any] struct {
	db        DBTX
	schema    *schema
	fields    func(*T) []any
	relations map[string]relation[T]
}

func (t *table[T]) Count(ctx context.Context, plan query.Plan) (int, error) {
	q, args, err := countSQL(t.schema, plan)
	if err != nil {
		return 0, fmt.Errorf("failed to build %s count: %w", t.schema.name, err)
	}

	var total int
	if err := t.db.QueryRow(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", t.schema.name, err)
	}
	return total, nil
}

func (t *table[T]) Fetch(ctx context.Context, plan query.Plan, skip, take int) ([]T, error) {
	rels, err := relationsFor(t.relations, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", t.schema.name, err)
	}
	extra := make([]string, len(rels))
	for i, rel := range rels {
		extra[i] = rel.expr
	}

	q, args, err := selectSQL(t.schema, plan, extra, skip, take)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", t.schema.name, err)
	}

	rows, err := t.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", t.schema.name, err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		var row T
		bufs := make([][]byte, len(rels))
		dest := t.fields(&row)
		for i := range bufs {
			dest = append(dest, &bufs[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.schema.name, err)
		}
		for i, rel := range rels {
			if err := rel.assign(&row, bufs[i]); err != nil {
				return nil, fmt.Errorf("failed to decode %s relation: %w", t.schema.name, err)
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", t.schema.name, err)
	}

	return result, nil
}
