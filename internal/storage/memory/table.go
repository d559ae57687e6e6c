package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"dating-backend/internal/query"
)

// table evaluates plans over one kind of row
type table[T any] struct {
	s      *Store
	rows   func() []T
	field  func(*T, string) (any, bool)
	key    func(*T) string
	attach func(*T, query.Plan)
}

func (t *table[T]) Count(ctx context.Context, plan query.Plan) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	rows, err := t.filter(plan)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (t *table[T]) Fetch(ctx context.Context, plan query.Plan, skip, take int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	rows, err := t.filter(plan)
	if err != nil {
		return nil, err
	}
	if err := t.sort(rows, plan.Orders); err != nil {
		return nil, err
	}

	if skip > len(rows) {
		skip = len(rows)
	}
	rows = rows[skip:]
	if take >= 0 && take < len(rows) {
		rows = rows[:take]
	}

	out := make([]T, len(rows))
	copy(out, rows)
	if t.attach != nil && len(plan.Includes) > 0 {
		for i := range out {
			t.attach(&out[i], plan)
		}
	}
	return out, nil
}

func (t *table[T]) project(plan query.Plan, column string) ([]any, error) {
	rows, err := t.filter(plan)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, len(rows))
	for i := range rows {
		v, ok := t.field(&rows[i], column)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", column)
		}
		values = append(values, v)
	}
	return values, nil
}

func (t *table[T]) filter(plan query.Plan) ([]T, error) {
	// Subqueries do not depend on the outer row, evaluate them once.
	subs := make(map[int][]any)
	for i, p := range plan.Predicates {
		if p.Op != query.OpInQuery {
			continue
		}
		values, err := t.s.project(p.Sub)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate subquery on %s: %w", p.Sub.Table, err)
		}
		subs[i] = values
	}

	var out []T
	for _, row := range t.rows() {
		ok, err := t.match(&row, plan.Predicates, subs)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (t *table[T]) match(row *T, preds []query.Predicate, subs map[int][]any) (bool, error) {
	for i, p := range preds {
		v, ok := t.field(row, p.Field)
		if !ok {
			return false, fmt.Errorf("unknown column %q", p.Field)
		}

		var matched bool
		switch p.Op {
		case query.OpIn:
			matched = contains(p.Values, v)
		case query.OpInQuery:
			matched = contains(subs[i], v)
		default:
			c, err := compare(v, p.Value)
			if err != nil {
				return false, fmt.Errorf("column %q: %w", p.Field, err)
			}
			switch p.Op {
			case query.OpEq:
				matched = c == 0
			case query.OpNe:
				matched = c != 0
			case query.OpGte:
				matched = c >= 0
			case query.OpLte:
				matched = c <= 0
			default:
				return false, fmt.Errorf("unsupported operator %v", p.Op)
			}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

// sort orders rows by the plan's ordering, then by key for a stable page boundary.
func (t *table[T]) sort(rows []T, orders []query.Order) error {
	for _, o := range orders {
		if len(rows) == 0 {
			break
		}
		if _, ok := t.field(&rows[0], o.Field); !ok {
			return fmt.Errorf("unknown column %q", o.Field)
		}
	}

	var sortErr error
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			a, _ := t.field(&rows[i], o.Field)
			b, _ := t.field(&rows[j], o.Field)
			c, err := compare(a, b)
			if err != nil {
				sortErr = err
				return false
			}
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		if t.key == nil {
			return false
		}
		return t.key(&rows[i]) < t.key(&rows[j])
	})
	return sortErr
}

func contains(values []any, v any) bool {
	for _, candidate := range values {
		if c, err := compare(v, candidate); err == nil && c == 0 {
			return true
		}
	}
	return false
}

func compare(a, b any) (int, error) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("cannot compare string with %T", b)
		}
		return strings.Compare(av, bv), nil
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, fmt.Errorf("cannot compare time with %T", b)
		}
		return av.Compare(bv), nil
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, fmt.Errorf("cannot compare bool with %T", b)
		}
		switch {
		case av == bv:
			return 0, nil
		case !av:
			return -1, nil
		default:
			return 1, nil
		}
	case int:
		bv, ok := b.(int)
		if !ok {
			return 0, fmt.Errorf("cannot compare int with %T", b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("unsupported value type %T", a)
	}
}
