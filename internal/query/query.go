// Package query describes deferred, composable fetches over a table.
//
// A Query carries a Plan (predicates, ordering, eager includes) and the
// Executor that knows how to run it. Building a query never touches the
// store; only Count, Fetch and First do.
package query

import "context"

// NoLimit passed as take to Fetch returns every matching row.
const NoLimit = -1

// Op is a predicate operator
type Op int

const (
	OpEq Op = iota
	OpNe
	OpGte
	OpLte
	OpIn
	OpInQuery
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNe:
		return "<>"
	case OpGte:
		return ">="
	case OpLte:
		return "<="
	case OpIn, OpInQuery:
		return "IN"
	default:
		return "?"
	}
}

// Predicate restricts a plan to rows whose field satisfies Op against Value.
// Predicates in a plan are ANDed.
type Predicate struct {
	Field  string
	Op     Op
	Value  any
	Values []any
	Sub    *Subquery
}

// Subquery projects a single column out of a plan over another table
type Subquery struct {
	Table  string
	Select string
	Plan   Plan
}

// Order sorts by a single field
type Order struct {
	Field string
	Desc  bool
}

// Plan is an unexecuted description of a fetch
type Plan struct {
	Predicates []Predicate
	Orders     []Order
	Includes   []string
}

// HasInclude reports whether rel was requested for eager attachment
func (p Plan) HasInclude(rel string) bool {
	for _, inc := range p.Includes {
		if inc == rel {
			return true
		}
	}
	return false
}

func (p Plan) clone() Plan {
	return Plan{
		Predicates: append([]Predicate(nil), p.Predicates...),
		Orders:     append([]Order(nil), p.Orders...),
		Includes:   append([]string(nil), p.Includes...),
	}
}

// Eq matches rows where field equals v.
func Eq(field string, v any) Predicate { return Predicate{Field: field, Op: OpEq, Value: v} }

// Ne matches rows where field differs from v.
func Ne(field string, v any) Predicate { return Predicate{Field: field, Op: OpNe, Value: v} }

// Gte matches rows where field >= v.
func Gte(field string, v any) Predicate { return Predicate{Field: field, Op: OpGte, Value: v} }

// Lte matches rows where field <= v.
func Lte(field string, v any) Predicate { return Predicate{Field: field, Op: OpLte, Value: v} }

// In matches rows where field is one of vs. An empty vs matches nothing.
func In(field string, vs ...any) Predicate { return Predicate{Field: field, Op: OpIn, Values: vs} }

// InQuery matches rows where field is among the values of column sel
// produced by plan over table.
func InQuery(field, table, sel string, plan Plan) Predicate {
	return Predicate{Field: field, Op: OpInQuery, Sub: &Subquery{Table: table, Select: sel, Plan: plan}}
}

// Where builds a bare plan from predicates, for use in subqueries.
func Where(preds ...Predicate) Plan {
	return Plan{Predicates: preds}
}

// Executor runs plans against a single table
type Executor[T any] interface {
	Count(ctx context.Context, plan Plan) (int, error)
	Fetch(ctx context.Context, plan Plan, skip, take int) ([]T, error)
}

// Query is an immutable plan bound to its executor
type Query[T any] struct {
	exec Executor[T]
	plan Plan
}

// New starts an unfiltered query over exec's table
func New[T any](exec Executor[T]) *Query[T] {
	return &Query[T]{exec: exec}
}

// Plan returns a copy of the underlying plan
func (q *Query[T]) Plan() Plan {
	return q.plan.clone()
}

func (q *Query[T]) with(fn func(p *Plan)) *Query[T] {
	p := q.plan.clone()
	fn(&p)
	return &Query[T]{exec: q.exec, plan: p}
}

// Where narrows the query
func (q *Query[T]) Where(preds ...Predicate) *Query[T] {
	return q.with(func(p *Plan) { p.Predicates = append(p.Predicates, preds...) })
}

// OrderBy replaces the ordering with field ascending
func (q *Query[T]) OrderBy(field string) *Query[T] {
	return q.with(func(p *Plan) { p.Orders = []Order{{Field: field}} })
}

// OrderByDesc replaces the ordering with field descending
func (q *Query[T]) OrderByDesc(field string) *Query[T] {
	return q.with(func(p *Plan) { p.Orders = []Order{{Field: field, Desc: true}} })
}

// Include eagerly attaches a related collection to each row
func (q *Query[T]) Include(rel string) *Query[T] {
	if q.plan.HasInclude(rel) {
		return q
	}
	return q.with(func(p *Plan) { p.Includes = append(p.Includes, rel) })
}

// Count returns the number of matching rows without materializing them
func (q *Query[T]) Count(ctx context.Context) (int, error) {
	return q.exec.Count(ctx, q.plan)
}

// Fetch materializes at most take rows after skipping skip
func (q *Query[T]) Fetch(ctx context.Context, skip, take int) ([]T, error) {
	return q.exec.Fetch(ctx, q.plan, skip, take)
}

// All materializes every matching row
func (q *Query[T]) All(ctx context.Context) ([]T, error) {
	return q.exec.Fetch(ctx, q.plan, 0, NoLimit)
}

// First returns the first matching row, or nil when there is none
func (q *Query[T]) First(ctx context.Context) (*T, error) {
	rows, err := q.exec.Fetch(ctx, q.plan, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
