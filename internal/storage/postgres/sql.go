package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"dating-backend/internal/models"
	"dating-backend/internal/query"
)

// schema whitelists the columns of a table. Plan fields are only ever
// written into SQL after being resolved here.
type schema struct {
	name     string
	alias    string
	columns  []string
	keys     []string
	nullable map[string]bool
}

var (
	usersSchema = &schema{
		name:  models.UsersTable,
		alias: "u",
		columns: []string{
			models.UserID, models.UserUsername, models.UserGender, models.UserDateOfBirth,
			models.UserKnownAs, models.UserCreated, models.UserLastActive, models.UserIntroduction,
			models.UserLookingFor, models.UserInterests, models.UserCity, models.UserCountry,
		},
		keys: []string{models.UserID},
		nullable: map[string]bool{
			models.UserKnownAs: true, models.UserIntroduction: true, models.UserLookingFor: true,
			models.UserInterests: true, models.UserCity: true, models.UserCountry: true,
		},
	}

	photosSchema = &schema{
		name:  models.PhotosTable,
		alias: "p",
		columns: []string{
			models.PhotoID, models.PhotoURL, models.PhotoDescription, models.PhotoDateAdded,
			models.PhotoIsMain, models.PhotoPublicID, models.PhotoUserID,
		},
		keys:     []string{models.PhotoID},
		nullable: map[string]bool{models.PhotoDescription: true, models.PhotoPublicID: true},
	}

	likesSchema = &schema{
		name:    models.LikesTable,
		alias:   "l",
		columns: []string{models.LikeLikerID, models.LikeLikeeID},
		keys:    []string{models.LikeLikerID, models.LikeLikeeID},
	}

	schemas = map[string]*schema{
		usersSchema.name:  usersSchema,
		photosSchema.name: photosSchema,
		likesSchema.name:  likesSchema,
	}
)

func (s *schema) has(column string) bool {
	for _, c := range s.columns {
		if c == column {
			return true
		}
	}
	return false
}

// column returns the alias-qualified column, or an error for unknown names
func (s *schema) column(name string) (string, error) {
	if !s.has(name) {
		return "", fmt.Errorf("unknown column %q on %s", name, s.name)
	}
	return s.alias + "." + name, nil
}

func (s *schema) selectList() string {
	cols := make([]string, len(s.columns))
	for i, c := range s.columns {
		if s.nullable[c] {
			cols[i] = fmt.Sprintf("COALESCE(%s.%s, '')", s.alias, c)
		} else {
			cols[i] = s.alias + "." + c
		}
	}
	return strings.Join(cols, ", ")
}

// compiler accumulates positional arguments while rendering a statement
type compiler struct {
	args []any
}

func (c *compiler) bind(v any) string {
	c.args = append(c.args, v)
	return "$" + strconv.Itoa(len(c.args))
}

func (c *compiler) where(s *schema, preds []query.Predicate) (string, error) {
	if len(preds) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		cond, err := c.predicate(s, p)
		if err != nil {
			return "", err
		}
		parts = append(parts, cond)
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}

func (c *compiler) predicate(s *schema, p query.Predicate) (string, error) {
	col, err := s.column(p.Field)
	if err != nil {
		return "", err
	}

	switch p.Op {
	case query.OpEq, query.OpNe, query.OpGte, query.OpLte:
		return fmt.Sprintf("%s %s %s", col, p.Op, c.bind(p.Value)), nil
	case query.OpIn:
		if len(p.Values) == 0 {
			return "FALSE", nil
		}
		holders := make([]string, len(p.Values))
		for i, v := range p.Values {
			holders[i] = c.bind(v)
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(holders, ", ")), nil
	case query.OpInQuery:
		sub, ok := schemas[p.Sub.Table]
		if !ok {
			return "", fmt.Errorf("unknown table %q", p.Sub.Table)
		}
		sel, err := sub.column(p.Sub.Select)
		if err != nil {
			return "", err
		}
		subWhere, err := c.where(sub, p.Sub.Plan.Predicates)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s IN (SELECT %s FROM %s %s%s)", col, sel, sub.name, sub.alias, subWhere), nil
	default:
		return "", fmt.Errorf("unsupported operator %v", p.Op)
	}
}

// orderBy renders the plan ordering followed by the key columns, so that
// OFFSET paging is deterministic when the sort field has ties.
func (c *compiler) orderBy(s *schema, orders []query.Order) (string, error) {
	parts := make([]string, 0, len(orders)+len(s.keys))
	for _, o := range orders {
		col, err := s.column(o.Field)
		if err != nil {
			return "", err
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	for _, k := range s.keys {
		parts = append(parts, s.alias+"."+k+" ASC")
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// countSQL renders an aggregate-only statement over the plan's predicates
func countSQL(s *schema, plan query.Plan) (string, []any, error) {
	var c compiler
	where, err := c.where(s, plan.Predicates)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s %s%s", s.name, s.alias, where), c.args, nil
}

// selectSQL renders a bounded fetch. extra are additional select expressions
// appended after the table columns, used for eager includes.
func selectSQL(s *schema, plan query.Plan, extra []string, skip, take int) (string, []any, error) {
	var c compiler
	where, err := c.where(s, plan.Predicates)
	if err != nil {
		return "", nil, err
	}
	order, err := c.orderBy(s, plan.Orders)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(s.selectList())
	for _, e := range extra {
		b.WriteString(", ")
		b.WriteString(e)
	}
	fmt.Fprintf(&b, " FROM %s %s", s.name, s.alias)
	b.WriteString(where)
	b.WriteString(order)
	if take >= 0 {
		b.WriteString(" LIMIT " + c.bind(take))
	}
	if skip > 0 {
		b.WriteString(" OFFSET " + c.bind(skip))
	}
	return b.String(), c.args, nil
}

// upsertSQL inserts e, updating the non-key columns when the key exists
func upsertSQL(e models.Entity) (string, []any, error) {
	s, err := entitySchema(e)
	if err != nil {
		return "", nil, err
	}

	var c compiler
	cols := e.Columns()
	values := e.Values()
	holders := make([]string, len(cols))
	for i := range cols {
		holders[i] = c.bind(values[i])
	}

	isKey := make(map[string]bool, len(s.keys))
	for _, k := range s.keys {
		isKey[k] = true
	}
	var sets []string
	for _, col := range cols {
		if !isKey[col] {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	conflict := "DO NOTHING"
	if len(sets) > 0 {
		conflict = "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) %s",
		s.name, strings.Join(cols, ", "), strings.Join(holders, ", "), strings.Join(s.keys, ", "), conflict)
	return q, c.args, nil
}

// deleteSQL deletes e by its key columns
func deleteSQL(e models.Entity) (string, []any, error) {
	s, err := entitySchema(e)
	if err != nil {
		return "", nil, err
	}

	byName := make(map[string]any)
	for i, col := range e.Columns() {
		byName[col] = e.Values()[i]
	}

	var c compiler
	conds := make([]string, len(s.keys))
	for i, k := range s.keys {
		v, ok := byName[k]
		if !ok {
			return "", nil, fmt.Errorf("missing key column %q for %s", k, s.name)
		}
		conds[i] = fmt.Sprintf("%s = %s", k, c.bind(v))
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", s.name, strings.Join(conds, " AND ")), c.args, nil
}

func entitySchema(e models.Entity) (*schema, error) {
	s, ok := schemas[e.TableName()]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", e.TableName())
	}
	for _, col := range e.Columns() {
		if !s.has(col) {
			return nil, fmt.Errorf("unknown column %q on %s", col, s.name)
		}
	}
	if len(e.Columns()) != len(e.Values()) {
		return nil, fmt.Errorf("%s: %d columns but %d values", s.name, len(e.Columns()), len(e.Values()))
	}
	return s, nil
}
