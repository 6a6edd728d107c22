package store

import (
	"fmt"
	"regexp"
)

type Op string

const (
	OpEq       Op = "="
	OpNeq      Op = "!="
	OpGt       Op = ">"
	OpGte      Op = ">="
	OpLt       Op = "<"
	OpLte      Op = "<="
	OpContains Op = "~"
)

var fieldNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Filter is a node of a boolean filter expression. Backends translate it with a
// type switch over Cond and Group.
type Filter interface {
	validate() error
}

// Cond compares one field to a value. OpContains is a case-insensitive substring match.
type Cond struct {
	Field string
	Op    Op
	Value any
}

type GroupKind string

const (
	GroupAnd GroupKind = "and"
	GroupOr  GroupKind = "or"
)

type Group struct {
	Kind    GroupKind
	Filters []Filter
}

func Eq(field string, value any) Filter  { return Cond{Field: field, Op: OpEq, Value: value} }
func Neq(field string, value any) Filter { return Cond{Field: field, Op: OpNeq, Value: value} }
func Gt(field string, value any) Filter  { return Cond{Field: field, Op: OpGt, Value: value} }
func Gte(field string, value any) Filter { return Cond{Field: field, Op: OpGte, Value: value} }
func Lt(field string, value any) Filter  { return Cond{Field: field, Op: OpLt, Value: value} }
func Lte(field string, value any) Filter { return Cond{Field: field, Op: OpLte, Value: value} }
func Contains(field string, value string) Filter {
	return Cond{Field: field, Op: OpContains, Value: value}
}

func And(filters ...Filter) Filter { return Group{Kind: GroupAnd, Filters: filters} }
func Or(filters ...Filter) Filter  { return Group{Kind: GroupOr, Filters: filters} }

// ValidateField rejects anything that is not a lower-case identifier.
func ValidateField(field string) error {
	if !fieldNameRe.MatchString(field) {
		return fmt.Errorf("%w: field name %q", ErrInvalid, field)
	}
	return nil
}

func (c Cond) validate() error {
	if err := ValidateField(c.Field); err != nil {
		return err
	}
	switch c.Op {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte:
		return nil
	case OpContains:
		if _, ok := c.Value.(string); !ok {
			return fmt.Errorf("%w: contains on %q needs a string", ErrInvalid, c.Field)
		}
		return nil
	default:
		return fmt.Errorf("%w: operator %q", ErrInvalid, c.Op)
	}
}

func (g Group) validate() error {
	if g.Kind != GroupAnd && g.Kind != GroupOr {
		return fmt.Errorf("%w: group kind %q", ErrInvalid, g.Kind)
	}
	if len(g.Filters) == 0 {
		return fmt.Errorf("%w: empty %s group", ErrInvalid, g.Kind)
	}
	for _, f := range g.Filters {
		if f == nil {
			return fmt.Errorf("%w: nil filter in %s group", ErrInvalid, g.Kind)
		}
		if err := f.validate(); err != nil {
			return err
		}
	}
	return nil
}
