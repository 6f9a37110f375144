// Package feedfilter compiles CEL expressions used to filter the card
// feed on the client, e.g. `likes > 3 && mine` or `name.contains("Peak")`.
package feedfilter

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/placefeed/placefeed/internal/domain/card"
)

// maxExpressionLength bounds filter expressions; anything longer is a typo
// or an abuse attempt, not a feed filter.
const maxExpressionLength = 512

// Variables available to filter expressions, all derived from a single
// card and the current user:
//
//	name  (string) card caption
//	owner (string) owning user ID
//	likes (int)    number of likes
//	liked (bool)   whether the current user liked the card
//	mine  (bool)   whether the current user owns the card
func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("owner", cel.StringType),
		cel.Variable("likes", cel.IntType),
		cel.Variable("liked", cel.BoolType),
		cel.Variable("mine", cel.BoolType),
	)
}

// Filter is a compiled feed filter.
type Filter struct {
	prg cel.Program
}

// Compile parses and type-checks a filter expression.
// The expression must evaluate to a boolean.
func Compile(expr string) (*Filter, error) {
	if expr == "" {
		return nil, errors.New("filter expression is empty")
	}
	if len(expr) > maxExpressionLength {
		return nil, fmt.Errorf("filter expression too long: %d characters (max %d)", len(expr), maxExpressionLength)
	}

	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create filter environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter expression must evaluate to a boolean, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast, cel.EvalOptions(cel.OptOptimize))
	if err != nil {
		return nil, fmt.Errorf("program creation failed: %w", err)
	}

	return &Filter{prg: prg}, nil
}

// Match evaluates the filter against one card from the point of view of
// the given user.
func (f *Filter) Match(c card.Card, currentUserID string) (bool, error) {
	result, _, err := f.prg.Eval(map[string]any{
		"name":  c.Name,
		"owner": c.OwnerID,
		"likes": int64(len(c.LikedBy)),
		"liked": c.IsLikedBy(currentUserID),
		"mine":  c.OwnedBy(currentUserID),
	})
	if err != nil {
		return false, fmt.Errorf("filter evaluation failed: %w", err)
	}

	match, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter did not return a boolean, got %T", result.Value())
	}
	return match, nil
}

// Apply returns the cards matching the filter, preserving feed order.
func (f *Filter) Apply(cards []card.Card, currentUserID string) ([]card.Card, error) {
	out := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		match, err := f.Match(c, currentUserID)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, c)
		}
	}
	return out, nil
}
