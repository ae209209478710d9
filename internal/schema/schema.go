package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed ocptv.cue
var schemaCUE string

// Checker validates single output lines against #Root.
//
// A Checker is not safe for concurrent use: the underlying cue.Context is
// not.
type Checker struct {
	ctx  *cue.Context
	root cue.Value
}

// NewChecker compiles the embedded schema.
func NewChecker() (*Checker, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("ocptv.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	root := v.LookupPath(cue.ParsePath("#Root"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Root: %w", err)
	}
	return &Checker{ctx: ctx, root: root}, nil
}

// ValidateLine checks one line. It returns nil or a *LineError with Line
// left at 0; stream validation fills it in.
func (c *Checker) ValidateLine(line []byte) error {
	expr, err := cuejson.Extract("line", line)
	if err != nil {
		return &LineError{Code: ErrInvalidJSON, Message: err.Error()}
	}
	v := c.ctx.BuildExpr(expr)
	if err := v.Err(); err != nil {
		return &LineError{Code: ErrInvalidJSON, Message: err.Error()}
	}
	if v.Kind() != cue.StructKind {
		return &LineError{Code: ErrInvalidJSON, Message: fmt.Sprintf("expected object, got %s", v.Kind())}
	}

	if err := c.root.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return &LineError{Code: ErrSchema, Message: formatCUEError(err)}
	}
	return nil
}

// formatCUEError keeps the first few messages of a CUE error list.
// Disjunction failures report one message per branch, which is noisy.
func formatCUEError(err error) string {
	const limit = 3
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, limit)
	for i, e := range errs {
		if i == limit {
			msgs = append(msgs, fmt.Sprintf("(%d more)", len(errs)-limit))
			break
		}
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}
