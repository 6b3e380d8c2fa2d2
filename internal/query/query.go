// Package query runs jq expressions over command output.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
)

// Filter is a compiled jq expression.
type Filter struct {
	expr string
	code *gojq.Code
}

// Compile parses and compiles expr.
func Compile(expr string) (*Filter, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq filter %q: %w", expr, err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq filter %q: %w", expr, err)
	}
	return &Filter{expr: expr, code: code}, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.expr }

// Run evaluates the filter against v and collects every output. v may be any
// JSON-encodable value; it is converted to the plain map/slice form gojq
// expects first.
func (f *Filter) Run(ctx context.Context, v any) ([]any, error) {
	input, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	return f.run(ctx, input)
}

// RunJSON is Run over an already encoded document.
func (f *Filter) RunJSON(ctx context.Context, raw []byte) ([]any, error) {
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("jq input is not JSON: %w", err)
	}
	return f.run(ctx, input)
}

func (f *Filter) run(ctx context.Context, input any) ([]any, error) {
	var out []any
	iter := f.code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			return out, nil
		}
		if err, isErr := v.(error); isErr {
			return out, fmt.Errorf("jq %q: %w", f.expr, err)
		}
		out = append(out, v)
	}
}

// Match reports whether the first output of the filter on v is truthy.
// An empty output does not match.
func (f *Filter) Match(ctx context.Context, v any) (bool, error) {
	out, err := f.Run(ctx, v)
	if err != nil {
		return false, err
	}
	if len(out) == 0 {
		return false, nil
	}
	return Truthy(out[0]), nil
}

// Truthy follows jq: false and null are falsy, everything else is truthy.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// Normalize round-trips v through encoding/json so structs become
// map[string]any.
func Normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding jq input: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding jq input: %w", err)
	}
	return out, nil
}

// Write prints each value on its own line: strings raw, everything else as
// indented JSON, like `jq -r`.
func Write(w io.Writer, values []any) error {
	for _, v := range values {
		if s, ok := v.(string); ok {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
			continue
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
