package manifest

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"tensorpool/internal/tensorpool"
	"tensorpool/pkg/types"
)

// Validate reports every structural problem in m at once. A manifest that
// passes may still be rejected by the pool, e.g. for views out of bounds.
func Validate(m types.Manifest) error {
	var result *multierror.Error
	if m.Window.Start < 0 || m.Window.Start > m.Window.End {
		result = multierror.Append(result, fmt.Errorf("invalid window [%d,%d]", m.Window.Start, m.Window.End))
	}
	if m.Batch < 0 {
		result = multierror.Append(result, fmt.Errorf("invalid batch %d", m.Batch))
	}
	seen := make(map[string]bool, len(m.Tensors))
	for i, ts := range m.Tensors {
		where := fmt.Sprintf("tensors[%d] %q", i, ts.Name)
		if ts.Name == "" {
			result = multierror.Append(result, fmt.Errorf("%s: empty name", where))
		} else if seen[ts.Name] {
			result = multierror.Append(result, fmt.Errorf("%s: duplicate name", where))
		}
		if _, err := tensorpool.ParseDataType(ts.DType); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", where, err))
		}
		if _, err := tensorpool.ParseInitializer(ts.Init); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", where, err))
		}
		if ts.Lifespan != "" {
			if _, err := tensorpool.ParseLifespan(ts.Lifespan); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", where, err))
			}
		}
		d := ts.Dim
		if d.Batch < 0 || d.Channel < 0 || d.Height < 0 || d.Width < 0 {
			result = multierror.Append(result, fmt.Errorf("%s: negative dimension", where))
		} else if dim, err := tensorDim(m, ts); err == nil && dim.Bytes() <= 0 {
			result = multierror.Append(result, fmt.Errorf("%s: shape %s overflows", where, dim))
		}
		for _, o := range ts.ExecOrder {
			if o < 0 {
				result = multierror.Append(result, fmt.Errorf("%s: negative execution order %d", where, o))
				break
			}
		}
		if ts.View != nil {
			if ts.Placeholder {
				result = multierror.Append(result, fmt.Errorf("%s: a view cannot be a placeholder", where))
			}
			if !seen[ts.View.Source] {
				result = multierror.Append(result, fmt.Errorf("%s: view source %q must be requested earlier", where, ts.View.Source))
			}
			if ts.View.Offset < 0 {
				result = multierror.Append(result, fmt.Errorf("%s: negative view offset", where))
			}
		}
		seen[ts.Name] = true
	}
	for i, ex := range m.Extends {
		if !seen[ex.Name] {
			result = multierror.Append(result, fmt.Errorf("extends[%d]: unknown tensor %q", i, ex.Name))
		}
		if ex.Lifespan != "" {
			if _, err := tensorpool.ParseLifespan(ex.Lifespan); err != nil {
				result = multierror.Append(result, fmt.Errorf("extends[%d]: %w", i, err))
			}
		}
	}
	return result.ErrorOrNil()
}
