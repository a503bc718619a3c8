package manifest

import (
	"fmt"

	"tensorpool/internal/tensorpool"
	"tensorpool/pkg/types"
)

// defaultLifespan is used for managed tensors that do not name one.
const defaultLifespan = tensorpool.Iteration

// Dim converts a shape spec, defaulting unset axes to 1.
func Dim(d types.DimSpec, dtype string) (tensorpool.Dim, error) {
	t, err := tensorpool.ParseDataType(dtype)
	if err != nil {
		return tensorpool.Dim{}, err
	}
	one := func(n int) int {
		if n == 0 {
			return 1
		}
		return n
	}
	return tensorpool.Dim{
		Batch:   one(d.Batch),
		Channel: one(d.Channel),
		Height:  one(d.Height),
		Width:   one(d.Width),
		Type:    t,
	}, nil
}

// tensorDim is the shape ts is requested with: batched tensors take the
// manifest batch size when one is set.
func tensorDim(m types.Manifest, ts types.TensorSpec) (tensorpool.Dim, error) {
	d := ts.Dim
	if ts.Batched && m.Batch > 0 {
		d.Batch = m.Batch
	}
	return Dim(d, ts.DType)
}

// Apply validates m and requests its tensors from p in order, then applies
// the extensions. Batched tensors are requested at the manifest batch size,
// so view bounds are checked against the final shapes.
func Apply(p *tensorpool.Pool, m types.Manifest) error {
	if err := Validate(m); err != nil {
		return err
	}
	for _, ts := range m.Tensors {
		if err := request(p, m, ts); err != nil {
			return fmt.Errorf("tensor %q: %w", ts.Name, err)
		}
	}
	for _, ex := range m.Extends {
		l, err := lifespanOr(ex.Lifespan, p, ex.Name)
		if err != nil {
			return err
		}
		if _, err := p.Extend(ex.Name, ex.ExecOrder, l); err != nil {
			return fmt.Errorf("extend %q: %w", ex.Name, err)
		}
	}
	return nil
}

func request(p *tensorpool.Pool, m types.Manifest, ts types.TensorSpec) error {
	dim, err := tensorDim(m, ts)
	if err != nil {
		return err
	}
	init, err := tensorpool.ParseInitializer(ts.Init)
	if err != nil {
		return err
	}
	switch {
	case ts.Placeholder:
		_, err = p.RequestExternal(ts.Name, dim, init)
	case ts.View != nil:
		var l tensorpool.Lifespan
		l, err = lifespanOr(ts.Lifespan, p, ts.View.Source)
		if err != nil {
			return err
		}
		_, err = p.RequestView(ts.Name, ts.View.Source, dim, ts.View.Offset, ts.ExecOrder, l, init)
	default:
		l := defaultLifespan
		if ts.Lifespan != "" {
			l, err = tensorpool.ParseLifespan(ts.Lifespan)
			if err != nil {
				return err
			}
		}
		_, err = p.Request(ts.Name, dim, ts.ExecOrder, l, init)
	}
	return err
}

// lifespanOr parses s, falling back to the current lifespan of name's source.
func lifespanOr(s string, p *tensorpool.Pool, name string) (tensorpool.Lifespan, error) {
	if s != "" {
		return tensorpool.ParseLifespan(s)
	}
	return p.Lifespan(name)
}
