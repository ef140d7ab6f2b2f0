package dataset

import (
	"errors"
	"fmt"
)

// ErrNoFeatures is returned when only the target column is present
var ErrNoFeatures = errors.New("no feature columns besides the target")

// Schema is the feature partition derived from a training frame
type Schema struct {
	Target      string   `json:"target"`
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// InferSchema partitions the columns of the training frame into numeric and
// categorical features, preserving file order. The target must be numeric and
// is excluded from both groups. Only the training frame is inspected; the
// result is reused verbatim for any other frame.
func InferSchema(train *Frame, target string) (*Schema, error) {
	kind, err := train.Kind(target)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", target, err)
	}
	if kind != Numeric {
		return nil, fmt.Errorf("target %q: %w", target, ErrNotNumeric)
	}

	schema := &Schema{Target: target}
	for _, name := range train.Names() {
		if name == target {
			continue
		}
		kind, err := train.Kind(name)
		if err != nil {
			return nil, err
		}
		switch kind {
		case Numeric:
			schema.Numeric = append(schema.Numeric, name)
		default:
			schema.Categorical = append(schema.Categorical, name)
		}
	}

	if len(schema.Numeric) == 0 && len(schema.Categorical) == 0 {
		return nil, ErrNoFeatures
	}
	return schema, nil
}

// Features returns every feature column, numeric group first
func (s *Schema) Features() []string {
	out := make([]string, 0, len(s.Numeric)+len(s.Categorical))
	out = append(out, s.Numeric...)
	return append(out, s.Categorical...)
}
