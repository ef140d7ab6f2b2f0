package transform

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// UnknownPolicy decides how the encoder treats a category it never saw at fit time
type UnknownPolicy string

const (
	// UnknownIgnore encodes an unseen category as an all-zero block
	UnknownIgnore UnknownPolicy = "ignore"
	// UnknownError fails the transform with ErrUnknownCategory
	UnknownError UnknownPolicy = "error"
)

// ParseUnknownPolicy validates a configured policy name
func ParseUnknownPolicy(name string) (UnknownPolicy, error) {
	switch p := UnknownPolicy(name); p {
	case UnknownIgnore, UnknownError:
		return p, nil
	case "":
		return UnknownIgnore, nil
	default:
		return "", fmt.Errorf("invalid unknown-category policy: %q", name)
	}
}

// OneHotEncoder expands each categorical column into one indicator column per
// category seen at fit time. Categories are kept in sorted order.
type OneHotEncoder struct {
	Columns       []string
	Categories    [][]string
	HandleUnknown UnknownPolicy

	index []map[string]int
}

// NewOneHotEncoder creates an encoder for the named columns
func NewOneHotEncoder(columns []string, policy UnknownPolicy) *OneHotEncoder {
	return &OneHotEncoder{
		Columns:       columns,
		HandleUnknown: policy,
	}
}

// Fit learns the vocabulary of every column
func (e *OneHotEncoder) Fit(columns [][]string) error {
	if len(columns) != len(e.Columns) {
		return fmt.Errorf("%w: got %d, expected %d", ErrColumnMismatch, len(columns), len(e.Columns))
	}
	e.Categories = make([][]string, len(columns))
	for j, col := range columns {
		seen := make(map[string]struct{})
		for _, v := range col {
			seen[v] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.Categories[j] = cats
	}
	e.index = nil
	return nil
}

// Width returns the number of output columns
func (e *OneHotEncoder) Width() int {
	n := 0
	for _, cats := range e.Categories {
		n += len(cats)
	}
	return n
}

// FeatureNames returns "<column>_<category>" for every output column
func (e *OneHotEncoder) FeatureNames() []string {
	names := make([]string, 0, e.Width())
	for j, cats := range e.Categories {
		for _, c := range cats {
			names = append(names, fmt.Sprintf("%s_%s", e.Columns[j], c))
		}
	}
	return names
}

// Transform encodes the columns into a rows x Width() indicator matrix
func (e *OneHotEncoder) Transform(columns [][]string) (*mat.Dense, error) {
	if e.Categories == nil {
		return nil, ErrNotFitted
	}
	if len(columns) != len(e.Categories) {
		return nil, fmt.Errorf("%w: got %d, fitted %d", ErrColumnMismatch, len(columns), len(e.Categories))
	}
	if len(columns) == 0 || len(columns[0]) == 0 {
		return nil, ErrEmptyTable
	}
	width := e.Width()
	if width == 0 {
		return nil, fmt.Errorf("encoder has no categories")
	}

	index := e.lookup()
	out := mat.NewDense(len(columns[0]), width, nil)
	offset := 0
	for j, col := range columns {
		for i, v := range col {
			k, ok := index[j][v]
			if !ok {
				if e.HandleUnknown == UnknownError {
					return nil, fmt.Errorf("%w: column %q value %q", ErrUnknownCategory, e.Columns[j], v)
				}
				continue
			}
			out.Set(i, offset+k, 1)
		}
		offset += len(e.Categories[j])
	}
	return out, nil
}

// lookup builds the category index on first use; it is not serialised
func (e *OneHotEncoder) lookup() []map[string]int {
	if e.index != nil {
		return e.index
	}
	e.index = make([]map[string]int, len(e.Categories))
	for j, cats := range e.Categories {
		m := make(map[string]int, len(cats))
		for k, c := range cats {
			m[c] = k
		}
		e.index[j] = m
	}
	return e.index
}
