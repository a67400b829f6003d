package fontid

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// LabelSet is the closed, ordered set of font names a classifier can
// recognise. It is read-only after construction and safe to share.
type LabelSet struct {
	names []string
	index map[string]int
}

// NewLabelSet builds a label set whose indices follow the argument order.
func NewLabelSet(names ...string) (*LabelSet, error) {
	if len(names) == 0 {
		return nil, configErrorf("labels", "label set is empty")
	}
	ls := &LabelSet{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return nil, configErrorf("labels", "label %d has an empty name", i)
		}
		if _, dup := ls.index[name]; dup {
			return nil, configErrorf("labels", "duplicate label %q", name)
		}
		ls.names[i] = name
		ls.index[name] = i
	}
	return ls, nil
}

// LoadLabelSet reads a class index file, a JSON object mapping each font
// name to its dense integer index:
//
//	{"Arial": 0, "Times-New-Roman": 1}
func LoadLabelSet(path string) (*LabelSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configError("load labels", path, err)
	}

	var indices map[string]int
	if err := json.Unmarshal(data, &indices); err != nil {
		return nil, configError("load labels", path, fmt.Errorf("failed to parse class indices: %w", err))
	}

	names := make([]string, len(indices))
	for name, i := range indices {
		if i < 0 || i >= len(indices) {
			return nil, configError("load labels", path, fmt.Errorf("index %d of %q out of range [0, %d)", i, name, len(indices)))
		}
		if names[i] != "" {
			return nil, configError("load labels", path, fmt.Errorf("index %d assigned to both %q and %q", i, names[i], name))
		}
		names[i] = name
	}

	ls, err := NewLabelSet(names...)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Path = path
		}
		return nil, err
	}
	return ls, nil
}

// WriteLabelSet writes ls in the format LoadLabelSet reads.
func WriteLabelSet(path string, ls *LabelSet) error {
	indices := make(map[string]int, ls.Len())
	for i, name := range ls.names {
		indices[name] = i
	}
	data, err := json.MarshalIndent(indices, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode class indices: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write class indices: %w", err)
	}
	return nil
}

// Len returns the number of labels.
func (ls *LabelSet) Len() int {
	return len(ls.names)
}

// Names returns the labels in index order.
func (ls *LabelSet) Names() []string {
	return append([]string(nil), ls.names...)
}

// Sorted returns the labels in alphabetical order.
func (ls *LabelSet) Sorted() []string {
	names := ls.Names()
	sort.Strings(names)
	return names
}

// Index returns the index of name, or -1.
func (ls *LabelSet) Index(name string) int {
	if i, ok := ls.index[name]; ok {
		return i
	}
	return -1
}

// Name returns the label at index i.
func (ls *LabelSet) Name(i int) string {
	return ls.names[i]
}

// Contains reports whether name is a canonical label.
func (ls *LabelSet) Contains(name string) bool {
	_, ok := ls.index[name]
	return ok
}
