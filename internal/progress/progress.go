// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress decodes the serialized game analysis progress record.
// The record is a pickled Python dictionary; only its title_examples
// field is ever read, and the example payloads under each title are
// treated as opaque values.
package progress

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/big"
	"os"
	"sort"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
)

// TitleExamplesField is the record field mapping game titles to example payloads.
const TitleExamplesField = "title_examples"

var (
	// ErrDecode is returned when the file is readable but is not a valid pickle stream.
	ErrDecode = errors.New("malformed pickle")

	// ErrMissingField is returned when the record has no title_examples field.
	ErrMissingField = errors.New("missing field")

	// ErrNotMapping is returned when a value expected to be a mapping is not one.
	ErrNotMapping = errors.New("value is not a mapping")

	// ErrInvalidTitle is returned when a title key is not a string.
	ErrInvalidTitle = errors.New("title is not a string")
)

// Record is a decoded progress record. It is never mutated after decoding.
type Record struct {
	root any
}

// NewRecord wraps an already decoded value. Decoders and tests use it;
// the value must not be modified afterwards.
func NewRecord(root any) *Record {
	return &Record{root: root}
}

// Load opens path read-only and decodes the whole record into memory.
// Open and read failures are returned as *fs.PathError, so a missing file
// satisfies errors.Is(err, fs.ErrNotExist). Stream errors wrap ErrDecode.
func Load(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}

	rec, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return rec, nil
}

// Decode reads one pickle stream (protocols 0 to 5) from r.
func Decode(r io.Reader) (rec *Record, err error) {
	// Hashing an unhashable key into an OrderedDict panics inside the
	// unpickler.
	defer func() {
		if p := recover(); p != nil {
			rec, err = nil, fmt.Errorf("%w: %v", ErrDecode, p)
		}
	}()

	u := pickle.NewUnpickler(r)
	u.FindClass = findClass
	v, err := u.Load()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return NewRecord(v), nil
}

// Fields returns the record's top-level string field names in sorted order.
// It returns nil when the record is not a mapping.
func (r *Record) Fields() []string {
	items, ok := entries(r.root)
	if !ok {
		return nil
	}
	var names []string
	for _, e := range items {
		if s, ok := e.key.(string); ok {
			names = append(names, s)
		}
	}
	sort.Strings(names)
	return names
}

// TitleKeys returns the keys of the title_examples mapping in no
// particular order.
func (r *Record) TitleKeys() ([]string, error) {
	examples, err := r.titleExamples()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(examples))
	for _, e := range examples {
		s, ok := e.key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: key %v (%T)", ErrInvalidTitle, e.key, e.key)
		}
		titles = append(titles, s)
	}
	return titles, nil
}

// PayloadKind returns a coarse label for the example payload stored
// under title, or "" when the title is absent.
func (r *Record) PayloadKind(title string) string {
	return r.PayloadKinds()[title]
}

// PayloadKinds returns the payload label of every string title.
func (r *Record) PayloadKinds() map[string]string {
	examples, err := r.titleExamples()
	if err != nil {
		return nil
	}
	kinds := make(map[string]string, len(examples))
	for _, e := range examples {
		if s, ok := e.key.(string); ok {
			kinds[s] = kindOf(e.value)
		}
	}
	return kinds
}

func (r *Record) titleExamples() ([]entry, error) {
	fields, ok := entries(r.root)
	if !ok {
		return nil, fmt.Errorf("progress record: %w (got %s)", ErrNotMapping, kindOf(r.root))
	}
	for _, f := range fields {
		if name, ok := f.key.(string); !ok || name != TitleExamplesField {
			continue
		}
		examples, ok := entries(f.value)
		if !ok {
			return nil, fmt.Errorf("field %q: %w (got %s)", TitleExamplesField, ErrNotMapping, kindOf(f.value))
		}
		return examples, nil
	}
	return nil, fmt.Errorf("%w %q", ErrMissingField, TitleExamplesField)
}

type entry struct {
	key, value any
}

// entries lists the key/value pairs of any mapping shape a record can
// hold: decoded dicts, OrderedDicts, dict subclasses such as defaultdict
// and Counter, and plain Go maps built in code.
func entries(v any) ([]entry, bool) {
	switch m := v.(type) {
	case *types.Dict:
		out := make([]entry, len(*m))
		for i, e := range *m {
			out[i] = entry{e.Key, e.Value}
		}
		return out, true
	case *types.OrderedDict:
		out := make([]entry, 0, m.Len())
		for el := m.List.Front(); el != nil; el = el.Next() {
			e := el.Value.(*types.OrderedDictEntry)
			out = append(out, entry{e.Key, e.Value})
		}
		return out, true
	case *Object:
		if !m.mapping {
			return nil, false
		}
		return m.items, true
	case map[string]any:
		out := make([]entry, 0, len(m))
		for k, val := range m {
			out = append(out, entry{k, val})
		}
		return out, true
	case map[any]any:
		out := make([]entry, 0, len(m))
		for k, val := range m {
			out = append(out, entry{k, val})
		}
		return out, true
	default:
		return nil, false
	}
}

func kindOf(v any) string {
	if _, ok := entries(v); ok {
		return "dict"
	}
	switch v.(type) {
	case *types.List, []any:
		return "list"
	case *types.Tuple:
		return "tuple"
	case *types.Set, *types.FrozenSet:
		return "set"
	case nil:
		return "none"
	case string:
		return "str"
	case int, int64, *big.Int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []byte, *types.ByteArray:
		return "bytes"
	default:
		return "object"
	}
}
