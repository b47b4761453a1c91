// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progresstest writes pickled progress records for tests.
package progresstest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Pickle serializes v as a protocol 2 pickle. Supported values are
// map[string]any, []any, string, int and nil. Dictionary keys are
// written in sorted order so the output is deterministic.
func Pickle(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0x80, 0x02})
	if err := write(&buf, v); err != nil {
		return nil, err
	}
	buf.WriteByte('.')
	return buf.Bytes(), nil
}

func write(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteByte('N')
	case string:
		buf.WriteByte('X')
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(x)))
		buf.Write(n[:])
		buf.WriteString(x)
	case int:
		fmt.Fprintf(buf, "I%d\n", x)
	case []any:
		buf.WriteByte(']')
		for _, item := range x {
			if err := write(buf, item); err != nil {
				return err
			}
			buf.WriteByte('a')
		}
	case map[string]any:
		buf.WriteByte('}')
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := write(buf, k); err != nil {
				return err
			}
			if err := write(buf, x[k]); err != nil {
				return err
			}
			buf.WriteByte('s')
		}
	default:
		return fmt.Errorf("progresstest: unsupported value %T", v)
	}
	return nil
}

// WriteRecord pickles v into dir/name and returns the file path.
func WriteRecord(t testing.TB, dir, name string, v any) string {
	t.Helper()
	data, err := Pickle(v)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Titles builds a progress record whose title_examples field holds the
// given titles, each with a small dictionary payload.
func Titles(titles ...string) map[string]any {
	examples := make(map[string]any, len(titles))
	for i, title := range titles {
		examples[title] = map[string]any{
			"examples": []any{fmt.Sprintf("example %d", i)},
			"count":    i + 1,
		}
	}
	return map[string]any{
		"title_examples":  examples,
		"processed_count": len(titles),
	}
}
