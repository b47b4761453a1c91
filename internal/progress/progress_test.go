// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/title-extractor/internal/progress/progresstest"
)

// protocol0Record is a text-protocol pickle of
// {"title_examples": {"Zelda": 1, "Amnesia": 2, "amnesia": 3}}.
const protocol0Record = "(dp0\n" +
	"Vtitle_examples\np1\n" +
	"(dp2\n" +
	"VZelda\np3\nI1\ns" +
	"VAmnesia\np4\nI2\ns" +
	"Vamnesia\np5\nI3\ns" +
	"s."

func TestDecodeProtocol0(t *testing.T) {
	rec, err := Decode(strings.NewReader(protocol0Record))
	require.NoError(t, err)

	titles, err := rec.TitleKeys()
	require.NoError(t, err)
	sort.Strings(titles)
	assert.Equal(t, []string{"Amnesia", "Zelda", "amnesia"}, titles)
	assert.Equal(t, []string{"title_examples"}, rec.Fields())
}

func TestTitleKeys(t *testing.T) {
	tests := []struct {
		name    string
		record  any
		want    []string
		wantErr error
	}{
		{
			name:   "nested dictionary payloads",
			record: progresstest.Titles("Halo", "Fable", "Jade Empire"),
			want:   []string{"Fable", "Halo", "Jade Empire"},
		},
		{
			name: "non-ascii titles",
			record: map[string]any{
				"title_examples": map[string]any{"Pokémon": nil, "大神": nil},
			},
			want: []string{"Pokémon", "大神"},
		},
		{
			name:   "empty mapping",
			record: map[string]any{"title_examples": map[string]any{}},
			want:   []string{},
		},
		{
			name:    "missing field",
			record:  map[string]any{"processed_count": 3},
			wantErr: ErrMissingField,
		},
		{
			name:    "field is a list",
			record:  map[string]any{"title_examples": []any{"Halo"}},
			wantErr: ErrNotMapping,
		},
		{
			name:    "record is a list",
			record:  []any{"title_examples"},
			wantErr: ErrNotMapping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := progresstest.Pickle(tt.record)
			require.NoError(t, err)

			rec, err := Decode(bytes.NewReader(data))
			require.NoError(t, err)

			got, err := rec.TitleKeys()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			sort.Strings(got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitleKeysNonStringKey(t *testing.T) {
	rec := NewRecord(map[any]any{
		"title_examples": map[any]any{"Halo": nil, int64(7): nil},
	})
	_, err := rec.TitleKeys()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTitle)
}

func TestPayloadKind(t *testing.T) {
	record := map[string]any{
		"title_examples": map[string]any{
			"Halo":  map[string]any{"genre": "shooter"},
			"Fable": []any{"a", "b"},
			"Myst":  "text",
			"Doom":  3,
			"Braid": nil,
		},
	}
	data, err := progresstest.Pickle(record)
	require.NoError(t, err)
	rec, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "dict", rec.PayloadKind("Halo"))
	assert.Equal(t, "list", rec.PayloadKind("Fable"))
	assert.Equal(t, "str", rec.PayloadKind("Myst"))
	assert.Equal(t, "int", rec.PayloadKind("Doom"))
	assert.Equal(t, "none", rec.PayloadKind("Braid"))
	assert.Equal(t, "", rec.PayloadKind("Oblivion"))
}

func TestLoad(t *testing.T) {
	all := []string{"Amnesia", "Pokémon", "Zelda", "amnesia", "Ōkami"}
	tests := []struct {
		file    string
		want    []string
		kind    string
		wantErr error
	}{
		{file: "dict_p0.pkl", want: all, kind: "dict"},
		{file: "dict_p2.pkl", want: all, kind: "dict"},
		{file: "dict_p4.pkl", want: all, kind: "dict"},
		{file: "dict_p5.pkl", want: all, kind: "dict"},
		{file: "defaultdict_p2.pkl", want: all, kind: "list"},
		{file: "defaultdict_p4.pkl", want: all, kind: "list"},
		{file: "ordereddict_p2.pkl", want: all, kind: "dict"},
		{file: "ordereddict_p4.pkl", want: all, kind: "dict"},
		{file: "counter_p4.pkl", want: all, kind: "int"},
		{file: "toplevel_ordereddict_p5.pkl", want: all, kind: "dict"},
		{file: "missing_field_p4.pkl", wantErr: ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			rec, err := Load(filepath.Join("testdata", tt.file))
			require.NoError(t, err)

			got, err := rec.TitleKeys()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			sort.Strings(got)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"processed_count", "title_examples"}, rec.Fields())
			for _, title := range tt.want {
				assert.Equal(t, tt.kind, rec.PayloadKind(title), title)
			}
		})
	}
}

func TestLoadOpaquePayloads(t *testing.T) {
	rec, err := Load(filepath.Join("testdata", "payloads_p5.pkl"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Zelda":   "tuple",
		"Amnesia": "set",
		"amnesia": "bytes",
		"Pokémon": "float",
		"Ōkami":   "object",
	}, rec.PayloadKinds())
}

func TestLoadBuiltRecord(t *testing.T) {
	dir := t.TempDir()
	path := progresstest.WriteRecord(t, dir, "progress.pkl", progresstest.Titles("Halo"))

	rec, err := Load(path)
	require.NoError(t, err)
	titles, err := rec.TitleKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"Halo"}, titles)
	assert.Equal(t, []string{"processed_count", "title_examples"}, rec.Fields())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.pkl"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)

	var pathErr *fs.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, "read", pathErr.Op)
	assert.NotErrorIs(t, err, ErrDecode)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.pkl")
	require.NoError(t, os.WriteFile(path, []byte("not a pickle"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), path)
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty stream", data: ""},
		{name: "truncated", data: "(dp0\nVtitle_examples\n"},
		{name: "plain text", data: "Halo\nFable\n"},
		{name: "out of range opcode", data: "\x80\x02\xff"},
		{name: "setitems on a list", data: "\x80\x02](X\x01\x00\x00\x00aX\x01\x00\x00\x00bu."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}
