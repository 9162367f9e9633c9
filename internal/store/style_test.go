package store

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/gradgen/internal/gradient"
)

// failingStore rejects every write
type failingStore struct{}

func (failingStore) Get(string) (string, error) { return "", ErrNotFound }
func (failingStore) Set(string, string) error   { return errors.New("disk full") }
func (failingStore) Close() error               { return nil }

func TestSaveAndRestoreStyle(t *testing.T) {
	s := openTemp(t, DriverFile)

	style := gradient.Style{gradient.BackgroundImageKey: "radial-gradient( circle, rgba(0, 0, 0, 1) 0% )"}
	require.NoError(t, SaveStyle(s, style))

	raw, err := s.Get(StyleKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"backgroundImage":"radial-gradient( circle, rgba(0, 0, 0, 1) 0% )"}`, raw)

	got, err := RestoreStyle(s)
	require.NoError(t, err)
	assert.Equal(t, style, got)
}

func TestSaveStyleRecoversCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := OpenFile(path)
	require.NoError(t, err)

	style := gradient.Style{gradient.BackgroundImageKey: "linear-gradient( 90deg, rgba(255, 0, 0, 1) 0% )"}
	require.NoError(t, SaveStyle(s, style))

	got, err := RestoreStyle(s)
	require.NoError(t, err)
	assert.Equal(t, style, got)
}

func TestRestoreStyleFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name    string
		stored  *string
		wantErr error
	}{
		{name: "nothing stored", wantErr: ErrNotFound},
		{name: "corrupted", stored: ptr("{{{not json")},
		{name: "wrong shape", stored: ptr(`["a","b"]`)},
		{name: "null", stored: ptr("null"), wantErr: ErrEmptyStyle},
		{name: "empty image", stored: ptr(`{"backgroundImage":""}`), wantErr: ErrEmptyStyle},
		{name: "missing image", stored: ptr(`{"backgroundSize":"10px"}`), wantErr: ErrEmptyStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTemp(t, DriverSQLite)
			if tt.stored != nil {
				require.NoError(t, s.Set(StyleKey, *tt.stored))
			}

			got, err := RestoreStyle(s)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, gradient.Default().Style, got)
		})
	}
}

func TestMirrorPersistsPublishedResults(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)

	e, err := gradient.NewEditor()
	require.NoError(t, err)
	e.Subscribe(Mirror(s, nil))

	e.Refresh()
	got, err := RestoreStyle(s)
	require.NoError(t, err)
	assert.Equal(t, gradient.Default().Style, got)

	require.NoError(t, e.SetType(gradient.Conic))
	got, err = RestoreStyle(s)
	require.NoError(t, err)
	assert.Equal(t, e.Result().Style, got)
	assert.Contains(t, got.BackgroundImage(), "conic-gradient( from 90deg")
}

func TestMirrorLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	listener := Mirror(failingStore{}, logger)
	assert.NotPanics(t, func() { listener(gradient.Default()) })
	assert.Contains(t, buf.String(), "failed to persist gradient style")
	assert.Contains(t, buf.String(), "disk full")
}

func ptr(s string) *string { return &s }
