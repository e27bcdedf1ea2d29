package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := NewLocal(dir)
	require.NoError(t, err)

	content := "student_id,full_name,status\nS1,Jane Doe,GRADUATED (2019/2020)\n"
	info, err := st.Put(ctx, "extractions/a.csv", strings.NewReader(content), PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: "text/csv",
	})
	require.NoError(t, err)
	assert.Equal(t, "extractions/a.csv", info.Key)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, "text/csv", info.ContentType)
	assert.FileExists(t, filepath.Join(dir, "extractions", "a.csv"))

	rc, got, err := st.Get(ctx, "extractions/a.csv")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, content, string(b))
	assert.Equal(t, int64(len(content)), got.Size)

	require.NoError(t, st.Delete(ctx, "extractions/a.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "extractions", "a.csv"))

	// deleting twice is fine
	assert.NoError(t, st.Delete(ctx, "extractions/a.csv"))
}

func TestLocalStorage_GetMissing(t *testing.T) {
	st, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, _, err = st.Get(context.Background(), "extractions/missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	st, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = st.Put(context.Background(), "../outside.csv", strings.NewReader("x"), PutObjectOptions{})
	assert.ErrorContains(t, err, "invalid storage key")

	assert.Error(t, st.Delete(context.Background(), "/etc/passwd"))
}

func TestLocalStorage_PutCanceled(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocal(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = st.Put(ctx, "extractions/b.csv", strings.NewReader("x"), PutObjectOptions{})
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "extractions", "b.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewLocal_RequiresDir(t *testing.T) {
	_, err := NewLocal("")
	assert.Error(t, err)
}
