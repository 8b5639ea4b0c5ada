package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("attachment", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["attachment"][0]
}

func TestSaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := New(dir, 1024)
	require.NoError(t, err)

	name, err := s.Save(fileHeader(t, "../../etc/Notice.PDF", []byte("%PDF-1.4")))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.NotContains(t, name, "Notice")
	assert.NotContains(t, name, "/")

	got, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(got))

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(name), "removing twice is not an error")
	assert.NoError(t, s.Remove(""))
}

func TestSaveTooLarge(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 4)
	require.NoError(t, err)

	_, err = s.Save(fileHeader(t, "big.txt", []byte("more than four bytes")))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
