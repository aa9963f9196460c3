package imageenc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babinium/internal/domain"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk unplugged")
}

func TestEncode_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		pngHeader,
		{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10},
		bytes.Repeat([]byte{0x00, 0xFF, 0x7F}, 1000),
	}
	for _, in := range inputs {
		enc, err := Encode(domain.ImageFile{MimeType: "image/png", Content: bytes.NewReader(in)})
		require.NoError(t, err)

		decoded, err := base64.StdEncoding.DecodeString(enc.Data)
		require.NoError(t, err)
		assert.Equal(t, len(in), len(decoded))
		assert.True(t, bytes.Equal(in, decoded))
		assert.Equal(t, "image/png", enc.MimeType)
	}
}

func TestEncode_CopiesDeclaredMimeType(t *testing.T) {
	enc, err := Encode(domain.ImageFile{MimeType: "image/webp", Content: bytes.NewReader(pngHeader)})
	require.NoError(t, err)
	assert.Equal(t, "image/webp", enc.MimeType)
}

func TestEncode_ReadFailure(t *testing.T) {
	enc, err := Encode(domain.ImageFile{MimeType: "image/png", Content: failingReader{}})

	require.Error(t, err)
	var encErr *domain.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, domain.MsgReadFailed, encErr.Message)
	assert.Contains(t, err.Error(), "disk unplugged")
	assert.Empty(t, enc.Data)
}

func TestEncode_NilContent(t *testing.T) {
	_, err := Encode(domain.ImageFile{MimeType: "image/png"})

	var encErr *domain.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.ErrorIs(t, err, domain.ErrMissingImage)
}

func TestEncodeDataURL_StripsPrefix(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(pngHeader)

	enc, err := EncodeDataURL("data:image/png;base64," + payload)

	require.NoError(t, err)
	assert.Equal(t, payload, enc.Data)
	assert.Equal(t, "image/png", enc.MimeType)
}

func TestEncodeDataURL_InvalidBase64(t *testing.T) {
	_, err := EncodeDataURL("data:image/png;base64,@@not-base64@@")

	var encErr *domain.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Contains(t, err.Error(), "decoding base64 payload")
}

func TestEncodeDataURL_MissingComma(t *testing.T) {
	_, err := EncodeDataURL("data:image/png;base64")

	var encErr *domain.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.ErrorIs(t, err, errMissingComma)
}

func TestEncodeDataURL_NotADataURL(t *testing.T) {
	_, err := EncodeDataURL("https://example.com/table.png")

	assert.ErrorIs(t, err, errMissingScheme)
}

func TestDecodeDataURL_PercentEncoded(t *testing.T) {
	mimeType, data, err := DecodeDataURL("data:image/svg+xml,%3Csvg%3E%3C%2Fsvg%3E")

	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", mimeType)
	assert.Equal(t, "<svg></svg>", string(data))
}

func TestFileFromDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(pngHeader)

	file, err := FileFromDataURL("pasted.png", "data:image/png;base64,"+payload)
	require.NoError(t, err)
	assert.Equal(t, "pasted.png", file.Name)
	assert.Equal(t, "image/png", file.MimeType)

	enc, err := Encode(file)
	require.NoError(t, err)
	assert.Equal(t, payload, enc.Data)
}

func TestOpenFile_SniffsMimeType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	file, closer, err := OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	assert.Equal(t, "image/png", file.MimeType)
	assert.Equal(t, "table", file.Name)

	enc, err := Encode(file)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngHeader), enc.Data)
}

func TestOpenFile_Missing(t *testing.T) {
	_, _, err := OpenFile(filepath.Join(t.TempDir(), "nope.png"))

	var encErr *domain.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBaseMimeType(t *testing.T) {
	assert.Equal(t, "text/plain", BaseMimeType("text/plain; charset=utf-8"))
	assert.Equal(t, "image/png", BaseMimeType(" IMAGE/PNG "))
}

func TestDetectMimeType(t *testing.T) {
	assert.Equal(t, "image/png", DetectMimeType(pngHeader))
	assert.Equal(t, "text/plain", DetectMimeType([]byte("hello, world")))
}
