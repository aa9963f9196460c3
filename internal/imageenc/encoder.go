// Package imageenc turns image files into transport-ready base64 payloads.
package imageenc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"babinium/internal/domain"
)

var (
	errMissingComma  = errors.New("data URL has no payload separator")
	errMissingScheme = errors.New("not a data URL")
)

// Encode reads the full content of file and returns it base64-encoded,
// tagged with the file's declared MIME type.
func Encode(file domain.ImageFile) (domain.EncodedImage, error) {
	if file.Content == nil {
		return domain.EncodedImage{}, &domain.EncodingError{Message: domain.MsgReadFailed, Err: domain.ErrMissingImage}
	}
	data, err := io.ReadAll(file.Content)
	if err != nil {
		return domain.EncodedImage{}, &domain.EncodingError{Message: domain.MsgReadFailed, Err: err}
	}
	return EncodeBytes(data, file.MimeType), nil
}

// EncodeBytes base64-encodes raw image bytes.
func EncodeBytes(data []byte, mimeType string) domain.EncodedImage {
	return domain.EncodedImage{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}
}

// OpenFile opens an image on disk. Files carry no declared type, so the MIME
// type is sniffed from the content. The caller closes the returned file.
func OpenFile(path string) (domain.ImageFile, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ImageFile{}, nil, &domain.EncodingError{Message: domain.MsgReadFailed, Err: err}
	}
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		_ = f.Close()
		return domain.ImageFile{}, nil, &domain.EncodingError{Message: domain.MsgReadFailed, Err: err}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return domain.ImageFile{}, nil, &domain.EncodingError{Message: domain.MsgReadFailed, Err: err}
	}
	return domain.ImageFile{
		Name:     filepath.Base(path),
		MimeType: BaseMimeType(mtype.String()),
		Content:  f,
	}, f, nil
}

// DetectMimeType sniffs the MIME type of raw content, without parameters.
func DetectMimeType(data []byte) string {
	return BaseMimeType(mimetype.Detect(data).String())
}

// BaseMimeType strips parameters such as "; charset=utf-8".
func BaseMimeType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// DecodeDataURL splits a data URL into its MIME type and raw bytes.
// Everything up to the first comma is the scheme and MIME prefix.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	s := strings.TrimSpace(dataURL)
	if !strings.HasPrefix(strings.ToLower(s), "data:") {
		return "", nil, &domain.EncodingError{Message: domain.MsgReadFailed, Err: errMissingScheme}
	}
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return "", nil, &domain.EncodingError{Message: domain.MsgReadFailed, Err: errMissingComma}
	}
	meta, payload := s[len("data:"):comma], s[comma+1:]

	isBase64 := false
	params := strings.Split(meta, ";")
	mimeType := strings.ToLower(strings.TrimSpace(params[0]))
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if !isBase64 {
		raw, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, &domain.EncodingError{Message: domain.MsgReadFailed, Err: err}
		}
		return mimeType, []byte(raw), nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, &domain.EncodingError{
			Message: domain.MsgReadFailed,
			Err:     fmt.Errorf("decoding base64 payload: %w", err),
		}
	}
	return mimeType, data, nil
}

// EncodeDataURL returns the base64 payload of a data URL without its prefix.
func EncodeDataURL(dataURL string) (domain.EncodedImage, error) {
	mimeType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return domain.EncodedImage{}, err
	}
	return EncodeBytes(data, mimeType), nil
}

// FileFromDataURL wraps a decoded data URL as an ImageFile.
func FileFromDataURL(name, dataURL string) (domain.ImageFile, error) {
	mimeType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return domain.ImageFile{}, err
	}
	return domain.ImageFile{Name: name, MimeType: mimeType, Content: bytes.NewReader(data)}, nil
}
