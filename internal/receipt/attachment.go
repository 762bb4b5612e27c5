// Package receipt handles receipt attachments: encoding a local file for the
// expense-creation request, and fetching a stored receipt into a short-lived
// local handle.
package receipt

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appErrors "github.com/carolinadevia11/coparently/errors"
)

// MaxAttachmentBytes caps how large a receipt may be read into memory.
const MaxAttachmentBytes = 10 << 20

// allowedExtensions holds the receipt file types the API accepts.
var allowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Attachment is a receipt encoded for transport inside the expense-creation
// request.
type Attachment struct {
	FileName string
	Content  string // base64 of the raw file bytes
}

// EncodeFile reads the file fully into memory and encodes it. It either
// completes or fails; a partial encoding is never handed to the caller.
func EncodeFile(path string) (*Attachment, error) {
	ext := NormalizeExt(filepath.Ext(path))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, fmt.Errorf("%w: unsupported receipt type %q", appErrors.ErrValidation, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}
	if info.Size() > MaxAttachmentBytes {
		return nil, fmt.Errorf("%w: receipt exceeds %d bytes", appErrors.ErrValidation, MaxAttachmentBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}

	return &Attachment{
		FileName: filepath.Base(path),
		Content:  base64.StdEncoding.EncodeToString(data),
	}, nil
}
