package chat

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxAttachmentBytes bounds files read by LoadAttachment. The relay rejects
// bodies over 8 MiB and base64 grows data by a third.
const MaxAttachmentBytes = 5 << 20

// Attachment is a file sent along with a user turn.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}

// NewAttachment wraps data, detecting its MIME type from content.
func NewAttachment(name string, data []byte) *Attachment {
	return &Attachment{
		Name:     name,
		MIMEType: mimetype.Detect(data).String(),
		Data:     data,
	}
}

// LoadAttachment reads a file from disk into an Attachment.
func LoadAttachment(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("attachment %s is a directory", path)
	}
	if info.Size() > MaxAttachmentBytes {
		return nil, fmt.Errorf("attachment %s is %d bytes, limit is %d", path, info.Size(), MaxAttachmentBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	return NewAttachment(filepath.Base(path), data), nil
}

// IsImage reports whether the attachment can travel as an image_url part.
func (a *Attachment) IsImage() bool {
	return strings.HasPrefix(a.MIMEType, "image/")
}

// IsText reports whether the attachment is readable text.
func (a *Attachment) IsText() bool {
	return strings.HasPrefix(a.MIMEType, "text/")
}

// DataURL encodes the attachment as a base64 data URL.
func (a *Attachment) DataURL() string {
	mediaType := a.MIMEType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}
