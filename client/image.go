package client

import (
	"fmt"
	"sync"

	"github.com/mindcare/therapist-api/internal/domain/therapist"
	"github.com/mindcare/therapist-api/pkg/apperror"
)

// UploadCandidate is an in-memory image selected for upload. It exists from
// selection until the submit that carries it finishes, successfully or not.
type UploadCandidate struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewUploadCandidate enforces the upload constraints: at most 5 MiB
// (inclusive) and one of the accepted image types. A rejected selection
// changes no state.
func NewUploadCandidate(name, contentType string, data []byte) (*UploadCandidate, error) {
	if int64(len(data)) > therapist.MaxImageBytes {
		return nil, apperror.NewInvalidInput("image must be 5 MB or smaller", nil)
	}
	if !therapist.AllowedImageTypes[contentType] {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("image type '%s' is not supported", contentType), nil)
	}
	return &UploadCandidate{Name: name, ContentType: contentType, Data: data}, nil
}

func (c *UploadCandidate) Size() int64 {
	return int64(len(c.Data))
}

// Preview is a locally scoped handle on the candidate's bytes for display
// purposes. It must be released exactly once when superseded or when the
// session closes; Release is idempotent so a double release stays harmless.
type Preview struct {
	candidate *UploadCandidate
	released  bool
	once      sync.Once
}

func (c *UploadCandidate) NewPreview() *Preview {
	return &Preview{candidate: c}
}

func (p *Preview) Bytes() []byte {
	if p == nil || p.released {
		return nil
	}
	return p.candidate.Data
}

func (p *Preview) ContentType() string {
	if p == nil || p.released {
		return ""
	}
	return p.candidate.ContentType
}

func (p *Preview) Release() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		p.released = true
		p.candidate = nil
	})
}

func (p *Preview) Released() bool {
	return p == nil || p.released
}
