package ports

import (
	"context"
	"time"
)

// UploadTicket is a pre-authorized slot in the attachment store. The caller
// uploads the evidence file directly to UploadURL; Filename is the opaque name
// the file will be reachable under once it lands.
type UploadTicket struct {
	Filename  string
	UploadURL string
}

// AttachmentStore is the opaque media collaborator. The core never moves file
// bytes itself; it only issues tickets and resolves signed read URLs.
type AttachmentStore interface {
	// IssueUploadTicket reserves an upload slot valid for ttl for a file
	// with the given extension (e.g. "jpg").
	IssueUploadTicket(ctx context.Context, ttl time.Duration, fileExtension string) (UploadTicket, error)

	// SignedURL resolves a previously uploaded filename to a time-limited
	// read URL.
	SignedURL(ctx context.Context, filename string) (string, error)
}
