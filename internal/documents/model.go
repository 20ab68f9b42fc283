package documents

import "time"

// Document is an uploaded file and its generated summary. FileName is the
// name supplied by the client and is only used for display; the blob lives
// under StorageKey.
type Document struct {
	ID         int64
	FileName   string
	UploadDate time.Time
	Summary    string
	StorageKey string
	MimeType   string
	SizeBytes  int64
}
