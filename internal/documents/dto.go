package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID         int64  `json:"id"`
	FileName   string `json:"filename"`
	UploadDate string `json:"upload_date"`
	Summary    string `json:"summary"`
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	ID      int64  `json:"id"`
	Summary string `json:"summary"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:         doc.ID,
		FileName:   doc.FileName,
		UploadDate: doc.UploadDate.UTC().Format(time.RFC3339),
		Summary:    doc.Summary,
	}
}
