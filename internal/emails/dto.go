package emails

import "time"

// SendRequest is the body of POST /send-email.
type SendRequest struct {
	DocumentID *int64 `json:"document_id" binding:"required"`
	Recipient  string `json:"recipient"`
	Message    string `json:"message"`
}

// SendResponse reports the recorded status of a send attempt.
type SendResponse struct {
	Status string `json:"status"`
}

// EntryResponse is the outward-facing representation of a history entry.
type EntryResponse struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	Recipient  string `json:"recipient"`
	SentDate   string `json:"sent_date"`
	Status     string `json:"status"`
}

func toResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		DocumentID: e.DocumentID,
		Recipient:  e.Recipient,
		SentDate:   e.SentDate.UTC().Format(time.RFC3339),
		Status:     e.Status,
	}
}
