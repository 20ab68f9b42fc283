package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"
	"time"

	"docintake/internal/shared/util"
)

const base64LineLen = 76

// Attachment is a file carried in a message.
type Attachment struct {
	FileName string
	Content  []byte
}

// Message is a plain-text email with optional attachments.
type Message struct {
	From        string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// DocumentSubject is the subject line used when sending a stored document.
func DocumentSubject(fileName string) string {
	return "Document: " + fileName
}

// DocumentBody joins the sender's note and the stored summary.
func DocumentBody(message, summary string) string {
	return message + "\n\nSummary:\n" + summary
}

// Compose renders msg as a multipart/mixed RFC 5322 message.
func Compose(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := func(k, v string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
	}
	header("From", msg.From)
	header("To", msg.To)
	header("Subject", mime.QEncoding.Encode("utf-8", stripNewlines(msg.Subject)))
	header("Date", time.Now().UTC().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", mw.Boundary()))
	buf.WriteString("\r\n")

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", `text/plain; charset="utf-8"`)
	textHeader.Set("Content-Transfer-Encoding", "quoted-printable")
	pw, err := mw.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("create text part: %w", err)
	}
	qp := quotedprintable.NewWriter(pw)
	if _, err := qp.Write([]byte(msg.Body)); err != nil {
		return nil, fmt.Errorf("write text part: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("close text part: %w", err)
	}

	for _, att := range msg.Attachments {
		name := util.HeaderFileName(att.FileName)
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", "application/octet-stream")
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", name))
		aw, err := mw.CreatePart(attHeader)
		if err != nil {
			return nil, fmt.Errorf("create attachment part: %w", err)
		}
		if err := writeBase64Lines(aw, att.Content); err != nil {
			return nil, fmt.Errorf("write attachment: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), nil
}

func writeBase64Lines(w io.Writer, content []byte) error {
	encoded := base64.StdEncoding.EncodeToString(content)
	for len(encoded) > 0 {
		n := base64LineLen
		if len(encoded) < n {
			n = len(encoded)
		}
		if _, err := w.Write([]byte(encoded[:n] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
