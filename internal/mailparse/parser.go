package mailparse

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
)

var errFound = errors.New("text part found")

// DecodeBody extracts the plain-text body of a raw RFC 5322 message.
//
// For multipart messages it returns the first text/plain part in depth-first
// order, or "" when there is none. A single-part message returns its decoded
// content whatever its type. It never fails: anything undecodable yields "".
func DecodeBody(raw []byte) string {
	entity, err := message.Read(bytes.NewReader(raw))
	if !usable(entity, err) {
		return ""
	}

	if !isMultipart(entity) {
		body, err := io.ReadAll(entity.Body)
		if err != nil {
			return ""
		}
		return clean(body)
	}

	// errFound stops the walk; any other walk error keeps what was found so far
	var text string
	_ = entity.Walk(func(_ []int, part *message.Entity, err error) error {
		if !usable(part, err) || !isPlainText(part) {
			return nil
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return nil
		}
		text = clean(body)
		return errFound
	})
	return text
}

// DecodeSubject returns the decoded Subject header of a raw message, "" when unreadable
func DecodeSubject(raw []byte) string {
	entity, err := message.Read(bytes.NewReader(raw))
	if !usable(entity, err) {
		return ""
	}
	subject, err := DecodeHeader(entity.Header.Get("Subject"))
	if err != nil {
		return entity.Header.Get("Subject")
	}
	return subject
}

// DecodeHeader decodes MIME-encoded headers (e.g., "=?UTF-8?B?...?=") to plain text
func DecodeHeader(encoded string) (string, error) {
	decoder := &mime.WordDecoder{CharsetReader: charset.Reader}
	decoded, err := decoder.DecodeHeader(encoded)
	if err != nil {
		return "", err
	}
	return decoded, nil
}

// Excerpt returns at most n characters of body
func Excerpt(body string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(body)
	if len(runes) <= n {
		return body
	}
	return string(runes[:n])
}

// unknown charsets and encodings still leave a readable entity
func usable(entity *message.Entity, err error) bool {
	if entity == nil {
		return false
	}
	return err == nil || message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}

func isMultipart(entity *message.Entity) bool {
	mediaType, _, _ := entity.Header.ContentType()
	return strings.HasPrefix(mediaType, "multipart/")
}

// a part without Content-Type defaults to text/plain
func isPlainText(entity *message.Entity) bool {
	if isMultipart(entity) {
		return false
	}
	mediaType, _, err := entity.Header.ContentType()
	if err != nil || mediaType == "" {
		return entity.Header.Get("Content-Type") == ""
	}
	return mediaType == "text/plain"
}

func clean(body []byte) string {
	return strings.ToValidUTF8(string(body), "")
}
