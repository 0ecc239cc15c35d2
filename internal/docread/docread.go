// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docread turns an uploaded case file into text. Only textual decoding
// is done: PDF and Word files are accepted but their bytes are read as text,
// not parsed.
package docread

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes caps the size of a decoded file.
const DefaultMaxBytes = 10 << 20

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrTooLarge        = errors.New("file is too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Accepted lists the MIME types offered by the upload form and the
// extensions that map to them.
var Accepted = map[string][]string{
	"text/plain":         {".txt"},
	"application/pdf":    {".pdf"},
	"application/msword": {".doc"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {".docx"},
}

// AcceptAttr renders Accepted for an HTML file input accept attribute.
func AcceptAttr() string {
	var parts []string
	for mt, exts := range Accepted {
		parts = append(parts, mt)
		parts = append(parts, exts...)
	}
	slices.Sort(parts)
	return strings.Join(parts, ",")
}

// Decode validates and decodes one uploaded file. maxBytes <= 0 uses
// DefaultMaxBytes.
func Decode(name string, data []byte, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(data), maxBytes)
	}

	if !accepted(name, data) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Base(name))
	}

	text := toText(data)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyFile
	}
	return text, nil
}

// accepted checks the sniffed MIME type, falling back to the extension.
func accepted(name string, data []byte) bool {
	for mt := mimetype.Detect(data); mt != nil; mt = mt.Parent() {
		if _, ok := Accepted[mt.String()]; ok {
			return true
		}
		// Sniffed strings carry parameters ("text/plain; charset=utf-8").
		base, _, _ := strings.Cut(mt.String(), ";")
		if _, ok := Accepted[base]; ok {
			return true
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, exts := range Accepted {
		for _, e := range exts {
			if ext == e {
				return true
			}
		}
	}
	return false
}

// toText decodes bytes as UTF-8 best-effort: a BOM is dropped, invalid
// sequences become U+FFFD and NUL bytes are removed.
func toText(data []byte) string {
	s := strings.TrimPrefix(string(data), "\uFEFF")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	return strings.ReplaceAll(s, "\x00", "")
}
