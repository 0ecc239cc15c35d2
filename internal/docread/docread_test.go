// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docread

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     []byte
		maxBytes int64
		want     string
		wantErr  error
	}{
		{
			name: "plain arabic text",
			file: "case.txt",
			data: []byte("رقم الملف 741/2102/2025"),
			want: "رقم الملف 741/2102/2025",
		},
		{
			name: "bom is dropped",
			file: "case.txt",
			data: append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...),
			want: "hello",
		},
		{
			name: "pdf read as text",
			file: "judgment.pdf",
			data: []byte("%PDF-1.4\n1 0 obj\n(Case 12/34/2024)\nendobj"),
			want: "%PDF-1.4\n1 0 obj\n(Case 12/34/2024)\nendobj",
		},
		{
			name: "unknown bytes accepted by extension",
			file: "brief.docx",
			data: []byte{0x01, 0x02, 'a', 'b', 0x00, 'c'},
			want: "\x01\x02abc",
		},
		{
			name:    "empty",
			file:    "case.txt",
			data:    nil,
			wantErr: ErrEmptyFile,
		},
		{
			name:    "whitespace only",
			file:    "case.txt",
			data:    []byte(" \n\t "),
			wantErr: ErrEmptyFile,
		},
		{
			name:     "too large",
			file:     "case.txt",
			data:     bytes.Repeat([]byte("a"), 11),
			maxBytes: 10,
			wantErr:  ErrTooLarge,
		},
		{
			name:    "png rejected",
			file:    "scan.png",
			data:    []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"),
			wantErr: ErrUnsupportedType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.file, tt.data, tt.maxBytes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToTextInvalidUTF8(t *testing.T) {
	got := toText([]byte{'o', 'k', 0xff, 0xfe, '!'})
	assert.True(t, strings.HasPrefix(got, "ok"))
	assert.True(t, strings.HasSuffix(got, "!"))
	assert.Contains(t, got, "\uFFFD")
}

func TestAcceptAttr(t *testing.T) {
	attr := AcceptAttr()
	for _, want := range []string{".txt", ".pdf", ".doc", ".docx", "application/pdf", "text/plain"} {
		assert.Contains(t, attr, want)
	}
}
