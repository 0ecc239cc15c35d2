// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// TimelineSource tags where a timeline event came from. It has exactly two
// values; the zero value is invalid.
type TimelineSource int

const (
	SourceDocument TimelineSource = iota + 1
	SourceOnline
)

// Wire tags used by the model and shown in the report badges.
const (
	tagDocument = "المستند"
	tagOnline   = "عبر الإنترنت"
)

// TimelineSourceTags lists the wire values in declaration order. The response
// schema offers them to the model as an enum.
var TimelineSourceTags = []string{tagDocument, tagOnline}

// String returns the Arabic wire tag.
func (s TimelineSource) String() string {
	switch s {
	case SourceDocument:
		return tagDocument
	case SourceOnline:
		return tagOnline
	default:
		return fmt.Sprintf("TimelineSource(%d)", int(s))
	}
}

// Slug returns a stable ASCII name, used for CSS classes and logs.
func (s TimelineSource) Slug() string {
	switch s {
	case SourceDocument:
		return "document"
	case SourceOnline:
		return "online"
	default:
		return "unknown"
	}
}

// ParseTimelineSource accepts the Arabic wire tag or the ASCII slug.
func ParseTimelineSource(v string) (TimelineSource, error) {
	switch v {
	case tagDocument, "document":
		return SourceDocument, nil
	case tagOnline, "online":
		return SourceOnline, nil
	}
	return 0, fmt.Errorf("unknown timeline source %q", v)
}

// MarshalText implements encoding.TextMarshaler.
func (s TimelineSource) MarshalText() ([]byte, error) {
	if s != SourceDocument && s != SourceOnline {
		return nil, fmt.Errorf("invalid timeline source %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TimelineSource) UnmarshalText(b []byte) error {
	v, err := ParseTimelineSource(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalYAML emits the wire tag.
func (s TimelineSource) MarshalYAML() (any, error) {
	b, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// TimelineEvent is one dated entry of the case timeline.
type TimelineEvent struct {
	// Date is an ISO calendar date (YYYY-MM-DD).
	Date        string         `json:"date" yaml:"date"`
	Description string         `json:"description" yaml:"description"`
	Source      TimelineSource `json:"source" yaml:"source"`
}

