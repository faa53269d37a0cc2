package works

import (
	"strings"
	"time"
)

type WorkType string

const (
	TypeWork     WorkType = "work"
	TypeOriginal WorkType = "original"
)

func (t WorkType) Valid() bool {
	return t == TypeWork || t == TypeOriginal
}

// ParseWorkType maps a query value to a work type. Anything unknown means
// "no type selected".
func ParseWorkType(s string) WorkType {
	t := WorkType(strings.TrimSpace(s))
	if t.Valid() {
		return t
	}
	return ""
}

// Work is one portfolio entry as exchanged with the backend API.
// ID is assigned by the backend: empty on create, required on update.
type Work struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Date          string   `json:"date"`
	WorkType      WorkType `json:"workType"`
	Owner         string   `json:"owner"`
	Tags          []string `json:"tags"`
	Thumbnail     string   `json:"thumbnail"`
	DescriptionKo string   `json:"descriptionKo,omitempty"`
	DescriptionEn string   `json:"descriptionEn,omitempty"`
	MainVideo     string   `json:"mainVideo,omitempty"`
	Data          Blocks   `json:"data"`
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts the ISO 8601 shapes the backend and the editor produce.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormattedDate renders the date as "2025. 09. 27". Unparsable dates are
// shown as they came.
func (w Work) FormattedDate() string {
	t, ok := ParseDate(w.Date)
	if !ok {
		return w.Date
	}
	return t.Format("2006. 01. 02")
}

// HasTag is an exact, case-sensitive membership check.
func (w Work) HasTag(tag string) bool {
	for _, t := range w.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CardTags is the short tag list shown on listing cards.
func (w Work) CardTags() []string {
	if len(w.Tags) <= 3 {
		return w.Tags
	}
	return w.Tags[:3]
}
