package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-site/internal/domain/works"
)

var (
	ErrBlockIndex     = errors.New("block index out of range")
	ErrItemIndex      = errors.New("media item index out of range")
	ErrNotMedia       = errors.New("block has no media items")
	ErrBlockType      = errors.New("unknown block type")
	ErrLayout         = errors.New("unknown layout")
	ErrUnresolvedFile = errors.New("staged file has no uploaded url")
)

// Draft is the state of one editing session. It is owned by that session
// only and is stored between requests as JSON.
type Draft struct {
	ID     string `json:"id"`
	WorkID string `json:"workId,omitempty"`

	Title         string          `json:"title"`
	Subtitle      string          `json:"subtitle"`
	Date          string          `json:"date"`
	WorkType      works.WorkType  `json:"workType"`
	Owner         string          `json:"owner"`
	Tags          []string        `json:"tags"`
	Thumbnail     works.MediaItem `json:"thumbnail"`
	MainVideo     works.MediaItem `json:"mainVideo"`
	DescriptionKo string          `json:"descriptionKo"`
	DescriptionEn string          `json:"descriptionEn"`
	Blocks        works.Blocks    `json:"blocks"`
}

// New returns an empty draft for a work that does not exist yet.
func New(id string, now time.Time) Draft {
	return Draft{
		ID:       id,
		Date:     now.UTC().Format(time.RFC3339),
		WorkType: works.TypeWork,
		Tags:     []string{},
		Blocks:   works.Blocks{},
	}
}

// FromWork seeds a draft from a stored work so it can be edited.
func FromWork(id string, w works.Work) Draft {
	tags := make([]string, len(w.Tags))
	copy(tags, w.Tags)
	blocks := w.Data.Clone()
	if blocks == nil {
		blocks = works.Blocks{}
	}
	return Draft{
		ID:            id,
		WorkID:        w.ID,
		Title:         w.Title,
		Subtitle:      w.Subtitle,
		Date:          w.Date,
		WorkType:      w.WorkType,
		Owner:         w.Owner,
		Tags:          tags,
		Thumbnail:     works.MediaItem{URL: w.Thumbnail},
		MainVideo:     works.MediaItem{URL: w.MainVideo},
		DescriptionKo: w.DescriptionKo,
		DescriptionEn: w.DescriptionEn,
		Blocks:        blocks,
	}
}

// Clone returns a deep copy, so an edit on it never leaks into d.
func (d Draft) Clone() Draft {
	out := d
	out.Tags = append([]string(nil), d.Tags...)
	out.Blocks = d.Blocks.Clone()
	return out
}

func (d Draft) Encode() ([]byte, error) {
	return json.Marshal(d)
}

func Decode(data []byte) (Draft, error) {
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, err
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.Blocks == nil {
		d.Blocks = works.Blocks{}
	}
	return d, nil
}

// IsNew reports whether submitting creates a work instead of updating one.
func (d Draft) IsNew() bool { return d.WorkID == "" }

// Validate checks what the backend needs before a submission is attempted.
func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Owner) == "" {
		missing = append(missing, "owner")
	}
	if _, ok := works.ParseDate(d.Date); !ok {
		missing = append(missing, "date")
	}
	if !d.WorkType.Valid() {
		missing = append(missing, "work type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing or invalid: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ---------- tags

func (d *Draft) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || tag == works.AllTag {
		return
	}
	for _, t := range d.Tags {
		if t == tag {
			return
		}
	}
	d.Tags = append(d.Tags, tag)
}

func (d *Draft) RemoveTag(tag string) {
	out := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		if t != tag {
			out = append(out, t)
		}
	}
	d.Tags = out
}

// AvailableTags lists the predefined tags not yet on the draft.
func (d Draft) AvailableTags() []string {
	out := make([]string, 0, len(works.PredefinedTags))
	for _, t := range works.PredefinedTags {
		taken := false
		for _, have := range d.Tags {
			if have == t {
				taken = true
				break
			}
		}
		if !taken {
			out = append(out, t)
		}
	}
	return out
}

// SetDateFromInput stores a YYYY-MM-DD form value as an ISO timestamp.
func (d *Draft) SetDateFromInput(day string) error {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(day))
	if err != nil {
		return fmt.Errorf("invalid date %q", day)
	}
	d.Date = t.UTC().Format(time.RFC3339)
	return nil
}

// DateInput renders the stored date for an <input type="date">.
func (d Draft) DateInput() string {
	t, ok := works.ParseDate(d.Date)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}
