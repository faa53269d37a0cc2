package works

import (
	"net/url"
	"sort"
	"strings"
)

// Filter is the listing selection derived from the request: an optional work
// type and a set of tags that must all be present on a work.
type Filter struct {
	Type WorkType
	Tags []string
}

// ParseFilter builds a filter from the "type" and repeated "tag" query values.
// Blank and duplicate tags are dropped, ALL clears the selection.
func ParseFilter(q url.Values) Filter {
	f := Filter{Type: ParseWorkType(q.Get("type"))}
	for _, tag := range q["tag"] {
		tag = strings.TrimSpace(tag)
		if tag == "" || f.Selected(tag) {
			continue
		}
		if tag == AllTag {
			f.Tags = nil
			continue
		}
		f.Tags = append(f.Tags, tag)
	}
	return f
}

func (f Filter) Selected(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Toggle returns the selection with tag added when absent and removed when
// present. ALL returns an empty selection.
func (f Filter) Toggle(tag string) Filter {
	if tag == AllTag {
		return f.ClearTags()
	}
	out := Filter{Type: f.Type}
	removed := false
	for _, t := range f.Tags {
		if t == tag {
			removed = true
			continue
		}
		out.Tags = append(out.Tags, t)
	}
	if !removed {
		out.Tags = append(out.Tags, tag)
	}
	return out
}

func (f Filter) ClearTags() Filter {
	return Filter{Type: f.Type}
}

// WithType keeps the tag selection and switches the work type.
func (f Filter) WithType(t WorkType) Filter {
	tags := make([]string, len(f.Tags))
	copy(tags, f.Tags)
	if len(tags) == 0 {
		tags = nil
	}
	return Filter{Type: t, Tags: tags}
}

// Matches applies the type filter (exact match unless no type is selected)
// and the tag filter (every selected tag must be on the work).
func (f Filter) Matches(w Work) bool {
	if f.Type != "" && w.WorkType != f.Type {
		return false
	}
	for _, tag := range f.Tags {
		if !w.HasTag(tag) {
			return false
		}
	}
	return true
}

// Query encodes the filter back into listing query values.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	for _, t := range f.Tags {
		q.Add("tag", t)
	}
	return q
}

// Href is the listing URL for this filter.
func (f Filter) Href() string {
	q := f.Query()
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// Apply returns the works passing f, most recent first. The input slice is
// not modified.
func Apply(all []Work, f Filter) []Work {
	out := make([]Work, 0, len(all))
	for _, w := range all {
		if f.Matches(w) {
			out = append(out, w)
		}
	}
	SortByDateDesc(out)
	return out
}

// SortByDateDesc orders works by date, newest first. Works whose date does
// not parse go last; ties keep their relative order.
func SortByDateDesc(ws []Work) {
	type keyed struct {
		ok   bool
		unix int64
		nano int
	}
	keys := make([]keyed, len(ws))
	idx := make([]int, len(ws))
	for i, w := range ws {
		idx[i] = i
		t, ok := ParseDate(w.Date)
		keys[i] = keyed{ok: ok, unix: t.Unix(), nano: t.Nanosecond()}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.ok != kb.ok {
			return ka.ok
		}
		if ka.unix != kb.unix {
			return ka.unix > kb.unix
		}
		return ka.nano > kb.nano
	})
	sorted := make([]Work, len(ws))
	for i, j := range idx {
		sorted[i] = ws[j]
	}
	copy(ws, sorted)
}
