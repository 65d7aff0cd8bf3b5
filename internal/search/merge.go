package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"dashsearch/internal/domain"
)

// List is the merged, ordered result sequence: tasks first, then notes
type List []domain.ResultItem

// Counts returns how many tasks and notes the list holds
func (l List) Counts() (tasks, notes int) {
	for _, item := range l {
		switch item.Kind {
		case domain.KindTask:
			tasks++
		case domain.KindNote:
			notes++
		}
	}
	return tasks, notes
}

// timeLayouts are the date formats produced by the backend (Python isoformat)
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Merge turns a {"todos": [...], "notes": [...]} payload into one list.
// Missing, null or non-array collections count as empty and invalid JSON
// yields an empty list. Entries without a usable id or title are dropped.
func Merge(raw []byte) List {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return List{}
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return List{}
	}

	merged := List{}
	eachEntry(root.Get("todos"), func(v gjson.Result) {
		if task, ok := decodeTask(v); ok {
			merged = append(merged, domain.ResultItem{Kind: domain.KindTask, Task: task})
		}
	})
	eachEntry(root.Get("notes"), func(v gjson.Result) {
		if note, ok := decodeNote(v); ok {
			merged = append(merged, domain.ResultItem{Kind: domain.KindNote, Note: note})
		}
	})
	return merged
}

func eachEntry(collection gjson.Result, fn func(gjson.Result)) {
	if !collection.IsArray() {
		return
	}
	collection.ForEach(func(_, v gjson.Result) bool {
		fn(v)
		return true
	})
}

func decodeTask(v gjson.Result) (*domain.Task, bool) {
	id, title, ok := identity(v)
	if !ok {
		return nil, false
	}
	return &domain.Task{
		ID:          id,
		Title:       title,
		Description: optString(v.Get("description")),
		Completed:   v.Get("completed").Type == gjson.True,
		Priority:    optString(v.Get("priority")),
		DueDate:     optTime(v.Get("due_date")),
		Tags:        tags(v.Get("tags")),
		CreatedAt:   optTime(v.Get("created_at")),
	}, true
}

func decodeNote(v gjson.Result) (*domain.Note, bool) {
	id, title, ok := identity(v)
	if !ok {
		return nil, false
	}
	return &domain.Note{
		ID:        id,
		Title:     title,
		Content:   optString(v.Get("content")),
		Category:  optString(v.Get("category")),
		Tags:      tags(v.Get("tags")),
		Color:     optString(v.Get("color")),
		Pinned:    v.Get("pinned").Type == gjson.True,
		UpdatedAt: optTime(v.Get("updated_at")),
	}, true
}

// identity validates the fields an entry cannot be shown without
func identity(v gjson.Result) (id, title string, ok bool) {
	if !v.IsObject() {
		return "", "", false
	}

	idField := v.Get("id")
	switch idField.Type {
	case gjson.Number:
		f := idField.Float()
		if f != float64(int64(f)) {
			return "", "", false
		}
		id = strconv.FormatInt(idField.Int(), 10)
	case gjson.String:
		id = strings.TrimSpace(idField.Str)
	}
	if id == "" {
		return "", "", false
	}

	titleField := v.Get("title")
	if titleField.Type != gjson.String {
		return "", "", false
	}
	return id, titleField.Str, true
}

func optString(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

func optTime(v gjson.Result) *time.Time {
	if v.Type != gjson.String || v.Str == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v.Str); err == nil {
			return &t
		}
	}
	return nil
}

// tags accepts a JSON array of strings or a comma-separated string
func tags(v gjson.Result) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch {
	case v.IsArray():
		v.ForEach(func(_, tag gjson.Result) bool {
			if tag.Type == gjson.String {
				add(tag.Str)
			}
			return true
		})
	case v.Type == gjson.String:
		for _, s := range strings.Split(v.Str, ",") {
			add(s)
		}
	}
	return out
}
