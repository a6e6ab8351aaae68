package form

import (
	"github.com/iammorganparry/articles/internal/article"
)

// Submission is what the article form emits. ID is set when editing.
type Submission struct {
	ID    *int
	Input article.Input
}

// IsUpdate reports whether the submission edits an existing article
func (s Submission) IsUpdate() bool {
	return s.ID != nil
}

// Source is the state the article form is derived from
type Source interface {
	Selected() (article.Article, bool)
	SelectedID() (int, bool)
	Version() uint64
}

// Article holds the article form fields.
//
// Fields are derived from (selection, collection): whenever either changes,
// Sync repopulates them from the selected article, or clears them when there
// is no selection or it no longer resolves. Between changes the user edits
// freely.
type Article struct {
	values article.Input

	editing bool
	lastID  *int
	lastVer uint64
	synced  bool
}

// Values returns the current field values
func (f *Article) Values() article.Input {
	return f.values
}

// SetTitle updates the title, truncated to article.MaxTitleLen runes
func (f *Article) SetTitle(v string) {
	f.values.Title = truncate(v, article.MaxTitleLen)
}

// SetText updates the text, truncated to article.MaxTextLen runes
func (f *Article) SetText(v string) {
	f.values.Text = truncate(v, article.MaxTextLen)
}

// SetTopic updates the topic
func (f *Article) SetTopic(t article.Topic) {
	f.values.Topic = t
}

// CycleTopic advances the topic through "" and every known topic
func (f *Article) CycleTopic(step int) {
	options := append([]article.Topic{""}, article.Topics()...)
	idx := 0
	for i, t := range options {
		if t == f.values.Topic {
			idx = i
			break
		}
	}
	idx = ((idx+step)%len(options) + len(options)) % len(options)
	f.values.Topic = options[idx]
}

// Editing reports whether the form targets an existing article
func (f *Article) Editing() bool {
	return f.editing
}

// Sync re-derives the fields when the selection or the collection changed
// since the last call. Without a selected article the fields are cleared
// only when edit mode ends, so a create draft survives collection changes.
// It returns true when the fields were rewritten.
func (f *Article) Sync(src Source) bool {
	id, hasID := src.SelectedID()
	ver := src.Version()
	if f.synced && ver == f.lastVer && sameID(f.lastID, id, hasID) {
		return false
	}

	first := !f.synced
	f.synced = true
	f.lastVer = ver
	f.lastID = nil
	if hasID {
		f.lastID = &id
	}

	if a, ok := src.Selected(); ok {
		f.values = a.Input()
		f.editing = true
		return true
	}
	if !first && !f.editing {
		return false
	}
	f.values = article.Input{}
	f.editing = false
	return true
}

func sameID(last *int, id int, hasID bool) bool {
	if last == nil {
		return !hasID
	}
	return hasID && *last == id
}

// CanSubmit reports whether every field is non-empty after trimming
func (f *Article) CanSubmit() bool {
	return f.values.Complete()
}

// Submit emits an update when editing and a create otherwise, then resets
// the fields whatever the outcome of the request turns out to be.
func (f *Article) Submit(src Source) (Submission, bool) {
	if !f.CanSubmit() {
		return Submission{}, false
	}

	sub := Submission{Input: f.values}
	if a, ok := src.Selected(); ok {
		id := a.ID
		sub.ID = &id
	}
	f.Reset()
	return sub, true
}

// Reset clears all fields
func (f *Article) Reset() {
	f.values = article.Input{}
}
