package article

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxTitleLen is the maximum title length in runes
	MaxTitleLen = 50
	// MaxTextLen is the maximum body length in runes
	MaxTextLen = 200
)

// Topic represents the subject an article is filed under
type Topic string

const (
	TopicJavaScript Topic = "JavaScript"
	TopicReact      Topic = "React"
	TopicNode       Topic = "Node"
)

// Topics returns all topics in display order
func Topics() []Topic {
	return []Topic{TopicJavaScript, TopicReact, TopicNode}
}

// IsValid reports whether t is one of the known topics
func (t Topic) IsValid() bool {
	switch t {
	case TopicJavaScript, TopicReact, TopicNode:
		return true
	default:
		return false
	}
}

// Article is a server-confirmed article
type Article struct {
	ID    int    `json:"article_id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic Topic  `json:"topic"`
}

// Input is the payload used to create or update an article
type Input struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic Topic  `json:"topic"`
}

// Input returns the editable fields of the article
func (a Article) Input() Input {
	return Input{Title: a.Title, Text: a.Text, Topic: a.Topic}
}

// Complete reports whether every field is non-empty after trimming.
// This is the only check the client performs before submitting.
func (in Input) Complete() bool {
	return strings.TrimSpace(in.Title) != "" &&
		strings.TrimSpace(in.Text) != "" &&
		strings.TrimSpace(string(in.Topic)) != ""
}

// Normalize trims surrounding whitespace from every field
func (in Input) Normalize() Input {
	return Input{
		Title: strings.TrimSpace(in.Title),
		Text:  strings.TrimSpace(in.Text),
		Topic: Topic(strings.TrimSpace(string(in.Topic))),
	}
}

// Validate checks the full set of article rules enforced by the server
func (in Input) Validate() error {
	n := in.Normalize()
	switch {
	case n.Title == "":
		return fmt.Errorf("title is required")
	case utf8.RuneCountInString(n.Title) > MaxTitleLen:
		return fmt.Errorf("title must be at most %d characters", MaxTitleLen)
	case n.Text == "":
		return fmt.Errorf("text is required")
	case utf8.RuneCountInString(n.Text) > MaxTextLen:
		return fmt.Errorf("text must be at most %d characters", MaxTextLen)
	case !n.Topic.IsValid():
		return fmt.Errorf("topic must be one of JavaScript, React, Node")
	}
	return nil
}

// IndexOf returns the position of the article with the given id, or -1
func IndexOf(articles []Article, id int) int {
	for i, a := range articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the article with the given id
func Find(articles []Article, id int) (Article, bool) {
	if i := IndexOf(articles, id); i >= 0 {
		return articles[i], true
	}
	return Article{}, false
}
