// Package visualize turns a heading-structured learning path into a topic
// tree, a cumulative timeline and a resource breakdown.
package visualize

import (
	"strings"
)

// UnknownScope tags time and resource lines seen before any heading.
const UnknownScope = "Unknown"

const timeLabel = "Estimated time:"

var resourceLabels = []string{"Resources:", "Book:", "Course:", "Website:"}

// Document is the parsed form of a learning path.
type Document struct {
	Topics        []*Topic       `json:"topics"`
	TimeEstimates []TimeEstimate `json:"timeEstimates"`
	Resources     []Resource     `json:"resources"`
}

// Topic is a level-one heading.
type Topic struct {
	Title     string      `json:"title"`
	Time      string      `json:"time,omitempty"`
	Resources []string    `json:"resources,omitempty"`
	Subtopics []*Subtopic `json:"subtopics"`
}

// Subtopic is a level-two heading under a Topic.
type Subtopic struct {
	Title     string   `json:"title"`
	Time      string   `json:"time,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

// TimeEstimate is a raw time string and the heading it belongs to.
type TimeEstimate struct {
	Scope string `json:"scope"`
	Time  string `json:"time"`
}

// Resource is a resource line and the heading it belongs to.
type Resource struct {
	Scope string `json:"scope"`
	Text  string `json:"text"`
}

// Parse reads text a line at a time. Time and resource lines attach to the
// most recently opened heading, so two headings with the same title keep
// their data apart.
func Parse(text string) *Document {
	doc := &Document{
		Topics:        []*Topic{},
		TimeEstimates: []TimeEstimate{},
		Resources:     []Resource{},
	}

	var topic *Topic
	var sub *Subtopic

	scope := func() string {
		switch {
		case sub != nil:
			return sub.Title
		case topic != nil:
			return topic.Title
		default:
			return UnknownScope
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		switch {
		case strings.HasPrefix(line, "# "):
			topic = &Topic{Title: strings.TrimSpace(line[2:]), Subtopics: []*Subtopic{}}
			sub = nil
			doc.Topics = append(doc.Topics, topic)

		case strings.HasPrefix(line, "## "):
			if topic == nil {
				continue
			}
			sub = &Subtopic{Title: strings.TrimSpace(line[3:])}
			topic.Subtopics = append(topic.Subtopics, sub)

		case strings.Contains(line, timeLabel):
			_, after, _ := strings.Cut(line, timeLabel)
			t := strings.TrimSpace(after)
			doc.TimeEstimates = append(doc.TimeEstimates, TimeEstimate{Scope: scope(), Time: t})
			switch {
			case sub != nil:
				sub.Time = t
			case topic != nil:
				topic.Time = t
			}

		case isResourceLine(line):
			r := stripBullet(strings.TrimSpace(line))
			doc.Resources = append(doc.Resources, Resource{Scope: scope(), Text: r})
			switch {
			case sub != nil:
				sub.Resources = append(sub.Resources, r)
			case topic != nil:
				topic.Resources = append(topic.Resources, r)
			}
		}
	}

	return doc
}

func isResourceLine(line string) bool {
	for _, l := range resourceLabels {
		if strings.Contains(line, l) {
			return true
		}
	}
	return false
}

func stripBullet(s string) string {
	if len(s) >= 2 && (s[0] == '-' || s[0] == '*') && (s[1] == ' ' || s[1] == '\t') {
		return s[2:]
	}
	return s
}
