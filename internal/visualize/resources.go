package visualize

import "strings"

// ResourceKind is the coarse category of a resource line.
type ResourceKind string

const (
	KindBook    ResourceKind = "Book"
	KindCourse  ResourceKind = "Course"
	KindWebsite ResourceKind = "Website"
	KindOther   ResourceKind = "Other"
)

var kindOrder = []ResourceKind{KindBook, KindCourse, KindWebsite, KindOther}

// ResourceCount is the number of resources of one kind.
type ResourceCount struct {
	Kind  ResourceKind `json:"type"`
	Count int          `json:"count"`
}

// Classify puts a resource line into a kind. The first matching keyword
// wins, so "Book: Course notes" is a book.
func Classify(text string) ResourceKind {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "book"):
		return KindBook
	case strings.Contains(t, "course"):
		return KindCourse
	case strings.Contains(t, "website"):
		return KindWebsite
	default:
		return KindOther
	}
}

// BreakdownResources counts resources per kind in Book, Course, Website,
// Other order and leaves out kinds with no resources.
func BreakdownResources(resources []Resource) []ResourceCount {
	counts := make(map[ResourceKind]int, len(kindOrder))
	for _, r := range resources {
		counts[Classify(r.Text)]++
	}

	out := []ResourceCount{}
	for _, k := range kindOrder {
		if counts[k] > 0 {
			out = append(out, ResourceCount{Kind: k, Count: counts[k]})
		}
	}
	return out
}
