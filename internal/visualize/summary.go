package visualize

// Visualization is everything a client needs to draw the three charts.
type Visualization struct {
	Document  *Document       `json:"document"`
	Timeline  Timeline        `json:"timeline"`
	Resources []ResourceCount `json:"resourceBreakdown"`
}

// Summarize parses text and derives the timeline and resource breakdown.
func Summarize(text string) *Visualization {
	doc := Parse(text)
	return &Visualization{
		Document:  doc,
		Timeline:  BuildTimeline(doc.TimeEstimates),
		Resources: BreakdownResources(doc.Resources),
	}
}

// Empty reports whether the text had no headings, estimates or resources.
func (v *Visualization) Empty() bool {
	return len(v.Document.Topics) == 0 && len(v.Document.TimeEstimates) == 0 && len(v.Document.Resources) == 0
}
