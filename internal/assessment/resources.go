package assessment

import "fmt"

// RecommendedResources returns the study suggestions for a topic at the
// given skill level. Every level maps to exactly three entries.
func RecommendedResources(topic string, level SkillLevel) []string {
	var templates [3]string
	switch level {
	case SkillBeginner:
		templates = [3]string{
			`"%s for Beginners" - Online course`,
			`"Introduction to %s" - Tutorial`,
			`"%s Fundamentals" - Interactive practice`,
		}
	case SkillIntermediate:
		templates = [3]string{
			`"Practical %s" - Project-based learning`,
			`"%s Deep Dive" - Advanced tutorial`,
			`"Real-world %s" - Case studies`,
		}
	case SkillAdvanced, SkillExpert:
		templates = [3]string{
			`"Mastering %s" - Expert guide`,
			`"Advanced %s Techniques" - Specialized course`,
			`"%s in Production" - Best practices`,
		}
	default:
		templates = [3]string{
			`"%s Basics Revisited" - Review course`,
			`"%s Practice Problems" - Exercise set`,
			`"%s Step by Step" - Guided learning`,
		}
	}

	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = fmt.Sprintf(t, topic)
	}
	return out
}
