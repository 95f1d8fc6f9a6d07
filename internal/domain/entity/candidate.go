package entity

import "strings"

// Candidate is a clickable element that plausibly opens a login flow.
type Candidate struct {
	Selector  string `json:"selector"`
	Text      string `json:"text"`
	AriaLabel string `json:"aria_label"`
	HTML      string `json:"html,omitempty"`
}

// SynthesizeSelector builds a best-effort CSS selector from tag, id and
// class list. The result is not guaranteed to be unique on the page.
func SynthesizeSelector(tag, id, class string) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(strings.TrimSpace(tag)))

	if id = strings.TrimSpace(id); id != "" {
		sb.WriteString("#")
		sb.WriteString(id)
	}

	for _, c := range strings.Fields(class) {
		sb.WriteString(".")
		sb.WriteString(c)
	}

	return sb.String()
}
