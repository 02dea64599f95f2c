package slides

import (
	"fmt"
	"strings"

	"lecturenotes-be/pkg/summarizer"
)

// RenderMarkdown flattens a structured outline into the markdown body stored
// on the resulting note.
func RenderMarkdown(outline *summarizer.SlideOutline) string {
	var sb strings.Builder

	if overview := strings.TrimSpace(outline.Overview); overview != "" {
		sb.WriteString("## Overview\n\n")
		sb.WriteString(overview)
		sb.WriteString("\n\n")
	}

	for _, section := range outline.Sections {
		title := strings.TrimSpace(section.Title)
		if title == "" && len(section.Bullets) == 0 {
			continue
		}
		if title != "" {
			fmt.Fprintf(&sb, "## %s\n\n", title)
		}
		for _, bullet := range section.Bullets {
			if b := strings.TrimSpace(bullet); b != "" {
				fmt.Fprintf(&sb, "- %s\n", b)
			}
		}
		sb.WriteString("\n")
	}

	if len(outline.Takeaways) > 0 {
		sb.WriteString("## Key Takeaways\n\n")
		for _, takeaway := range outline.Takeaways {
			if t := strings.TrimSpace(takeaway); t != "" {
				fmt.Fprintf(&sb, "- %s\n", t)
			}
		}
	}

	return strings.TrimSpace(sb.String())
}
