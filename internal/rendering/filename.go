package rendering

import (
	"strings"
	"unicode"
)

const fileNamePrefix = "learning_roadmap"

// FileName returns the output image name for a topic, e.g.
// "Machine Learning" -> learning_roadmap_machine_learning.png
func FileName(topic string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(topic) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '_':
			b.WriteRune('_')
		case r == '-':
			b.WriteRune('-')
		}
	}

	slug := strings.Trim(b.String(), "_-")
	if slug == "" {
		return fileNamePrefix + ".png"
	}
	return fileNamePrefix + "_" + slug + ".png"
}
