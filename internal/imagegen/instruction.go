package imagegen

import (
	"fmt"
	"strings"

	"nanobanana/internal/domain"
)

// BuildInstruction synthesizes the system instruction sent with every attempt.
// Low consistency favours the creative prompt, high consistency favours the
// structure of the source photo.
func BuildInstruction(style domain.StyleTag, prompt string, consistency int) string {
	if style == "" {
		style = domain.DefaultStyle
	}
	parts := []string{
		"You are NanoBananaPi, an expert AI photo editor.",
		fmt.Sprintf("Apply the requested style: %s, and the following prompt: \"%s\".", style, prompt),
		fmt.Sprintf("The consistency setting is %d%%.", domain.ClampConsistency(consistency)),
		"Prioritize the creative instruction for low consistency and structural fidelity for high consistency.",
		"Output only the transformed image.",
	}
	return strings.Join(parts, " ")
}
