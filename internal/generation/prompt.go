package generation

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a numerology consultant. Answer in warm, " +
	"concrete language grounded strictly in the client profile you are given. " +
	"Do not invent codes or archetypes that are not in the profile."

var sectionInstructions = map[ContentType]string{
	ContentSummary:    "Write a short consultation summary of the client's profile.",
	ContentStrengths:  "Describe the client's key strengths and how to lean on them.",
	ContentWeaknesses: "Describe the client's growth areas and likely distortions, without judgement.",
	ContentConflicts:  "Describe the tensions between the codes in this profile and how they show up.",
	ContentPractices:  "Suggest daily practices that fit this profile.",
}

// buildUserPrompt renders the resolved archetypes into a profile block and
// appends the section instruction, or the raw user message for chat turns.
func buildUserPrompt(req Request) string {
	var b strings.Builder

	if req.ClientName != "" {
		fmt.Fprintf(&b, "Client: %s\n", req.ClientName)
	}
	if len(req.Archetypes) > 0 {
		b.WriteString("Profile:\n")
		for _, a := range req.Archetypes {
			fmt.Fprintf(&b, "- %s %d: %s", a.CodeType, a.Value, a.Title)
			if a.Description != "" {
				fmt.Fprintf(&b, " (%s)", a.Description)
			}
			b.WriteString("\n")
			if s := a.Strengths(); len(s) > 0 {
				fmt.Fprintf(&b, "  strengths: %s\n", strings.Join(s, ", "))
			}
			if c := a.Challenges(); len(c) > 0 {
				fmt.Fprintf(&b, "  challenges: %s\n", strings.Join(c, ", "))
			}
		}
	}

	b.WriteString("\n")
	if req.ContentType == ContentChat {
		b.WriteString(req.UserMessage)
	} else {
		b.WriteString(sectionInstructions[req.ContentType])
	}
	return b.String()
}
