package triage

import (
	"regexp"
	"strings"
)

// signOffPattern matches common sign-offs followed by a name, e.g.
// "Many thanks, Jane" or "Kind regards,\nJohn".
var signOffPattern = regexp.MustCompile(`(?i:many thanks|thank you|thanks|kind regards|best regards|best wishes|yours sincerely|yours faithfully|sincerely|regards|cheers|best)[,\s]+([A-Z][a-z]+)`)

// SenderFirstName resolves the correspondent's first name for the reply
// greeting. A known sender name always wins (first token); otherwise the
// body is scanned for a sign-off. Returns "" when neither yields a name.
func SenderFirstName(senderName, body string) string {
	if name := strings.TrimSpace(senderName); name != "" {
		return strings.Fields(name)[0]
	}

	matches := signOffPattern.FindStringSubmatch(body)
	if len(matches) >= 2 {
		return matches[1]
	}

	return ""
}
