package prompts

import (
	"fmt"
	"strings"

	"github.com/blociq/blociq-engine/pkg/triage"
)

// SystemMessage is the role preamble shared by every drafting route.
const SystemMessage = `You are BlocIQ, an assistant for UK leasehold block management professionals. ` +
	`You draft clear, professionally worded replies to leaseholder correspondence on behalf of the managing agent. ` +
	`Use British English. Rely only on the property records provided; where records are missing, say what needs to be checked instead of inventing details. ` +
	`Never admit liability or commit to expenditure on the freeholder's behalf.`

// ReplyInput carries everything the assembler interpolates into one
// drafting prompt.
type ReplyInput struct {
	Question    string
	Triage      triage.Result
	Context     *EntityContext
	SenderName  string
	AgencyStyle string // optional house-style note appended to the instruction block
}

// BuildReplyPrompt assembles the full instruction block for a reply
// draft: policy section for the triaged category, the aggregated
// records, triage labels, and the user's literal question last.
func (s *Store) BuildReplyPrompt(in ReplyInput) string {
	var b strings.Builder

	b.WriteString(s.Policy(in.Triage.Category))
	b.WriteString("\n")

	if in.Context != nil {
		b.WriteString(in.Context.Render())
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "TRIAGE: category=%s urgency=%s sentiment=%s\n",
		in.Triage.Category, in.Triage.Urgency, in.Triage.Sentiment)

	if in.SenderName != "" {
		fmt.Fprintf(&b, "Address the correspondent as %s.\n", in.SenderName)
	}
	if in.AgencyStyle != "" {
		b.WriteString(in.AgencyStyle + "\n")
	}

	b.WriteString("\nQUESTION:\n")
	b.WriteString(in.Question)

	return b.String()
}

// BuildDocumentSummaryPrompt asks for a structured summary of a
// document, with the JSON contract stated explicitly so the reply can
// be parsed by llm.ExtractJSON.
func BuildDocumentSummaryPrompt(documentText string) string {
	var b strings.Builder

	b.WriteString("Summarise the following property document for a block manager.\n")
	b.WriteString("Respond with a short narrative followed by a fenced ```json block matching:\n")
	b.WriteString(`{"summary": string, "document_type": string, "key_dates": [string], "actions": [string]}`)
	b.WriteString("\n\nDOCUMENT:\n")
	b.WriteString(documentText)

	return b.String()
}

// BuildComplaintPrompt asks for a complaint acknowledgement draft plus
// structured complaint metadata in a fenced JSON block.
func BuildComplaintPrompt(question string, ctx *EntityContext) string {
	var b strings.Builder

	b.WriteString("The correspondence below is a formal complaint. Draft an acknowledgement that follows the agency's complaints procedure (acknowledge within 3 working days, full response within 10).\n")
	b.WriteString("After the draft, include a fenced ```json block matching:\n")
	b.WriteString(`{"severity": string, "topics": [string], "escalate": bool}`)
	b.WriteString("\n\n")

	if ctx != nil {
		b.WriteString(ctx.Render())
		b.WriteString("\n")
	}

	b.WriteString("COMPLAINT:\n")
	b.WriteString(question)

	return b.String()
}

// SuggestedQueries returns follow-up prompts for the Outlook pane,
// keyed off the triaged category.
func SuggestedQueries(category triage.Category) []string {
	switch category {
	case triage.CategoryLeak:
		return []string{
			"Is the leak source demised or communal?",
			"Show recent leak reports for this building",
			"What is the insurance excess for this building?",
		}
	case triage.CategoryServiceCharge:
		return []string{
			"What stage is the Section 20 consultation at?",
			"Show this year's service charge budget",
			"What is the leaseholder's current balance?",
		}
	case triage.CategoryCompliance:
		return []string{
			"Which compliance items are overdue?",
			"When is the next fire risk assessment due?",
		}
	default:
		return []string{
			"Show compliance status for this building",
			"Show recent correspondence for this building",
			"Draft a holding reply",
		}
	}
}
