package prompts

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/blociq/blociq-engine/pkg/models"
)

// NoRecordsNote is interpolated when entity resolution found nothing;
// the model is told explicitly rather than left to invent records.
const NoRecordsNote = "No matched records in system."

// EntityContext aggregates everything the resolver and context queries
// produced for one request. Missing lists which sources failed to load,
// mirrored into the response's degraded metadata.
type EntityContext struct {
	Building     *models.Building
	Units        []*models.Unit
	Leaseholders []*models.Leaseholder
	Compliance   *models.ComplianceSummary
	History      []*models.CommunicationLog
	Missing      []string
}

// Degraded reports whether any data-gathering step failed.
func (c *EntityContext) Degraded() bool {
	return len(c.Missing) > 0
}

// Render produces the human-readable context section of the prompt.
func (c *EntityContext) Render() string {
	var b strings.Builder

	b.WriteString("PROPERTY RECORDS:\n")

	if c.Building == nil {
		b.WriteString(NoRecordsNote + "\n")
	} else {
		fmt.Fprintf(&b, "Building: %s", c.Building.Name)
		if c.Building.Address != "" {
			fmt.Fprintf(&b, ", %s", c.Building.Address)
		}
		if c.Building.IsHRB {
			b.WriteString(" (Higher-Risk Building)")
		}
		b.WriteString("\n")

		if len(c.Units) > 0 {
			fmt.Fprintf(&b, "Matched %d %s:\n", len(c.Units), countNoun("unit", len(c.Units)))
			for _, u := range c.Units {
				fmt.Fprintf(&b, "- %s", u.UnitNumber)
				if u.Floor != "" {
					fmt.Fprintf(&b, " (floor %s)", u.Floor)
				}
				b.WriteString("\n")
			}
		}

		if len(c.Leaseholders) > 0 {
			fmt.Fprintf(&b, "%d %s on record:\n", len(c.Leaseholders), countNoun("leaseholder", len(c.Leaseholders)))
			for _, lh := range c.Leaseholders {
				fmt.Fprintf(&b, "- %s", lh.Name)
				if lh.Email != "" {
					fmt.Fprintf(&b, " <%s>", lh.Email)
				}
				b.WriteString("\n")
			}
		}
	}

	if c.Compliance != nil && c.Compliance.Total > 0 {
		fmt.Fprintf(&b, "\nCOMPLIANCE: %d tracked %s, %d overdue, %d due soon\n",
			c.Compliance.Total, countNoun("item", c.Compliance.Total),
			c.Compliance.Overdue, c.Compliance.DueSoon)
		for _, item := range c.Compliance.Items {
			fmt.Fprintf(&b, "- %s: %s", item.ItemName, item.Status)
			if item.DueDate != nil {
				fmt.Fprintf(&b, " (due %s)", item.DueDate.Format("2 January 2006"))
			}
			b.WriteString("\n")
		}
	}

	if len(c.History) > 0 {
		fmt.Fprintf(&b, "\nRECENT CORRESPONDENCE (%d %s):\n",
			len(c.History), countNoun("entry", len(c.History)))
		for _, h := range c.History {
			fmt.Fprintf(&b, "- [%s] %s: %s\n",
				h.CreatedAt.Format("02 Jan 2006"), h.Subject, h.Summary)
		}
	}

	if len(c.Missing) > 0 {
		fmt.Fprintf(&b, "\nNOTE: the following records could not be loaded: %s. Do not assume their contents.\n",
			strings.Join(c.Missing, ", "))
	}

	return b.String()
}

// countNoun pluralizes a noun when count is not one.
func countNoun(noun string, count int) string {
	if count == 1 {
		return noun
	}
	return inflection.Plural(noun)
}
