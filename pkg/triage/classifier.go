// Package triage classifies inbound leaseholder email into issue
// categories before drafting a reply.
package triage

import (
	"strings"
)

// Category is a coarse issue label assigned to an email.
type Category string

const (
	CategoryLeak          Category = "leak"
	CategoryServiceCharge Category = "service_charge"
	CategoryNoise         Category = "noise"
	CategorySafety        Category = "safety"
	CategoryMaintenance   Category = "maintenance"
	CategoryParking       Category = "parking"
	CategoryCompliance    Category = "compliance"
	CategoryGeneral       Category = "general"
)

// Urgency labels attached alongside the category.
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// Sentiment labels.
const (
	SentimentAngry     = "angry"
	SentimentConcerned = "concerned"
	SentimentNeutral   = "neutral"
)

// Rule pairs a category with the substrings that trigger it. Rules is
// evaluated in order and the first match wins, so the priority chain
// (leak before service charge before noise, and so on) is data, not
// nested conditionals. "heating leak" lands on leak because leak is
// checked first.
type Rule struct {
	Category Category
	Keywords []string
}

// Rules is the ordered classification rule list. Order is load-bearing.
var Rules = []Rule{
	{CategoryLeak, []string{
		"leak", "leaking", "water ingress", "damp", "dripping", "flood",
		"ceiling stain", "water damage", "burst pipe", "overflow",
		"water coming through", "wet patch", "mould from water",
	}},
	{CategoryServiceCharge, []string{
		"service charge", "section 20", "s20", "major works",
		"budget", "arrears", "ground rent", "reserve fund", "sinking fund",
		"demand", "invoice", "year end accounts", "consultation notice",
	}},
	{CategoryNoise, []string{
		"noise", "noisy", "loud music", "banging", "shouting", "party",
		"antisocial", "anti-social", "disturbance", "nuisance",
	}},
	{CategorySafety, []string{
		"fire alarm", "fire door", "smoke", "gas smell", "gas leak",
		"unsafe", "hazard", "emergency light", "evacuation", "carbon monoxide",
		"security", "break-in", "broken lock", "intruder",
	}},
	{CategoryMaintenance, []string{
		"repair", "broken", "not working", "faulty", "heating", "boiler",
		"hot water", "lift", "elevator", "entry phone", "intercom",
		"lighting", "cleaning", "gardening", "decorating", "window",
	}},
	{CategoryParking, []string{
		"parking", "car park", "parked", "bay", "permit", "clamping",
		"bike store", "garage",
	}},
	{CategoryCompliance, []string{
		"compliance", "certificate", "eicr", "fire risk assessment", "fra",
		"gas safety", "asbestos", "legionella", "building safety",
		"ews1", "insurance",
	}},
}

// Result is the triage outcome for one email.
type Result struct {
	Category  Category   `json:"category"`
	Matched   []Category `json:"matched"`
	Urgency   string     `json:"urgency"`
	Sentiment string     `json:"sentiment"`
}

var urgentKeywords = []string{
	"urgent", "asap", "immediately", "emergency", "right now", "today",
	"flooding", "pouring", "no heating", "no hot water", "dangerous",
}

var criticalKeywords = []string{
	"gas leak", "gas smell", "fire", "carbon monoxide", "ceiling collapse",
	"flooding", "electrical sparking",
}

var angryKeywords = []string{
	"unacceptable", "disgrace", "appalling", "furious", "complaint",
	"solicitor", "ombudsman", "legal action", "fed up", "still waiting",
}

var concernedKeywords = []string{
	"worried", "concerned", "anxious", "scared", "please help",
}

// Classify runs subject+body through the rule list and derives urgency
// and sentiment labels. The zero-match outcome is the general category.
func Classify(subject, body string) Result {
	text := strings.ToLower(subject + "\n" + body)

	result := Result{
		Category:  CategoryGeneral,
		Urgency:   UrgencyMedium,
		Sentiment: SentimentNeutral,
	}

	for _, rule := range Rules {
		if containsAny(text, rule.Keywords) {
			result.Matched = append(result.Matched, rule.Category)
		}
	}
	if len(result.Matched) > 0 {
		result.Category = result.Matched[0]
	}

	switch {
	case containsAny(text, criticalKeywords):
		result.Urgency = UrgencyCritical
	case containsAny(text, urgentKeywords):
		result.Urgency = UrgencyHigh
	case result.Category == CategoryGeneral:
		result.Urgency = UrgencyLow
	}

	switch {
	case containsAny(text, angryKeywords):
		result.Sentiment = SentimentAngry
	case containsAny(text, concernedKeywords):
		result.Sentiment = SentimentConcerned
	}

	return result
}

// Tags returns the inbox tags for a triage result: the category plus
// an urgency tag for anything above medium.
func (r Result) Tags() []string {
	tags := []string{string(r.Category)}
	if r.Urgency == UrgencyHigh || r.Urgency == UrgencyCritical {
		tags = append(tags, r.Urgency)
	}
	if r.Sentiment == SentimentAngry {
		tags = append(tags, "complaint")
	}
	return tags
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
