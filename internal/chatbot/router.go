// Package chatbot classifies free-text queries about a caller's complaints
// into canned responses. It is a pure function over the message and the
// caller's complaint list: ordered intents, first match wins.
package chatbot

import (
	"fmt"
	"regexp"
	"strings"

	"improvemycity/internal/model"
)

const (
	maxListed   = 10
	maxSearched = 5
	dateLayout  = "02 Jan 2006"
)

type intent struct {
	match   func(query string) bool
	respond func(query string, complaints []model.Complaint) string
}

var (
	listRe        = regexp.MustCompile(`\b(status|check|list|show|my complaints?|all|view)\b`)
	listExcludeRe = regexp.MustCompile(`\b(latest|last|recent|pending|progress|resolved|about|find|summary|overview|total|count|stats|statistics)\b`)
	latestRe      = regexp.MustCompile(`\b(latest|last|recent|newest)\b`)
	countRe       = regexp.MustCompile(`\b(pending|in progress|resolved|how many)\b`)
	searchRe      = regexp.MustCompile(`\b(find|search|about|regarding|look for)\b`)
	summaryRe     = regexp.MustCompile(`\b(summary|overview|total|count|statistics|stats)\b`)

	pendingRe    = regexp.MustCompile(`\bpending\b`)
	inProgressRe = regexp.MustCompile(`\bin progress\b`)
	resolvedRe   = regexp.MustCompile(`\bresolved\b`)

	stopwordRe   = regexp.MustCompile(`\b(find|search|about|regarding|look for|my|complaints?|status|show|me|the|a|an)\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// The generic list intent carries an exclusion guard so that qualified
// queries ("latest", "pending", "about potholes") fall through to the more
// specific intents below it.
var intents = []intent{
	{
		match:   func(q string) bool { return listRe.MatchString(q) && !listExcludeRe.MatchString(q) },
		respond: respondList,
	},
	{
		match:   func(q string) bool { return latestRe.MatchString(q) },
		respond: respondLatest,
	},
	{
		match:   func(q string) bool { return countRe.MatchString(q) },
		respond: respondCount,
	},
	{
		match:   func(q string) bool { return searchRe.MatchString(q) },
		respond: respondSearch,
	},
	{
		match:   func(q string) bool { return summaryRe.MatchString(q) },
		respond: respondSummary,
	},
}

// Respond synthesizes an answer to message from the caller's own complaints.
// No state, no side effects; the same inputs always produce the same output.
func Respond(message string, complaints []model.Complaint) string {
	query := strings.ToLower(strings.TrimSpace(message))

	for _, it := range intents {
		if it.match(query) {
			return it.respond(query, complaints)
		}
	}

	return helpText
}

const helpText = `Hi! I'm your complaint assistant. I can help you with:

"Check my complaints" - list all your complaints
"Show latest complaint" - your most recent complaint
"How many pending complaints?" - count by status
"Find complaints about [keyword]" - search your complaints
"Show summary" - overall statistics

Just type what you need.`

func respondList(_ string, complaints []model.Complaint) string {
	if len(complaints) == 0 {
		return "You haven't submitted any complaints yet. Use the complaint form to create one."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d complaint(s):\n\n", len(complaints))

	for i, c := range complaints {
		if i == maxListed {
			break
		}
		fmt.Fprintf(&b, "%d. %q\n   Status: %s\n   Created: %s\n\n",
			i+1, c.Title, c.Status, c.CreatedAt.Format(dateLayout))
	}

	if len(complaints) > maxListed {
		fmt.Fprintf(&b, "... and %d more.", len(complaints)-maxListed)
	}

	return strings.TrimSpace(b.String())
}

func respondLatest(_ string, complaints []model.Complaint) string {
	if len(complaints) == 0 {
		return "You haven't submitted any complaints yet."
	}

	latest := complaints[0]
	address := latest.Location.Address
	if address == "" {
		address = "Not specified"
	}

	var b strings.Builder
	b.WriteString("Your latest complaint:\n\n")
	fmt.Fprintf(&b, "Title: %q\n", latest.Title)
	fmt.Fprintf(&b, "Status: %s\n", latest.Status)
	fmt.Fprintf(&b, "Created: %s\n", latest.CreatedAt.Format(dateLayout))
	fmt.Fprintf(&b, "Location: %s\n\n", address)

	if latest.AdminComment != "" {
		fmt.Fprintf(&b, "Admin comment: %q", latest.AdminComment)
	} else {
		b.WriteString("No admin comments yet.")
	}

	return b.String()
}

func respondCount(query string, complaints []model.Complaint) string {
	var target model.ComplaintStatus
	switch {
	case pendingRe.MatchString(query):
		target = model.StatusPending
	case inProgressRe.MatchString(query):
		target = model.StatusInProgress
	case resolvedRe.MatchString(query):
		target = model.StatusResolved
	}

	if target != "" {
		count := 0
		for _, c := range complaints {
			if c.Status == target {
				count++
			}
		}
		return fmt.Sprintf("You have %d %s complaint(s).", count, strings.ToLower(string(target)))
	}

	pending, inProgress, resolved := countByStatus(complaints)
	return fmt.Sprintf("Your complaint status breakdown:\n\nPending: %d\nIn Progress: %d\nResolved: %d\n\nTotal: %d",
		pending, inProgress, resolved, len(complaints))
}

func respondSearch(query string, complaints []model.Complaint) string {
	keywords := stopwordRe.ReplaceAllString(query, "")
	keywords = strings.TrimSpace(whitespaceRe.ReplaceAllString(keywords, " "))

	if len(keywords) < 2 {
		return `Please provide a keyword to search for. For example: "Find complaints about pothole"`
	}

	var matches []model.Complaint
	for _, c := range complaints {
		if strings.Contains(strings.ToLower(c.Title), keywords) ||
			strings.Contains(strings.ToLower(c.Description), keywords) ||
			strings.Contains(strings.ToLower(string(c.Category)), keywords) {
			matches = append(matches, c)
		}
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No complaints found matching %q.\n\nTry searching for: pothole, garbage, streetlight, or another keyword.", keywords)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d complaint(s) matching %q:\n\n", len(matches), keywords)

	for i, c := range matches {
		if i == maxSearched {
			break
		}
		fmt.Fprintf(&b, "%d. %q\n   Status: %s\n   Category: %s\n\n", i+1, c.Title, c.Status, c.Category)
	}

	return strings.TrimSpace(b.String())
}

func respondSummary(_ string, complaints []model.Complaint) string {
	pending, inProgress, resolved := countByStatus(complaints)

	rate := 0
	if len(complaints) > 0 {
		rate = resolved * 100 / len(complaints)
	}

	return fmt.Sprintf("Your complaint summary:\n\nTotal complaints: %d\n\nPending: %d\nIn Progress: %d\nResolved: %d\n\nResolution rate: %d%%",
		len(complaints), pending, inProgress, resolved, rate)
}

func countByStatus(complaints []model.Complaint) (pending, inProgress, resolved int) {
	for _, c := range complaints {
		switch c.Status {
		case model.StatusPending:
			pending++
		case model.StatusInProgress:
			inProgress++
		case model.StatusResolved:
			resolved++
		}
	}
	return pending, inProgress, resolved
}
