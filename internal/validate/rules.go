package validate

// Rule is the declarative form of a field check. The same table drives the
// server-side validator and is served to clients so a browser pre-check
// cannot drift from what the server enforces.
type Rule struct {
	Field    string `json:"field"`
	Required bool   `json:"required"`
	Pattern  string `json:"pattern,omitempty"`
	MinLen   int    `json:"min_len,omitempty"`
	MaxToday bool   `json:"max_today,omitempty"`
	MinDate  string `json:"min_date,omitempty"`
	Unique   bool   `json:"unique,omitempty"`
	Message  string `json:"message"`
}

// EntryRules returns the rule table for a trash entry submission.
func EntryRules(strict bool) []Rule {
	dateRule := Rule{
		Field:    "date",
		Required: true,
		MaxToday: true,
		Message:  "Date cannot be in the future.",
	}
	if strict {
		dateRule.MinDate = minEntryDate
	}
	return []Rule{
		{Field: "type", Required: true, Pattern: lettersPattern, Message: "Type must contain only letters and spaces."},
		{Field: "quantity", Required: true, Message: "Quantity must be a positive number."},
		{Field: "location", Required: true, MinLen: minLocationLen, Message: "Location must be at least 3 characters long."},
		dateRule,
		{Field: "collector", Required: true, Pattern: lettersPattern, Unique: true, Message: "Collector name must contain only letters and spaces."},
	}
}
