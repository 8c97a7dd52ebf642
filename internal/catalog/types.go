package catalog

// Category classifies a detection pattern by the attack technique it covers.
// The set is closed: catalog load rejects patterns outside it.
type Category string

const (
	CategoryPromptInjection     Category = "prompt-injection"
	CategorySQLInjection        Category = "sql-injection"
	CategoryCommandInjection    Category = "command-injection"
	CategoryJailbreak           Category = "jailbreak"
	CategoryDataExfiltration    Category = "data-exfiltration"
	CategoryFileManipulation    Category = "file-manipulation"
	CategoryNetworkExploitation Category = "network-exploitation"
	CategoryContextManipulation Category = "context-manipulation"
	CategoryToolMisuse          Category = "tool-misuse"
	CategorySystemExtraction    Category = "system-extraction"
)

// Categories lists every valid category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryPromptInjection,
		CategorySQLInjection,
		CategoryCommandInjection,
		CategoryJailbreak,
		CategoryDataExfiltration,
		CategoryFileManipulation,
		CategoryNetworkExploitation,
		CategoryContextManipulation,
		CategoryToolMisuse,
		CategorySystemExtraction,
	}
}

// IsValid reports whether the category is one of the closed set.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Severity ranks a pattern's inherent danger.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Severities lists the valid severities from most to least dangerous.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

// IsValid reports whether the severity is one of the known ranks.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// MatchKind selects how a pattern's expression is interpreted.
type MatchKind string

const (
	// MatchRegex treats the expression as a regular expression.
	MatchRegex MatchKind = "regex"
	// MatchKeyword treats the expression as a literal phrase.
	MatchKeyword MatchKind = "keyword"
)
