package langchain

import (
	"strings"

	"github.com/tmc/langchaingo/tools"

	"github.com/guardrail-ai/guardrail/internal/risk"
)

// dangerousToolKeywords flag tool names or descriptions that grant
// capabilities worth a second look before deployment.
var dangerousToolKeywords = []string{
	"execute", "shell", "command", "delete", "drop",
	"write", "file", "database", "sql", "eval",
}

// permissivePhrases flag prompt templates that disable the model's own
// guardrails.
var permissivePhrases = []string{
	"unrestricted", "no limitations", "ignore safety", "without restrictions",
}

// AgentProfile is the static configuration of an agent under inspection.
type AgentProfile struct {
	Tools          []tools.Tool
	PromptTemplate string
	HasMemory      bool
	MemoryType     string
}

// ToolInfo is the inspection view of one declared tool.
type ToolInfo struct {
	Name        string
	Description string
	Dangerous   bool
}

// Risk is one configuration-level concern found during inspection.
type Risk struct {
	Category    string
	Severity    string
	Description string
	Details     []string
}

// InspectionReport summarizes the security posture of an agent's static
// configuration, before any payload ever flows.
type InspectionReport struct {
	Tools     []ToolInfo
	HasMemory bool
	Risks     []Risk
	RiskLevel risk.Level
}

// Inspect analyzes an agent's declared tools, memory, and prompt template
// for configuration-level risks.
func Inspect(profile AgentProfile) InspectionReport {
	report := InspectionReport{
		HasMemory: profile.HasMemory,
		RiskLevel: risk.LevelLow,
	}

	var dangerous []string
	for _, t := range profile.Tools {
		info := ToolInfo{
			Name:        t.Name(),
			Description: t.Description(),
			Dangerous:   isDangerousTool(t.Name(), t.Description()),
		}
		if info.Dangerous {
			dangerous = append(dangerous, info.Name)
		}
		report.Tools = append(report.Tools, info)
	}

	if len(dangerous) > 0 {
		report.Risks = append(report.Risks, Risk{
			Category:    "dangerous-tools",
			Severity:    "HIGH",
			Description: "agent declares tools with destructive or code-execution capabilities",
			Details:     dangerous,
		})
		report.RiskLevel = risk.LevelHigh
	}

	if profile.HasMemory {
		report.Risks = append(report.Risks, Risk{
			Category:    "memory-enabled",
			Severity:    "MEDIUM",
			Description: "agent memory may carry sensitive data across turns",
			Details:     []string{profile.MemoryType},
		})
		if report.RiskLevel == risk.LevelLow {
			report.RiskLevel = risk.LevelMedium
		}
	}

	prompt := strings.ToLower(profile.PromptTemplate)
	for _, phrase := range permissivePhrases {
		if strings.Contains(prompt, phrase) {
			report.Risks = append(report.Risks, Risk{
				Category:    "permissive-prompt",
				Severity:    "HIGH",
				Description: "prompt template contains overly permissive language",
				Details:     []string{phrase},
			})
			report.RiskLevel = risk.LevelHigh
			break
		}
	}

	return report
}

func isDangerousTool(name, description string) bool {
	n := strings.ToLower(name)
	d := strings.ToLower(description)
	for _, kw := range dangerousToolKeywords {
		if strings.Contains(n, kw) || strings.Contains(d, kw) {
			return true
		}
	}
	return false
}
