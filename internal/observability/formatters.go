// Package observability provides formatted output utilities for the stats CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/jobtrackr/internal/analytics"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the stats command
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDashboard outputs a human-readable summary of the dashboard stats.
func (p *Printer) PrintDashboard(stats *analytics.DashboardStats) {
	if stats == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total applications:  %d\n", stats.TotalApplications))
	sb.WriteString(fmt.Sprintf("Last 30 days:        %d\n", stats.ApplicationsLast30Days))
	sb.WriteString(fmt.Sprintf("Success rate:        %.2f%%\n", stats.SuccessRate))
	sb.WriteString(fmt.Sprintf("Response rate:       %.2f%%\n", stats.ResponseRate))
	sb.WriteString(fmt.Sprintf("Avg days in pipeline: %d\n", stats.AverageDaysInPipeline))

	if len(stats.StatusBreakdown) > 0 {
		sb.WriteString("\nBy status:\n")
		statuses := make([]string, 0, len(stats.StatusBreakdown))
		for status := range stats.StatusBreakdown {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			sb.WriteString(fmt.Sprintf("  • %-15s %d\n", status, stats.StatusBreakdown[status]))
		}
	}

	if len(stats.TopCompanies) > 0 {
		sb.WriteString("\nTop companies:\n")
		count := min(len(stats.TopCompanies), maxItemsToShow)
		for i := 0; i < count; i++ {
			c := stats.TopCompanies[i]
			sb.WriteString(fmt.Sprintf("  • %s (%d)\n", c.Company, c.Count))
		}
	}

	p.printBox("DASHBOARD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs the most requested skills.
func (p *Printer) PrintSkills(skills []analytics.SkillCount) {
	if len(skills) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(skills), 10)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("#%-3d %-30s %d\n", i+1, skills[i].Skill, skills[i].Count))
	}
	if len(skills) > 10 {
		sb.WriteString(fmt.Sprintf("\n... and %d more skills", len(skills)-10))
	}

	p.printBox("SKILLS IN DEMAND", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSalary outputs salary statistics over disclosed ranges.
func (p *Printer) PrintSalary(insights *analytics.SalaryInsights) {
	if insights == nil || insights.TotalWithSalary == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Postings with salary: %d\n", insights.TotalWithSalary))
	sb.WriteString(fmt.Sprintf("Average range:        %d - %d\n", insights.AverageMin, insights.AverageMax))
	sb.WriteString(fmt.Sprintf("Lowest minimum:       %d\n", insights.Lowest))
	sb.WriteString(fmt.Sprintf("Highest maximum:      %d", insights.Highest))

	p.printBox("SALARY INSIGHTS", sb.String())
}

// PrintResponseTime outputs first-response timing statistics.
func (p *Printer) PrintResponseTime(stats *analytics.ResponseTimeStats) {
	if stats == nil || stats.TotalResponses == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Responses measured: %d\n", stats.TotalResponses))
	sb.WriteString(fmt.Sprintf("Average days:       %.1f\n", stats.AverageDays))
	sb.WriteString(fmt.Sprintf("Fastest:            %d days\n", stats.Fastest))
	sb.WriteString(fmt.Sprintf("Slowest:            %d days", stats.Slowest))

	p.printBox("RESPONSE TIME", sb.String())
}
