package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/creatorscook/insight-core/internal/compliance"
	"github.com/creatorscook/insight-core/internal/models"
)

// Manual compliance check: scan a script file against the platform rules
// and an optional comma-separated brand keyword list, print the flags.
func main() {
	forbidden := flag.String("forbidden", "", "comma-separated forbidden brand keywords")
	required := flag.String("required", "", "comma-separated required brand keywords")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scan-script [-forbidden a,b] [-required c,d] <script-file>")
		os.Exit(2)
	}

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read script: %v\n", err)
		os.Exit(1)
	}

	var rules *models.BrandRuleSet
	if *forbidden != "" || *required != "" {
		rules = &models.BrandRuleSet{
			ForbiddenKeywords: splitList(*forbidden),
			RequiredKeywords:  splitList(*required),
		}
	}

	analysis := compliance.Analyze(string(content), rules)

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("📋 SCRIPT COMPLIANCE REPORT")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Score: %.2f   Risk: %s   Flags: %d\n", analysis.Score, analysis.Risk, len(analysis.Flags))

	for i, f := range analysis.Flags {
		icon := "ℹ️"
		switch f.Severity {
		case models.SeverityHigh:
			icon = "🛑"
		case models.SeverityMedium:
			icon = "⚠️"
		}
		fmt.Printf("\n%d. %s [%s/%s] %s\n", i+1, icon, f.Type, f.Severity, f.Message)
		if f.Position != nil {
			span := string(content[f.Position.Start:f.Position.End])
			fmt.Printf("   at %d-%d: %q\n", f.Position.Start, f.Position.End, span)
		}
		if f.Suggestion != "" {
			fmt.Printf("   suggestion: %s\n", f.Suggestion)
		}
	}

	if len(analysis.Flags) == 0 {
		fmt.Println("\n✅ No compliance concerns found")
	}
	fmt.Println(strings.Repeat("=", 70))
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
