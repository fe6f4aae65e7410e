// Package verification compares a generated listing with a reference javap listing.
package verification

import (
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/retroenv/retrogolib/log"
)

const (
	diffContext  = 3
	maxDiffLines = 40 // limit of diff lines that are logged
)

// VerifyOutput verifies that the listing matches the reference file. Line endings and
// trailing whitespace are ignored.
func VerifyOutput(logger *log.Logger, listing, referencePath string) error {
	reference, err := os.ReadFile(referencePath)
	if err != nil {
		return fmt.Errorf("reading reference file: %w", err)
	}

	expected := splitLines(string(reference))
	actual := splitLines(listing)

	changed := countChangedLines(expected, actual)
	if changed == 0 {
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        expected,
		B:        actual,
		FromFile: referencePath,
		ToFile:   "output",
		Context:  diffContext,
	})
	if err != nil {
		return fmt.Errorf("creating diff: %w", err)
	}

	lines := strings.Split(diff, "\n")
	if len(lines) > maxDiffLines {
		lines = append(lines[:maxDiffLines], "...")
	}
	for _, line := range lines {
		logger.Error("Listing mismatch", log.String("diff", line))
	}
	return fmt.Errorf("%d lines differ from reference listing", changed)
}

// splitLines splits text into newline terminated lines without trailing whitespace.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t") + "\n"
	}
	return lines
}

// countChangedLines returns the number of lines that were removed from or added to a.
func countChangedLines(a, b []string) int {
	matcher := difflib.NewMatcher(a, b)
	changed := 0
	for _, op := range matcher.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		changed += max(op.I2-op.I1, op.J2-op.J1)
	}
	return changed
}
