package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"projectkeeper/internal/application"
	"projectkeeper/internal/application/commands"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
	headColor = color.New(color.Bold)
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPlan shows a dry run. Blocking issues are printed but are not an error.
func printPlan(w io.Writer, res *commands.PlanResult) error {
	if jsonOutput {
		return printJSON(w, res)
	}

	headColor.Fprintln(w, res.Plan.Summary)
	if len(res.Plan.Backups) > 0 {
		dimColor.Fprintf(w, "Backs up %d file(s) before changing anything\n", len(res.Plan.Backups))
	}
	if res.Validation == nil {
		return nil
	}
	for _, issue := range res.Validation.Issues {
		failColor.Fprint(w, "✗ ")
		fmt.Fprintln(w, issue)
	}
	for _, warning := range res.Validation.Warnings {
		warnColor.Fprint(w, "! ")
		fmt.Fprintln(w, warning)
	}
	return nil
}

// printResult reports an executor result and returns its classified error
func printResult(w io.Writer, res *application.Result) error {
	if jsonOutput {
		if err := printJSON(w, res); err != nil {
			return err
		}
		return res.Err
	}

	if res.Success {
		okColor.Fprint(w, "✓ ")
	} else {
		failColor.Fprint(w, "✗ ")
	}
	fmt.Fprintln(w, res.Message)
	if res.BackupPath != "" {
		dimColor.Fprintf(w, "Backup: %s\n", res.BackupPath)
	}
	if len(res.RenamedFolders) > 0 {
		dimColor.Fprintf(w, "Quarantined: %s\n", strings.Join(res.RenamedFolders, ", "))
	}
	if len(res.RemovedEntries) > 0 {
		dimColor.Fprintf(w, "Removed: %s\n", strings.Join(res.RemovedEntries, ", "))
	}
	if res.Success {
		return nil
	}
	if res.Err != nil {
		return res.Err
	}
	return fmt.Errorf("%s failed", res.Operation)
}

// confirmOrPlan prints the plan when --yes was not given and returns
// ErrConfirmationRequired so the process exits non-zero without mutating.
func confirmOrPlan(w io.Writer, yes bool, plan func() (*commands.PlanResult, error)) (bool, error) {
	if yes {
		return true, nil
	}
	res, err := plan()
	if err != nil {
		return false, err
	}
	if err := printPlan(w, res); err != nil {
		return false, err
	}
	return false, fmt.Errorf("%w: re-run with --yes to apply", application.ErrConfirmationRequired)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
