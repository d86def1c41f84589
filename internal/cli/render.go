package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/service"
)

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(headers) > 0 {
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
	}
	return tw
}

func row(tw *tabwriter.Writer, cols ...interface{}) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	if *s == "" {
		return "-"
	}
	return *s
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func signed(v float64) string {
	if v > 0 {
		return "+" + service.FormatCurrency(v)
	}
	if v < 0 {
		return "-" + service.FormatCurrency(-v)
	}
	return service.FormatCurrency(0)
}

func renderInventory(w io.Writer, entries []models.InventoryEntry) error {
	tw := newTable(w, "ID", "CARD", "SET", "CONDITION", "QTY", "VALUE", "SCANNED")
	for _, e := range entries {
		value := "-"
		if e.CurrentValue != nil {
			value = service.FormatCurrency(e.CurrentValue.Amount)
		}
		row(tw, e.ID, e.Card.Name, e.Card.Set.Code, e.Condition, e.Quantity, value, e.ScannedAt)
	}
	return tw.Flush()
}

func renderDetections(w io.Writer, cards []models.DetectedCard) error {
	tw := newTable(w, "ID", "NAME", "SET", "CONFIDENCE", "CONDITION", "QTY", "CONFIRMED")
	for _, c := range cards {
		set := "-"
		if c.PredictedSet != nil && c.PredictedSet.Code != "" {
			set = c.PredictedSet.Code
		}
		condition := string(c.Condition)
		if condition == "" {
			condition = "-"
		}
		row(tw, c.ID, c.PredictedName, set, fmt.Sprintf("%.1f%%", c.PredictedConfidence*100), condition, c.Quantity, yesNo(c.Confirmed))
	}
	return tw.Flush()
}
