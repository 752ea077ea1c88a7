package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

// renderView prints v in the selected output format.
func renderView(w io.Writer, v *listing.View) error {
	if jsonOutput() {
		return outputJSON(w, v)
	}
	return printSession(w, v)
}

func printSession(w io.Writer, v *listing.View) error {
	tw := newTabWriter(w)
	tw.writef("Session:\t%s\n", v.ID)
	tw.writef("Environment:\t%s\n", v.Environment)
	tw.writef("Auth:\t%s\n", v.AuthState)
	if v.ConsentURL != "" {
		tw.writef("Consent URL:\t%s\n", v.ConsentURL)
	}
	if v.AuthError != "" {
		tw.writef("Auth Error:\t%s\n", v.AuthError)
	}

	d := v.Draft
	tw.writef("Title:\t%s\n", d.Title)
	tw.writef("Manufacturer:\t%s\n", d.Manufacturer)
	tw.writef("Summary:\t%s\n", truncate(d.Summary, 60))
	if d.GeneratedTitle != "" {
		tw.writef("Generated Title:\t%s\n", d.GeneratedTitle)
		tw.writef("Generated Description:\t%s\n", truncate(d.GeneratedDescription, 60))
	}
	tw.writef("SKU:\t%s\n", d.SKU)
	tw.writef("Price:\t%.2f\n", d.Price)
	tw.writef("Quantity:\t%d\n", d.Quantity)
	tw.writef("Condition:\t%s\n", d.Condition)
	tw.writef("Marketplace:\t%s\n", d.MarketplaceID)
	if d.SelectedCategory != nil {
		tw.writef("Category:\t%s (%s)\n", d.SelectedCategory.Label(), d.SelectedCategory.CategoryID)
	}
	tw.writef("Images:\t%d\n", len(d.Images))
	if d.Video != nil {
		tw.writef("Video:\t%s\n", d.Video.Name)
	}
	if err := tw.finish(); err != nil {
		return err
	}

	if len(v.Suggestions) > 0 {
		if _, err := fmt.Fprintln(w, "\nSuggested categories:"); err != nil {
			return err
		}
		if err := printSuggestions(w, v.Suggestions); err != nil {
			return err
		}
	}
	if len(v.Aspects) > 0 {
		if _, err := fmt.Fprintln(w, "\nItem specifics:"); err != nil {
			return err
		}
		return printAspects(w, v.Aspects, d.SelectedAspects)
	}
	return nil
}

func printSuggestions(w io.Writer, suggestions []ebay.CategorySuggestion) error {
	tw := newTabWriter(w)
	tw.writef("#\tID\tCATEGORY\n")
	for i, s := range suggestions {
		tw.writef("%d\t%s\t%s\n", i, s.CategoryID, s.Label())
	}
	return tw.finish()
}

func printAspects(w io.Writer, aspects []ebay.CategoryAspect, answers map[string]string) error {
	tw := newTabWriter(w)
	tw.writef("NAME\tREQUIRED\tVALUE\tALLOWED\n")
	for _, a := range aspects {
		value := answers[a.Name]
		if value == "" {
			value = "-"
		}
		allowed := "any"
		if a.Mode == ebay.AspectModeSelectionOnly && len(a.AllowedValues) > 0 {
			allowed = truncate(strings.Join(a.AllowedValues, ", "), 40)
		}
		tw.writef("%s\t%v\t%s\t%s\n", a.Name, a.Required, value, allowed)
	}
	return tw.finish()
}

func printListing(w io.Writer, l *listing.Listing) error {
	tw := newTabWriter(w)
	tw.writef("SKU:\t%s\n", l.SKU)
	tw.writef("Title:\t%s\n", l.Title)
	tw.writef("Price:\t%.2f\n", l.Price)
	tw.writef("Quantity:\t%d\n", l.Quantity)
	tw.writef("Condition:\t%s\n", l.Condition)
	tw.writef("Marketplace:\t%s\n", l.MarketplaceID)
	if l.Category != nil {
		tw.writef("Category:\t%s (%s)\n", l.Category.Label(), l.Category.CategoryID)
	}

	names := make([]string, 0, len(l.Aspects))
	for name := range l.Aspects {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		tw.writef("  %s:\t%s\n", name, l.Aspects[name])
	}

	tw.writef("Images:\t%d\n", l.ImageCount)
	tw.writef("Video:\t%v\n", l.HasVideo)
	if len(l.MissingAspects) > 0 {
		tw.writef("Missing:\t%s\n", strings.Join(l.MissingAspects, ", "))
	}
	return tw.finish()
}

func printQuota(w io.Writer, u *ebay.Usage) error {
	tw := newTabWriter(w)
	tw.writef("Used:\t%d\n", u.Count)
	tw.writef("Limit:\t%d\n", u.Limit)
	tw.writef("Remaining:\t%d\n", u.Remaining)
	tw.writef("Resets:\t%s\n", u.ResetAt.Format("2006-01-02 15:04:05 MST"))
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
