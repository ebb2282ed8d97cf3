package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/apiclient"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/taxonomy"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// filterFlags добавляет флаги фильтра и страницы к команде списка.
func filterFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "", "filter by status")
	cmd.Flags().String("category", "", "filter by category")
	cmd.Flags().String("search", "", "search text")
	cmd.Flags().String("sort", "", "sort key")
	cmd.Flags().Int("limit", 20, "page size")
	cmd.Flags().Int("offset", 0, "page offset")
}

func readFilter(cmd *cobra.Command) (listing.Filter, apiclient.Page) {
	flags := cmd.Flags()
	f := listing.Filter{}
	f.Status, _ = flags.GetString("status")
	f.Category, _ = flags.GetString("category")
	f.Search, _ = flags.GetString("search")
	f.SortBy, _ = flags.GetString("sort")
	p := apiclient.Page{}
	p.Limit, _ = flags.GetInt("limit")
	p.Offset, _ = flags.GetInt("offset")
	return f, p
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func badge(kind taxonomy.Kind, status string) string {
	b := taxonomy.Describe(kind, status)
	return fmt.Sprintf("%s (%s)", b.Label, b.Tone)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

// parseDate принимает дату вида 2006-01-02 или RFC 3339.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD or RFC 3339", value)
	}
	return t, nil
}
