package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/apiclient"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/session"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/taxonomy"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse categories and products",
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List material categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		categories, err := client.Categories(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(categories)
		}
		tw := newTable()
		fmt.Fprintln(tw, "KEY\tNAME\tPARENT")
		for _, c := range categories {
			parent := "-"
			if c.ParentKey != nil {
				parent = *c.ParentKey
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Key, c.Name, parent)
		}
		return tw.Flush()
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Search the product catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, sess, err := connect()
		if err != nil {
			return err
		}
		f, page := readFilter(cmd)
		sess.SetFilter(session.Products, f)
		screen := sess.Enter(cmd.Context(), session.Products)
		defer sess.Leave()

		list, err := client.Products(screen.Context(), f, page)
		if err != nil {
			return err
		}
		screen.Deliver(func() {
			if asJSON {
				err = printJSON(list)
				return
			}
			tw := newTable()
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tRATING\tSUPPLIER")
			for _, p := range list.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s/%s\t%.1f\t%s\n",
					p.ID, p.Name, p.Category, money(p.Price), p.Unit, p.Rating, p.SupplierName)
			}
			fmt.Fprintf(tw, "\t\t\t\t\t%d total\n", list.Count)
			err = tw.Flush()
		})
		return err
	},
}

var statusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "Show status dictionaries and categories used by the filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		meta := client.LoadMetadata(cmd.Context())
		for section, failure := range meta.Failed {
			fmt.Fprintf(os.Stderr, "warning: %s unavailable, using defaults: %v\n", section, failure)
		}
		if asJSON {
			return printJSON(meta.Statuses)
		}
		tw := newTable()
		fmt.Fprintln(tw, "KIND\tVALUE\tLABEL\tTONE")
		for _, kind := range taxonomy.Kinds {
			for _, b := range meta.Statuses[kind] {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", kind, b.Value, b.Label, b.Tone)
			}
		}
		fmt.Fprintf(tw, "categories\t%d\t\t\n", len(meta.Categories))
		return tw.Flush()
	},
}

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Show or save the current company profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		company, err := client.Company(cmd.Context(), client.Party().ID)
		if err != nil {
			return err
		}
		return printCompany(company)
	},
}

var companySaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update the current company profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		req := models.CompanyRequest{Role: client.Party().Role}
		req.Name, _ = flags.GetString("name")
		req.TaxID, _ = flags.GetString("tax-id")
		req.Address, _ = flags.GetString("address")
		req.Phone, _ = flags.GetString("phone")
		req.Email, _ = flags.GetString("email")

		id := client.Party().ID
		if _, err := client.Company(cmd.Context(), id); err != nil {
			var apiErr *apiclient.APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
				return err
			}
			id = ""
		}
		company, err := client.SaveCompany(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		return printCompany(company)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show seller dashboard aggregates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, sess, err := connect()
		if err != nil {
			return err
		}
		screen := sess.Enter(cmd.Context(), session.SellerReport)
		defer sess.Leave()

		stats, err := client.SellerStats(screen.Context(), client.Party().ID)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(stats)
		}
		fmt.Printf("offers:           %d\n", stats.TotalOffers)
		for _, status := range models.OfferStatuses {
			fmt.Printf("  %-15s %d\n", taxonomy.Describe(taxonomy.OfferKind, string(status)).Label, stats.OffersByStatus[status])
		}
		fmt.Printf("acceptance rate:  %.0f%%\n", stats.AcceptanceRate*100)
		fmt.Printf("active orders:    %d\n", stats.ActiveOrders)
		fmt.Printf("completed revenue %s\n", money(stats.CompletedRevenue))
		return nil
	},
}

func init() {
	filterFlags(productsCmd)

	flags := companySaveCmd.Flags()
	flags.String("name", "", "company name")
	flags.String("tax-id", "", "tax identification number")
	flags.String("address", "", "legal address")
	flags.String("phone", "", "contact phone")
	flags.String("email", "", "contact email")
	_ = companySaveCmd.MarkFlagRequired("name")

	catalogCmd.AddCommand(categoriesCmd, productsCmd)
	companyCmd.AddCommand(companySaveCmd)
}

func printCompany(c *models.Company) error {
	if asJSON {
		return printJSON(c)
	}
	fmt.Printf("%s (%s)\n", c.Name, c.Role)
	fmt.Printf("  tax id:  %s\n", c.TaxID)
	fmt.Printf("  address: %s\n", c.Address)
	fmt.Printf("  contact: %s %s\n", c.Phone, c.Email)
	return nil
}
