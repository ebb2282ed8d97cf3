package main

import (
	"fmt"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/apiclient"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/session"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/taxonomy"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var rfqsCmd = &cobra.Command{
	Use:   "rfqs",
	Short: "Manage requests for quotation",
}

var rfqsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List RFQs visible to the current party",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, sess, err := connect()
		if err != nil {
			return err
		}
		name := session.BuyerRFQs
		if client.Party().Role == models.Supplier {
			name = session.SellerRFQs
		}
		f, page := readFilter(cmd)
		sess.SetFilter(name, f)
		screen := sess.Enter(cmd.Context(), name)
		defer sess.Leave()

		list, err := client.RFQs(screen.Context(), f, page)
		if err != nil {
			return err
		}
		screen.Deliver(func() { err = printRFQs(list) })
		return err
	},
}

var rfqsShowCmd = &cobra.Command{
	Use:   "show <rfqId>",
	Short: "Show an RFQ with its offers and allowed actions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		view, err := client.RFQ(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(view)
		}
		printView(view)
		return nil
	},
}

var rfqsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new RFQ",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		req := models.RFQRequest{BuyerID: client.Party().ID}
		req.Title, _ = flags.GetString("title")
		req.Category, _ = flags.GetString("category")
		req.Subcategory, _ = flags.GetString("subcategory")
		req.Brand, _ = flags.GetString("brand")
		req.Grade, _ = flags.GetString("grade")
		req.Unit, _ = flags.GetString("unit")
		req.DeliveryLocation, _ = flags.GetString("location")
		req.Message, _ = flags.GetString("message")
		req.SpecialRequirements, _ = flags.GetString("requirements")
		payment, _ := flags.GetString("payment")
		req.PaymentMethod = models.PaymentMethod(payment)

		volume, _ := flags.GetString("volume")
		if req.Volume, err = decimal.NewFromString(volume); err != nil {
			return fmt.Errorf("invalid volume %q: %w", volume, err)
		}
		delivery, _ := flags.GetString("delivery-date")
		if req.DeliveryDate, err = parseDate(delivery); err != nil {
			return err
		}
		deadline, _ := flags.GetString("deadline")
		if req.Deadline, err = parseDate(deadline); err != nil {
			return err
		}

		rfq, err := client.CreateRFQ(cmd.Context(), req)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(rfq)
		}
		fmt.Printf("RFQ %s created, deadline %s\n", rfq.ID, day(rfq.Deadline))
		return nil
	},
}

var rfqsCancelCmd = &cobra.Command{
	Use:   "cancel <rfqId>",
	Short: "Cancel an active RFQ",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		view, err := client.RFQ(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		rfq, err := client.CancelRFQ(cmd.Context(), view.Negotiation)
		if err != nil {
			return err
		}
		fmt.Printf("RFQ %s is now %s\n", rfq.ID, badge(taxonomy.RFQKind, string(rfq.Status)))
		return nil
	},
}

func init() {
	filterFlags(rfqsListCmd)

	flags := rfqsCreateCmd.Flags()
	flags.String("title", "", "RFQ title")
	flags.String("category", "", "category key")
	flags.String("subcategory", "", "subcategory key")
	flags.String("brand", "", "brand")
	flags.String("grade", "", "grade")
	flags.String("volume", "", "requested volume")
	flags.String("unit", "", "unit of measure")
	flags.String("location", "", "delivery location")
	flags.String("delivery-date", "", "delivery date")
	flags.String("payment", string(models.BankPayment), "payment method: bank or cash")
	flags.String("message", "", "message to suppliers")
	flags.String("requirements", "", "special requirements")
	flags.String("deadline", "", "offer deadline")

	rfqsCmd.AddCommand(rfqsListCmd, rfqsShowCmd, rfqsCreateCmd, rfqsCancelCmd)
}

func printRFQs(list apiclient.Collection[models.RFQ]) error {
	if asJSON {
		return printJSON(list)
	}
	tw := newTable()
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tVOLUME\tSTATUS\tDEADLINE")
	for _, r := range list.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\t%s\n",
			r.ID, r.Title, r.Category, r.Volume.String(), r.Unit,
			badge(taxonomy.RFQKind, string(r.Status)), day(r.Deadline))
	}
	fmt.Fprintf(tw, "\t\t\t\t\t%d total\n", list.Count)
	return tw.Flush()
}

func printView(view *lifecycle.View) {
	r := view.RFQ
	fmt.Printf("%s  %s\n", r.ID, r.Title)
	fmt.Printf("  status:   %s\n", badge(taxonomy.RFQKind, string(r.Status)))
	fmt.Printf("  volume:   %s %s, %s %s\n", r.Volume.String(), r.Unit, r.Brand, r.Grade)
	fmt.Printf("  delivery: %s by %s, payment %s\n", r.DeliveryLocation, day(r.DeliveryDate), r.PaymentMethod)
	fmt.Printf("  deadline: %s\n", day(r.Deadline))
	if len(view.Actions.RFQ) > 0 {
		fmt.Printf("  actions:  %v\n", view.Actions.RFQ)
	}

	tw := newTable()
	fmt.Fprintln(tw, "\nOFFER\tSUPPLIER\tUNIT PRICE\tTOTAL\tSTATUS\tSUPERSEDES\tACTIONS")
	for _, o := range view.Offers {
		supersedes := "-"
		if o.SupersedesID != nil {
			supersedes = *o.SupersedesID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%v\n",
			o.ID, o.SupplierID, money(o.UnitPrice), money(o.TotalAmount),
			badge(taxonomy.OfferKind, string(o.Status)), supersedes, view.Actions.Offers[o.ID])
	}
	_ = tw.Flush()

	if view.Order != nil {
		fmt.Printf("\norder %s: %s\n", view.Order.ID, badge(taxonomy.OrderKind, string(view.Order.Status)))
	}
}
