package main

import (
	"fmt"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/apiclient"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/session"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/taxonomy"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var offersCmd = &cobra.Command{
	Use:   "offers",
	Short: "Submit and decide on offers",
}

var offersListCmd = &cobra.Command{
	Use:   "list [rfqId]",
	Short: "List the party's offers, or all offers under one RFQ",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, sess, err := connect()
		if err != nil {
			return err
		}
		f, page := readFilter(cmd)
		sess.SetFilter(session.Offers, f)
		screen := sess.Enter(cmd.Context(), session.Offers)
		defer sess.Leave()

		var list apiclient.Collection[models.Offer]
		if len(args) == 1 {
			list, err = client.RFQOffers(screen.Context(), args[0])
		} else {
			list, err = client.Offers(screen.Context(), f, page)
		}
		if err != nil {
			return err
		}
		screen.Deliver(func() { err = printOffers(list) })
		return err
	},
}

var offersSubmitCmd = &cobra.Command{
	Use:   "submit <rfqId>",
	Short: "Submit a price offer on an active RFQ",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		terms, err := readTerms(cmd)
		if err != nil {
			return err
		}
		view, err := client.RFQ(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		req := models.OfferRequest{
			RFQID:         view.RFQ.ID,
			SupplierID:    client.Party().ID,
			UnitPrice:     terms.UnitPrice,
			DeliveryDate:  terms.DeliveryDate,
			DeliveryTerms: terms.DeliveryTerms,
			Message:       terms.Message,
		}
		offer, err := client.SubmitOffer(cmd.Context(), view.RFQ, req)
		if err != nil {
			return err
		}
		return printOffer(offer)
	},
}

var offersAcceptCmd = &cobra.Command{
	Use:   "accept <rfqId> <offerId>",
	Short: "Accept an offer addressed to you and create an order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		view, err := client.RFQ(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		order, err := client.AcceptOffer(cmd.Context(), view.Negotiation, args[1])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(order)
		}
		fmt.Printf("offer %s accepted, order %s for %s\n", args[1], order.ID, money(order.TotalAmount))
		return nil
	},
}

var offersRejectCmd = &cobra.Command{
	Use:   "reject <rfqId> <offerId>",
	Short: "Reject a pending offer addressed to you",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		view, err := client.RFQ(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		offer, err := client.RejectOffer(cmd.Context(), view.Negotiation, args[1])
		if err != nil {
			return err
		}
		return printOffer(offer)
	},
}

var offersCounterCmd = &cobra.Command{
	Use:   "counter <rfqId> <offerId>",
	Short: "Answer a pending offer with new terms",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		req, err := readTerms(cmd)
		if err != nil {
			return err
		}
		view, err := client.RFQ(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		offer, err := client.CounterOffer(cmd.Context(), view.Negotiation, args[1], req)
		if err != nil {
			return err
		}
		return printOffer(offer)
	},
}

func init() {
	filterFlags(offersListCmd)
	for _, cmd := range []*cobra.Command{offersSubmitCmd, offersCounterCmd} {
		cmd.Flags().String("price", "", "unit price")
		cmd.Flags().String("delivery-date", "", "delivery date")
		cmd.Flags().String("terms", "", "delivery terms")
		cmd.Flags().String("message", "", "message")
		_ = cmd.MarkFlagRequired("price")
	}
	offersCmd.AddCommand(offersListCmd, offersSubmitCmd, offersAcceptCmd, offersRejectCmd, offersCounterCmd)
}

func readTerms(cmd *cobra.Command) (models.CounterRequest, error) {
	flags := cmd.Flags()
	var req models.CounterRequest
	price, _ := flags.GetString("price")
	unit, err := decimal.NewFromString(price)
	if err != nil {
		return req, fmt.Errorf("invalid price %q: %w", price, err)
	}
	req.UnitPrice = unit
	date, _ := flags.GetString("delivery-date")
	if req.DeliveryDate, err = parseDate(date); err != nil {
		return req, err
	}
	req.DeliveryTerms, _ = flags.GetString("terms")
	req.Message, _ = flags.GetString("message")
	return req, nil
}

func printOffers(list apiclient.Collection[models.Offer]) error {
	if asJSON {
		return printJSON(list)
	}
	tw := newTable()
	fmt.Fprintln(tw, "ID\tRFQ\tSUPPLIER\tUNIT PRICE\tTOTAL\tSTATUS\tCREATED")
	for _, o := range list.Items {
		title := o.RFQTitle
		if title == "" {
			title = o.RFQID
		}
		supplier := o.SupplierName
		if supplier == "" {
			supplier = o.SupplierID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, title, supplier, money(o.UnitPrice), money(o.TotalAmount),
			badge(taxonomy.OfferKind, string(o.Status)), day(o.CreatedAt))
	}
	fmt.Fprintf(tw, "\t\t\t\t\t\t%d total\n", list.Count)
	return tw.Flush()
}

func printOffer(o *models.Offer) error {
	if asJSON {
		return printJSON(o)
	}
	fmt.Printf("offer %s on RFQ %s: %s x volume = %s, %s\n",
		o.ID, o.RFQID, money(o.UnitPrice), money(o.TotalAmount), badge(taxonomy.OfferKind, string(o.Status)))
	return nil
}
