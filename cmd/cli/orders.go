package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/apiclient"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/session"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/taxonomy"

	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Track and advance orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the party's orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, sess, err := connect()
		if err != nil {
			return err
		}
		f, page := readFilter(cmd)
		sess.SetFilter(session.Orders, f)
		screen := sess.Enter(cmd.Context(), session.Orders)
		defer sess.Leave()

		list, err := client.Orders(screen.Context(), f, page)
		if err != nil {
			return err
		}
		screen.Deliver(func() { err = printOrders(list) })
		return err
	},
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <orderId>",
	Short: "Show an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		order, err := client.Order(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := printOrder(order); err != nil || asJSON {
			return err
		}
		if targets := lifecycle.OrderTargets(*order, client.Party()); len(targets) > 0 {
			fmt.Printf("  next:     %v\n", targets)
		}
		return nil
	},
}

var ordersAdvanceCmd = &cobra.Command{
	Use:   "advance <orderId> <status>",
	Short: "Move an order to its next status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		order, err := client.Order(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		tracked := session.NewTracked(*order)
		updated, err := advanceOrder(cmd.Context(), client, tracked, models.OrderStatus(args[1]))
		if err != nil {
			current, phase := tracked.Value()
			fmt.Fprintf(os.Stderr, "order %s stays %s (%s)\n", current.ID, current.Status, phase)
			return err
		}
		return printOrder(&updated)
	},
}

// advanceOrder показывает новый статус до ответа сервера, но только после
// локальной проверки перехода.
func advanceOrder(ctx context.Context, client *apiclient.Client, tracked *session.Tracked[models.Order], to models.OrderStatus) (models.Order, error) {
	order, _ := tracked.Value()
	next, err := client.NextOrder(order, to)
	if err != nil {
		return order, err
	}
	return apiclient.Optimistic(ctx, tracked, next, func(ctx context.Context) (models.Order, error) {
		res, err := client.AdvanceOrder(ctx, order, to)
		if err != nil {
			return models.Order{}, err
		}
		return *res, nil
	})
}

var ordersPayCmd = &cobra.Command{
	Use:   "pay <orderId>",
	Short: "Confirm payment of an order awaiting payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		order, err := client.Order(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		paid, err := client.PayOrder(cmd.Context(), *order)
		if err != nil {
			return err
		}
		return printOrder(paid)
	},
}

var ordersShipCmd = &cobra.Command{
	Use:   "ship <orderId>",
	Short: "Submit the tracking number and waybill, moving the order in transit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		tracking, _ := cmd.Flags().GetString("tracking")
		ttn, _ := cmd.Flags().GetString("ttn")

		order, err := client.Order(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		d := apiclient.Delivery{TrackingNumber: tracking}
		if ttn != "" {
			f, err := os.Open(ttn)
			if err != nil {
				return fmt.Errorf("open waybill: %w", err)
			}
			defer f.Close()
			d.FileName = filepath.Base(ttn)
			d.ContentType = mime.TypeByExtension(filepath.Ext(ttn))
			d.File = f
		}
		shipped, err := client.SubmitDelivery(cmd.Context(), *order, d)
		if err != nil {
			return err
		}
		return printOrder(shipped)
	},
}

var ordersHistoryCmd = &cobra.Command{
	Use:   "history <orderId>",
	Short: "Show the status history of an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		changes, err := client.OrderHistory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(changes)
		}
		tw := newTable()
		fmt.Fprintln(tw, "AT\tENTITY\tFROM\tTO\tBY")
		for _, c := range changes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\n",
				c.At.Format("2006-01-02 15:04"), c.Entity, c.From, c.To, c.Role, c.ActorID)
		}
		return tw.Flush()
	},
}

func init() {
	filterFlags(ordersListCmd)
	ordersShipCmd.Flags().String("tracking", "", "carrier tracking number")
	ordersShipCmd.Flags().String("ttn", "", "path to the waybill scan")
	_ = ordersShipCmd.MarkFlagRequired("tracking")

	ordersCmd.AddCommand(ordersListCmd, ordersShowCmd, ordersAdvanceCmd, ordersPayCmd, ordersShipCmd, ordersHistoryCmd)
}

func printOrders(list apiclient.Collection[models.Order]) error {
	if asJSON {
		return printJSON(list)
	}
	tw := newTable()
	fmt.Fprintln(tw, "ID\tRFQ\tSUPPLIER\tTOTAL\tSTATUS\tPAYMENT\tDELIVERY")
	for _, o := range list.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.RFQTitle, o.SupplierName, money(o.TotalAmount),
			badge(taxonomy.OrderKind, string(o.Status)),
			badge(taxonomy.PaymentKind, string(o.PaymentStatus)), day(o.DeliveryDate))
	}
	fmt.Fprintf(tw, "\t\t\t\t\t\t%d total\n", list.Count)
	return tw.Flush()
}

func printOrder(o *models.Order) error {
	if asJSON {
		return printJSON(o)
	}
	fmt.Printf("order %s (offer %s, RFQ %s)\n", o.ID, o.OfferID, o.RFQID)
	fmt.Printf("  status:   %s\n", badge(taxonomy.OrderKind, string(o.Status)))
	fmt.Printf("  payment:  %s\n", badge(taxonomy.PaymentKind, string(o.PaymentStatus)))
	fmt.Printf("  total:    %s\n", money(o.TotalAmount))
	fmt.Printf("  delivery: %s\n", day(o.DeliveryDate))
	if o.TrackingNumber != "" {
		fmt.Printf("  tracking: %s\n", o.TrackingNumber)
	}
	return nil
}
