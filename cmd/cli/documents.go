package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/apiclient"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/session"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage company documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents of the current company",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, sess, err := connect()
		if err != nil {
			return err
		}
		screen := sess.Enter(cmd.Context(), session.Documents)
		defer sess.Leave()

		docs, err := client.Documents(screen.Context(), client.Party().ID)
		if err != nil {
			return err
		}
		screen.Deliver(func() { err = printDocuments(docs) })
		return err
	},
}

var documentsUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a certificate, license or contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		kind, _ := cmd.Flags().GetString("type")
		if name == "" {
			name = filepath.Base(args[0])
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open document: %w", err)
		}
		defer f.Close()

		doc, err := client.UploadDocument(cmd.Context(), apiclient.DocumentUpload{
			CompanyID:   client.Party().ID,
			Name:        name,
			Type:        models.DocumentType(kind),
			FileName:    filepath.Base(args[0]),
			ContentType: mime.TypeByExtension(filepath.Ext(args[0])),
			File:        f,
		})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(doc)
		}
		fmt.Printf("document %s uploaded (%s, %d bytes)\n", doc.ID, doc.ContentType, doc.Size)
		return nil
	},
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <documentId>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect()
		if err != nil {
			return err
		}
		if err := client.DeleteDocument(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("document %s deleted\n", args[0])
		return nil
	},
}

func init() {
	documentsUploadCmd.Flags().String("name", "", "display name (defaults to the file name)")
	documentsUploadCmd.Flags().String("type", string(models.CertificateDocument), "certificate, license, contract, ttn or other")

	documentsCmd.AddCommand(documentsListCmd, documentsUploadCmd, documentsDeleteCmd)
}

func printDocuments(docs []models.Document) error {
	if asJSON {
		return printJSON(docs)
	}
	tw := newTable()
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tUPLOADED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", d.ID, d.Name, d.Type, d.Size, day(d.CreatedAt))
	}
	return tw.Flush()
}
