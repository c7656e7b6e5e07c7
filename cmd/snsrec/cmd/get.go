package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/snsrecords/pkg/api"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <record-key>",
	Short: "Fetch and decode a record account",
	Long: `Fetch a record account by its address and print the decoded record.

Example:
  snsrec get 6DsYWo7KBqQCB1RkSLy7DXtMFN1f6jXKQUsByJ1JiB5g`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKeyArg("record key", args[0])
		if err != nil {
			return err
		}

		client, err := container.Records()
		if err != nil {
			return err
		}
		rec, err := client.Retrieve(cmd.Context(), key)
		if err != nil {
			return err
		}

		if raw, _ := cmd.Flags().GetBool("content-only"); raw {
			content, err := rec.Content()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(content, '\n'))
			return err
		}

		resp, err := api.NewRecordResponse(key, rec)
		if err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

// headerCmd represents the header command
var headerCmd = &cobra.Command{
	Use:   "header <record-key>",
	Short: "Fetch and decode only the record header",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKeyArg("record key", args[0])
		if err != nil {
			return err
		}

		client, err := container.Records()
		if err != nil {
			return err
		}
		header, err := client.RetrieveHeader(cmd.Context(), key)
		if err != nil {
			return err
		}
		return printJSON(cmd, api.NewHeaderResponse(header))
	},
}

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <domain-key> <record>",
	Short: "Derive a record key under a domain and fetch it",
	Long: `Derive the address of a record (e.g. SOL, CNAME, TXT) under a domain
account and print the decoded record.

Example:
  snsrec lookup 7nf2Rq9DxwQCTg1ZmEEB5VUVAzq6tGpsYxqJ6JHqyoTQ CNAME`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, err := parseKeyArg("domain key", args[0])
		if err != nil {
			return err
		}

		client, err := container.Records()
		if err != nil {
			return err
		}
		key, rec, err := client.RetrieveByName(cmd.Context(), domain, args[1])
		if err != nil {
			return err
		}

		resp, err := api.NewRecordResponse(key, rec)
		if err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(headerCmd)
	rootCmd.AddCommand(lookupCmd)
	getCmd.Flags().Bool("content-only", false, "Print only the record content")
}
