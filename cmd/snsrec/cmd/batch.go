package cmd

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ssargent/snsrecords/pkg/api"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <record-key>...",
	Short: "Fetch several record accounts in one request",
	Long: `Fetch several record accounts with a single RPC round trip. The output is a
JSON array in argument order with null for accounts that do not exist.

Example:
  snsrec batch <key1> <key2> <key3>`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]solana.PublicKey, len(args))
		for i, arg := range args {
			key, err := parseKeyArg("record key", arg)
			if err != nil {
				return err
			}
			keys[i] = key
		}

		client, err := container.Records()
		if err != nil {
			return err
		}
		recs, err := client.RetrieveBatch(cmd.Context(), keys)
		if err != nil {
			return err
		}

		out := make([]*api.RecordResponse, len(recs))
		for i, rec := range recs {
			if rec == nil {
				continue
			}
			if out[i], err = api.NewRecordResponse(keys[i], rec); err != nil {
				return err
			}
		}
		return printJSON(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
