package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deriveCmd represents the derive command
var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive program addresses",
}

var deriveCentralStateCmd = &cobra.Command{
	Use:   "central-state",
	Short: "Print the central state of the records program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		builder, err := container.Builder()
		if err != nil {
			return err
		}
		cs, err := builder.CentralState()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cs.String())
		return nil
	},
}

var deriveRecordCmd = &cobra.Command{
	Use:   "record <domain-key> <record>",
	Short: "Print the address of a record under a domain",
	Long: `Print the address of a record under a domain account.

Example:
  snsrec derive record 7nf2Rq9DxwQCTg1ZmEEB5VUVAzq6tGpsYxqJ6JHqyoTQ SOL`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, err := parseKeyArg("domain key", args[0])
		if err != nil {
			return err
		}
		builder, err := container.Builder()
		if err != nil {
			return err
		}
		key, err := builder.Deriver().RecordKey(domain, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deriveCmd)
	deriveCmd.AddCommand(deriveCentralStateCmd)
	deriveCmd.AddCommand(deriveRecordCmd)
}
