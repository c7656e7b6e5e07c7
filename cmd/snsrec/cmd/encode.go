package cmd

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/snsrecords/pkg/api"
	"github.com/ssargent/snsrecords/pkg/instruction"
)

func opNames() string {
	names := make([]string, 0, len(instruction.Tags()))
	for _, tag := range instruction.Tags() {
		names = append(names, tag.String())
	}
	return strings.Join(names, ", ")
}

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <op>",
	Short: "Encode a records program instruction",
	Long: `Encode a records program instruction and print its program id, accounts
and data. Nothing is signed or sent.

Operations: ` + opNames() + `

When --record is omitted it is derived from --domain and --name.

Examples:
  snsrec encode allocate-and-post-record --fee-payer <key> --domain <key> --owner <key> --name CNAME --content example.com
  snsrec encode validate-solana-signature --fee-payer <key> --domain <key> --owner <key> --name SOL --verifier <key> --staleness
  snsrec encode write-roa --fee-payer <key> --domain <key> --owner <key> --name SOL --roa-id <key> --format base64`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := instruction.ParseTag(args[0])
		if err != nil {
			return fmt.Errorf("%w (one of %s)", err, opNames())
		}

		flags := cmd.Flags()
		req := api.InstructionRequest{}
		req.FeePayer, _ = flags.GetString("fee-payer")
		req.Record, _ = flags.GetString("record")
		req.Domain, _ = flags.GetString("domain")
		req.DomainOwner, _ = flags.GetString("owner")
		req.Verifier, _ = flags.GetString("verifier")
		req.RecordName, _ = flags.GetString("name")
		req.Content, _ = flags.GetString("content")
		req.ContentLength, _ = flags.GetUint32("content-length")
		req.Validation, _ = flags.GetString("validation")
		req.Signature, _ = flags.GetString("signature")
		req.ExpectedPubkey, _ = flags.GetString("expected-pubkey")
		req.Staleness, _ = flags.GetBool("staleness")
		req.RoaID, _ = flags.GetString("roa-id")
		format, _ := flags.GetString("format")

		builder, err := container.Builder()
		if err != nil {
			return err
		}

		if req.Record == "" && req.Domain != "" && req.RecordName != "" {
			domain, err := parseKeyArg("domain", req.Domain)
			if err != nil {
				return err
			}
			key, err := builder.Deriver().RecordKey(domain, req.RecordName)
			if err != nil {
				return err
			}
			req.Record = key.String()
		}

		built, err := req.Build(tag)
		if err != nil {
			return err
		}
		ix, err := builder.Encode(built)
		if err != nil {
			return err
		}

		switch format {
		case "json":
			resp, err := api.NewInstructionResponse(tag, ix)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		case "base64", "hex":
			data, err := ix.Data()
			if err != nil {
				return err
			}
			if format == "hex" {
				fmt.Fprintf(cmd.OutOrStdout(), "%x\n", data)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(data))
			}
			return nil
		default:
			return fmt.Errorf("unknown format %q (json, base64, hex)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	f := encodeCmd.Flags()
	f.String("fee-payer", "", "Fee payer account")
	f.String("record", "", "Record account (derived from --domain and --name when empty)")
	f.String("domain", "", "Domain account")
	f.String("owner", "", "Domain owner account")
	f.String("verifier", "", "Verifier account (validate-solana-signature, unverify-roa)")
	f.String("name", "", "Record name, e.g. SOL or CNAME")
	f.String("content", "", "Record content")
	f.Uint32("content-length", 0, "Content length to allocate (allocate-record)")
	f.String("validation", "", "Validation kind (validate-ethereum-signature, default ethereum)")
	f.String("signature", "", "Hex signature (validate-ethereum-signature)")
	f.String("expected-pubkey", "", "Hex Ethereum address (validate-ethereum-signature)")
	f.Bool("staleness", false, "Validate staleness instead of right of association (validate-solana-signature)")
	f.String("roa-id", "", "Right of association id (write-roa)")
	f.String("format", "json", "Output format: json, base64 (data only), hex (data only)")
}
