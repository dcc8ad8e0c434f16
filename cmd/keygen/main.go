// cmd/keygen/main.go
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/owlnest/owlnest-backend/internal/keycodec"
)

// keygen emits a batch of product keys as CSV (payload,token,qr_link). Output is
// deterministic for a fixed signing secret, so a lost batch can be regenerated
// and will match what was printed.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		batchID string
		start   int
		count   int
		secret  string
		domain  string
		output  string
		legacy  bool
	)

	cmd := &cobra.Command{
		Use:           "keygen",
		Short:         "Generate a batch of product keys as CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("KEY_SIGN_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("signing secret is required (--secret or KEY_SIGN_SECRET)")
			}
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			return writeBatch(out, keycodec.New(secret), batchID, start, count, domain, legacy)
		},
	}

	cmd.Flags().StringVar(&batchID, "batch", "", "batch identifier, e.g. 2026A")
	cmd.Flags().IntVar(&start, "start", 1, "starting sequence number")
	cmd.Flags().IntVar(&count, "count", 20, "number of keys to generate")
	cmd.Flags().StringVar(&secret, "secret", "", "HMAC signing secret (defaults to KEY_SIGN_SECRET)")
	cmd.Flags().StringVar(&domain, "domain", "https://owlnestofficial.com", "site domain for QR links")
	cmd.Flags().StringVar(&output, "output", "", "output file (defaults to stdout)")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "emit legacy signed payloads instead of 12-char tokens")
	cmd.MarkFlagRequired("batch")

	return cmd
}

func writeBatch(out io.Writer, codec *keycodec.Codec, batchID string, start, count int, domain string, legacy bool) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"payload", "token", "qr_link"}); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		serial := keycodec.Serial(batchID, start+i)

		var token string
		if legacy {
			token = codec.Sign(serial)
		} else {
			token = codec.Token(serial)
		}

		payload := serial + "." + token
		link := domain + "/verify.html?code=" + url.QueryEscape(payload)

		if err := w.Write([]string{payload, token, link}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
