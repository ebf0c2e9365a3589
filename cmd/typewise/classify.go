package main

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/amp-labs/typewise/codec"
	"github.com/amp-labs/typewise/hashing"
	"github.com/spf13/cobra"
)

const (
	faultLabel = "fault"
	noHash     = "-"
)

func newClassifyCommand(root *rootOptions) *cobra.Command {
	var withHash bool

	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Print the category of every value in a list",
		Long: `Print one line per value: its position, its category and the value as JSON.

With --hash an XXH3 digest column is added. Values that compare equal under the
configured collation share a digest. Faults and NaN have none.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := root.readValues(cmd, args)
			if err != nil {
				return err
			}

			var buf bytes.Buffer

			tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0) //nolint:mnd

			for i, v := range values {
				label := faultLabel
				if c, ok := root.cmp.Classify(v); ok {
					label = c.String()
				}

				text, err := codec.Marshal(v, root.cmp)
				if err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}

				if withHash {
					sum, err := hashing.Xxh3(hashing.NewValue(root.cmp, v))
					if err != nil {
						sum = noHash
					}

					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, label, sum, text) //nolint:errcheck
				} else {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", i, label, text) //nolint:errcheck
				}
			}

			if err := tw.Flush(); err != nil {
				return err //nolint:wrapcheck
			}

			return write(cmd, buf.Bytes())
		},
	}

	cmd.Flags().BoolVar(&withHash, "hash", false, "add an XXH3 digest column")

	return cmd
}
