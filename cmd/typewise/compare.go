package main

import (
	"fmt"

	"github.com/amp-labs/typewise/codec"
	"github.com/amp-labs/typewise/compare"
	"github.com/amp-labs/typewise/logger"
	"github.com/amp-labs/typewise/typewise"
	"github.com/spf13/cobra"
)

type compareOptions struct {
	reverse bool
	field   string
}

func newCompareCommand(root *rootOptions) *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Compare two JSON values",
		Long: `Compare two values given as JSON and print less, equal, greater or unordered.

An argument that is not valid JSON is taken as a plain string. Incomparable operands
such as {"$nan": true} print unordered and exit with status 1.

With --field both operands must be objects and only the named member is compared.
A missing member counts as undefined.`,
		Args: cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b := codec.DecodeValue(args[0]), codec.DecodeValue(args[1])

			ord, err := opts.compareFunc(root.cmp)(a, b)

			if _, werr := fmt.Fprintln(cmd.OutOrStdout(), ord); werr != nil {
				return fmt.Errorf("writing output: %w", werr)
			}

			if err != nil {
				logger.Get(cmd.Context()).Warn("operands are incomparable", "error", err)

				return failure(err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "report the reversed order")
	cmd.Flags().StringVar(&opts.field, "field", "", "compare only this member of two objects")

	return cmd
}

func (o compareOptions) compareFunc(c *typewise.Comparator) compare.Func[any] {
	f := compare.Typewise(c)

	if o.field != "" {
		f = compare.By(o.member, f)
	}

	if o.reverse {
		f = compare.Reverse(f)
	}

	return f
}

// member returns the named member of a decoded object. Anything else has no members.
func (o compareOptions) member(v any) any {
	m, ok := v.(*typewise.Map)
	if !ok {
		return typewise.Undefined
	}

	if x, ok := m.Get(o.field); ok {
		return x
	}

	return typewise.Undefined
}
