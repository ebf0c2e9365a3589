package main

import (
	"errors"

	"github.com/amp-labs/typewise/codec"
	"github.com/amp-labs/typewise/logger"
	"github.com/amp-labs/typewise/sorting"
	"github.com/spf13/cobra"
)

type sortOptions struct {
	reverse   bool
	workers   int
	unordered string
}

func newSortCommand(root *rootOptions) *cobra.Command {
	opts := &sortOptions{}

	cmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "Sort a list of values and print it as JSON",
		Long: `Sort the list in file (or stdin) and print the sorted list as JSON.

Faults ({"$error": ...}) have no ordering. With --unordered error, the default, the
command fails and reports every one of them. With --unordered last they are moved to
the end in input order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "sort in descending order")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "sort workers, 0 uses the shared pool")
	cmd.Flags().StringVar(&opts.unordered, "unordered", "", "policy for values with no ordering (error|last)")

	return cmd
}

func runSort(cmd *cobra.Command, root *rootOptions, opts *sortOptions, args []string) error {
	cfg := root.cfg

	if cmd.Flags().Changed("reverse") {
		cfg.Sort.Reverse = opts.reverse
	}

	if cmd.Flags().Changed("workers") {
		cfg.Sort.Workers = opts.workers
	}

	if cmd.Flags().Changed("unordered") {
		cfg.Sort.Unordered = opts.unordered
	}

	if err := cfg.Validate(); err != nil {
		return usageError("%w", err)
	}

	sortOpts, err := cfg.SortOptions(root.cmp)
	if err != nil {
		return usageError("%w", err)
	}

	values, err := root.readValues(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := logger.Get(ctx)

	log.Debug("sorting", "values", len(values), "collation", cfg.Collation,
		"workers", cfg.Sort.Workers, "unordered", cfg.Sort.Unordered, "reverse", cfg.Sort.Reverse)

	if err := sorting.ParallelSort(ctx, values, sortOpts...); err != nil {
		if errors.Is(err, sorting.ErrNoOrdering) {
			log.Error("values have no ordering", "error", err)

			return failure(err)
		}

		return err
	}

	out, err := codec.EncodeJSON(values, root.cmp)
	if err != nil {
		return err
	}

	return write(cmd, out)
}
