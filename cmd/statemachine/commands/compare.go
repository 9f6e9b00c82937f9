package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jchevertonwynne/statemachine/internal/config"
)

func newCompareCommand() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Search a puzzle with several strategies side by side",
		Long: `Build the configured puzzle once and search it with every strategy
concurrently. Runs share nothing but the starting configuration, so each
one reports the same moves and checks it would report on its own.`,
		Example: `  # Compare all four strategies on a shuffled 3x3 board
  statemachine compare --shuffles 40 --seed 7

  # Compare two strategies on a 2x4 board and emit JSON
  statemachine compare --columns 4 --rows 2 -s astar -s staggered --json`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if !cmd.Flags().Changed("strategy") {
				names := make([]string, 0, len(config.AllStrategies))
				for _, kind := range config.AllStrategies {
					names = append(names, string(kind))
				}
				if err := cmd.Flags().Set("strategy", strings.Join(names, ",")); err != nil {
					return err
				}
			}

			s, err := newSession(cmd, &flags)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, s.Close(cmd.Context())) }()

			kinds, err := s.cfg.Search.StrategyKinds()
			if err != nil {
				return err
			}
			initial, run, err := s.prepare()
			if err != nil {
				return err
			}

			outcomes := make([]outcome, len(kinds))
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, kind := range kinds {
				g.Go(func() error {
					outcomes[i] = run(ctx, kind)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if err := report(cmd.OutOrStdout(), initial, outcomes, flags.showPath); err != nil {
				return err
			}
			return missing(outcomes)
		},
	}

	flags.bind(cmd)
	return cmd
}
