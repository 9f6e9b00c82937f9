package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

func newSolveCommand() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Search a puzzle with each strategy in turn",
		Long: `Build the configured puzzle and search it with every requested strategy,
one after another. Each strategy gets a fresh run from the same starting
configuration.`,
		Example: `  # Shuffle a 3x3 board and solve it with BFS and A*
  statemachine solve --columns 3 --rows 3 --shuffles 60 -s bfs -s astar

  # Solve a 4 ring Tower of Hanoi and print every move
  statemachine solve --puzzle hanoi --rings 4 -s staggered --show-path`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
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

			outcomes := make([]outcome, 0, len(kinds))
			for _, kind := range kinds {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				outcomes = append(outcomes, run(cmd.Context(), kind))
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
