package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/metro"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare A* against Dijkstra for every pair of states",
	Long: `Run the A* engine and a gonum Dijkstra search over the same network for
every ordered pair of (station, line) states and report any cost mismatch.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	model, err := loadNetwork()
	if err != nil {
		return err
	}
	opts, err := searchOptions()
	if err != nil {
		return err
	}

	var states []metro.State
	for _, line := range model.Lines() {
		for _, station := range model.StationsOn(line) {
			states = append(states, metro.NewState(station, line))
		}
	}

	var checked, mismatches int
	for _, start := range states {
		for _, goal := range states {
			ok, err := verifyPair(cmd, model, start, goal, opts)
			if err != nil {
				return err
			}
			checked++
			if !ok {
				mismatches++
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Checked %d pairs, %d mismatches\n", checked, mismatches)
	if mismatches > 0 {
		return fmt.Errorf("%d of %d pairs disagree with dijkstra", mismatches, checked)
	}
	return nil
}

// verifyPair reports whether both searches agree on start to goal. Agreement
// on "no route" counts as a match.
func verifyPair(cmd *cobra.Command, model metro.Network, start, goal metro.State, opts []metro.Option) (bool, error) {
	engine, err := metro.New(model, start, goal, opts...)
	if err != nil {
		return false, err
	}
	got, searchErr := engine.Run(cmd.Context())
	want, baseErr := metro.Baseline(model, start, goal, cfg.Penalty())

	switch {
	case searchErr != nil && baseErr != nil:
		return true, nil
	case searchErr != nil || baseErr != nil:
		logger.Warn("route mismatch", "from", start, "to", goal, "astar", searchErr, "dijkstra", baseErr)
		return false, nil
	case got.Cost != want.Cost:
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: astar %.2f, dijkstra %.2f\n", start, goal, got.Cost, want.Cost)
		return false, nil
	}
	return true, nil
}
