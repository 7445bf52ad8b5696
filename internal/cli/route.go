package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/metro"
)

var (
	routeFrom  string
	routeTo    string
	routeTrace bool
	routeJSON  bool
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Find the fastest route between two states",
	Long: `Find the fastest route between two (station, line) states.

States are written "station,line". Missing states are taken from the config
file or asked for on stdin.

Examples:
  metro route --from e14,vermelho --to e6,azul
  metro route --trace
  metro route --from e1,azul --to e7,amarelo --json`,
	Args: cobra.NoArgs,
	RunE: runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)

	routeCmd.Flags().StringVarP(&routeFrom, "from", "f", "", `Start state as "station,line"`)
	routeCmd.Flags().StringVarP(&routeTo, "to", "t", "", `Goal state as "station,line"`)
	routeCmd.Flags().BoolVar(&routeTrace, "trace", false, "Print the frontier after every expansion")
	routeCmd.Flags().BoolVar(&routeJSON, "json", false, "Output the result as JSON")
}

func runRoute(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	start, err := resolveState(in, out, routeFrom, cfg.Start, "start")
	if err != nil {
		return err
	}
	goal, err := resolveState(in, out, routeTo, cfg.Goal, "goal")
	if err != nil {
		return err
	}

	model, err := loadNetwork()
	if err != nil {
		return err
	}
	opts, err := searchOptions()
	if err != nil {
		return err
	}
	if routeTrace {
		opts = append(opts, metro.WithTrace(func(s metro.StepSnapshot) {
			printFrontier(out, s)
		}))
	}

	engine, err := metro.New(model, start, goal, opts...)
	if err != nil {
		return err
	}
	result, err := engine.Run(cmd.Context())
	if err != nil {
		return err
	}

	if routeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(out, result)
	return nil
}

// resolveState prefers the flag, then the config value, then a prompt.
func resolveState(in *bufio.Reader, out io.Writer, flag, fallback, role string) (metro.State, error) {
	text := flag
	if text == "" {
		text = fallback
	}
	if text == "" {
		var err error
		if text, err = prompt(in, out, role); err != nil {
			return metro.State{}, err
		}
	}
	state, err := metro.ParseState(text)
	if err != nil {
		return metro.State{}, fmt.Errorf("%s: %w", role, err)
	}
	return state, nil
}

func prompt(in *bufio.Reader, out io.Writer, role string) (string, error) {
	fmt.Fprintf(out, "Enter the %s state (\"station,line\"): ", role)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s state: %w", role, err)
	}
	return strings.TrimSpace(line), nil
}

func printFrontier(out io.Writer, s metro.StepSnapshot) {
	fmt.Fprintf(out, "Step %d: expanded %s\n", s.Index, s.Current)
	fmt.Fprintln(out, "Frontier:")
	for i := range s.Frontier {
		fmt.Fprintf(out, "  %s\n", &s.Frontier[i])
	}
	fmt.Fprintln(out)
}

func printResult(out io.Writer, result metro.Result) {
	states := make([]string, len(result.Path))
	for i, state := range result.Path {
		states[i] = state.String()
	}
	fmt.Fprintf(out, "Cost: %.2f minutes\n", result.Cost)
	fmt.Fprintf(out, "Route: %s\n", strings.Join(states, " -> "))
	fmt.Fprintf(out, "Expanded: %d\n", result.Expanded)
}
