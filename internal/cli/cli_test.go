package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/metro"
	"github.com/pdrpinto/metro/internal/config"
)

// testConfig writes a config pointing at the repository data files.
func testConfig(t *testing.T, extra string) string {
	t.Helper()
	abs := func(name string) string {
		path, err := filepath.Abs(filepath.Join("..", "..", "data", name))
		require.NoError(t, err)
		return path
	}
	body := fmt.Sprintf(`data:
  lines: %q
  real_distance: %q
  direct_distance: %q
log:
  level: error
%s`, abs("linhas.csv"), abs("distancia_real.csv"), abs("distancia_direta.csv"), extra)

	path := filepath.Join(t.TempDir(), "metro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// execute runs the root command with fresh flag values.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	configPath, logLevel = "", ""
	routeFrom, routeTo, routeTrace, routeJSON = "", "", false, false
	serveAddr = ""

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_Definition(t *testing.T) {
	t.Run("subcommands are registered", func(t *testing.T) {
		for _, name := range []string{"route", "verify", "serve"} {
			cmd, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
		}
	})

	t.Run("route has flags", func(t *testing.T) {
		flags := routeCmd.Flags()

		from := flags.Lookup("from")
		require.NotNil(t, from)
		assert.Equal(t, "f", from.Shorthand)

		to := flags.Lookup("to")
		require.NotNil(t, to)
		assert.Equal(t, "t", to.Shorthand)

		trace := flags.Lookup("trace")
		require.NotNil(t, trace)
		assert.Equal(t, "false", trace.DefValue)

		require.NotNil(t, flags.Lookup("json"))
	})

	t.Run("root has persistent flags", func(t *testing.T) {
		require.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
		require.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
	})
}

func TestRoute_Flags(t *testing.T) {
	out, err := execute(t, "", "route", "--config", testConfig(t, ""), "--from", "e14,vermelho", "--to", "E6,Azul")
	require.NoError(t, err)

	assert.Contains(t, out, "Cost: 56.85 minutes")
	assert.Contains(t, out, "Route: (e14, vermelho) -> (e13, vermelho) -> (e13, verde) -> (e4, verde) -> (e4, azul) -> (e5, azul) -> (e6, azul)")
}

func TestRoute_Prompt(t *testing.T) {
	out, err := execute(t, "e14,vermelho\ne13,verde\n", "route", "--config", testConfig(t, ""))
	require.NoError(t, err)

	assert.Contains(t, out, `Enter the start state ("station,line"): `)
	assert.Contains(t, out, `Enter the goal state ("station,line"): `)
	assert.Contains(t, out, "Cost: 10.65 minutes")
}

func TestRoute_ConfigStates(t *testing.T) {
	path := testConfig(t, "start: e11,vermelho\ngoal: e7,amarelo\n")

	out, err := execute(t, "", "route", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Cost: 70.95 minutes")
}

func TestRoute_JSON(t *testing.T) {
	out, err := execute(t, "", "route", "--config", testConfig(t, ""), "-f", "e12,verde", "-t", "e1,azul", "--json")
	require.NoError(t, err)

	var result metro.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 60.0, result.Cost)
	assert.Equal(t, metro.State{Station: "e12", Line: "verde"}, result.Path[0])
	assert.Equal(t, metro.State{Station: "e1", Line: "azul"}, result.Path[len(result.Path)-1])
}

func TestRoute_Trace(t *testing.T) {
	out, err := execute(t, "", "route", "--config", testConfig(t, ""), "--from", "e14,vermelho", "--to", "e6,azul", "--trace")
	require.NoError(t, err)

	assert.Contains(t, out, "Step 1: expanded (e14, vermelho) cost=30.30 g=0.00 h=30.30")
	assert.Contains(t, out, "Frontier:\n  (e13, vermelho) cost=")
	assert.Contains(t, out, "Cost: 56.85 minutes")
}

func TestRoute_PenaltyFromConfig(t *testing.T) {
	out, err := execute(t, "", "route", "--config", testConfig(t, "transfer_penalty: 0\n"), "--from", "e14,vermelho", "--to", "e13,verde")
	require.NoError(t, err)
	assert.Contains(t, out, "Cost: 7.65 minutes")
}

func TestRoute_InvalidState(t *testing.T) {
	_, err := execute(t, "", "route", "--config", testConfig(t, ""), "--from", "e14,azul", "--to", "e6,azul")

	require.Error(t, err)
	assert.ErrorIs(t, err, metro.ErrInvalidState)
	assert.Contains(t, err.Error(), "start")
}

func TestRoute_MalformedState(t *testing.T) {
	_, err := execute(t, "", "route", "--config", testConfig(t, ""), "--from", "e14", "--to", "e6,azul")

	assert.ErrorIs(t, err, metro.ErrInvalidState)
}

func TestRoute_NoInput(t *testing.T) {
	_, err := execute(t, "", "route", "--config", testConfig(t, ""))

	assert.ErrorContains(t, err, "read start state")
}

func TestVerify(t *testing.T) {
	out, err := execute(t, "", "verify", "--config", testConfig(t, ""))
	require.NoError(t, err)

	assert.Contains(t, out, "Checked 484 pairs, 0 mismatches")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	l, err := newLogger(&buf, config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(&buf, config.LogConfig{Level: "loud", Format: "text"})
	assert.Error(t, err)
}
