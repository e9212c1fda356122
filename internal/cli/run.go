package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/script"
	"github.com/matzehuels/netedit/pkg/session"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	config   string // configuration file, empty for the default lookup
	dot      string // DOT output path
	svg      string // SVG output path
	sheet    string // sheet to export, empty for the first one
	detailed bool   // positions and labels in exported graphs
	strict   bool   // fail when any gesture failed
	json     bool   // print the replay report as JSON
}

// runCommand creates the run command replaying a gesture script.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Replay a gesture script and summarize the resulting nets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRun(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "configuration file")
	cmd.Flags().StringVar(&opts.dot, "dot", "", "write the net graph as DOT to this file")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "render the net graph as SVG to this file")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "sheet to export (default: first sheet)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show positions and labels in exported graphs")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when any gesture failed")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the replay report as JSON")

	return cmd
}

// dotCommand creates the dot command printing the net graph of a script.
func (c *CLI) dotCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "dot [script]",
		Short: "Replay a gesture script and print the DOT graph of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.replay(cmd.Context(), args[0], opts.config)
			if err != nil {
				return err
			}
			sheet, err := exportSheet(res.Session, opts.sheet)
			if err != nil {
				return err
			}
			fmt.Fprint(stdout, netgraph.ToDOT(sheet, res.Session.Circuit, netgraph.DOTOptions{Detailed: opts.detailed}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "configuration file")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "sheet to export (default: first sheet)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show positions and labels")

	return cmd
}

// replay parses and runs a script file.
func (c *CLI) replay(ctx context.Context, path, configPath string) (*script.Result, error) {
	cfg, err := c.loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	parser, err := script.NewParser()
	if err != nil {
		return nil, err
	}
	s, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return script.NewRunner(cfg, loggerFromContext(ctx)).Run(ctx, s)
}

func (c *CLI) runRun(ctx context.Context, path string, opts *runOpts) error {
	prog := newProgress(loggerFromContext(ctx))
	res, err := c.replay(ctx, path, opts.config)
	if err != nil {
		return err
	}
	prog.done("Replayed " + path)

	report := script.NewReport(res, opts.json)
	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printSuccess("Replayed %s", path)
		printStats(report.Gestures, len(report.Committed), len(report.Failures))
		for _, f := range report.Failures {
			printError("line %d: %s: %s", f.Line, f.Gesture, f.Message)
		}
		printNetTable(report.Nets)
	}

	if opts.dot != "" || opts.svg != "" {
		sheet, err := exportSheet(res.Session, opts.sheet)
		if err != nil {
			return err
		}
		if err := writeGraphs(ctx, res.Session, sheet, opts); err != nil {
			return err
		}
	}

	if opts.strict && len(res.Failures) > 0 {
		printWarning("%d gestures failed", len(res.Failures))
		return fmt.Errorf("%s: %d gestures failed", path, len(res.Failures))
	}
	return nil
}

// exportSheet selects the sheet named name, or the first sheet.
func exportSheet(sess *session.Session, name string) (*netgraph.Sheet, error) {
	if name != "" {
		if sh := sess.Sheet(name); sh != nil {
			return sh, nil
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "no sheet named %q", name)
	}
	sheets := sess.Sheets()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "script created no sheet")
	}
	return sheets[0], nil
}

func writeGraphs(ctx context.Context, sess *session.Session, sheet *netgraph.Sheet, opts *runOpts) error {
	dot := netgraph.ToDOT(sheet, sess.Circuit, netgraph.DOTOptions{Detailed: opts.detailed})
	if opts.dot != "" {
		if err := os.WriteFile(opts.dot, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write dot: %w", err)
		}
		printFile(opts.dot)
	}
	if opts.svg != "" {
		svg, err := netgraph.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.svg, svg, 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		printFile(opts.svg)
	}
	return nil
}
