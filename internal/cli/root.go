// Package cli defines the Cobra command for the tokgauge CLI.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tokgauge/tokgauge/internal/analyzer"
	"github.com/tokgauge/tokgauge/internal/config"
	"github.com/tokgauge/tokgauge/internal/export"
	"github.com/tokgauge/tokgauge/internal/tokenizer"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// countTimeout bounds a remote token count.
const countTimeout = 30 * time.Second

// errUsage marks invocation mistakes; the usage text is printed for them.
var errUsage = errors.New("invalid usage")

// Exit codes. A WARNING result shares its code with failures.
const (
	exitSafe    = 0
	exitWarning = 1
	exitDanger  = 2
	exitError   = 1
)

// Execute runs the root command against os.Args and exits.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes tokgauge with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	var code int
	cmd := newRootCmd(stdout, stderr, &code)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	switch {
	case err == nil:
		return code
	case errors.Is(err, errUsage):
		if err != errUsage {
			fmt.Fprintf(stderr, "❌ Error: %v\n", err)
		}
		fmt.Fprint(stdout, cmd.UsageString())
		return exitError
	case errors.Is(err, analyzer.ErrFileNotFound):
		fmt.Fprintf(stderr, "❌ Error: %v\n", err)
		return exitError
	default:
		fmt.Fprintf(stderr, "❌ Unexpected error: %v\n", err)
		fmt.Fprintf(stderr, "%+v\n", err)
		return exitError
	}
}

// ExitCode maps a status to the process exit code.
func ExitCode(s analyzer.Status) int {
	switch s {
	case analyzer.StatusDanger:
		return exitDanger
	case analyzer.StatusWarning:
		return exitWarning
	default:
		return exitSafe
	}
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	var (
		jsonOut bool
		backend string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "tokgauge <file_path>",
		Short: "Estimate how much of a 200K-token context window a file consumes",
		Long: `tokgauge counts the tokens in a file and reports whether feeding it
whole to an LLM is SAFE (<10% of the context window), WARNING (<25%)
or DANGER (>=25%).

Exit codes: 0 = SAFE, 1 = WARNING or error, 2 = DANGER.`,
		Example: `  tokgauge src/integration_mapper/mapper.py
  tokgauge docs/WIKI.md --json
  tokgauge README.md --tokenizer tiktoken-embedded`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.WithStack(err)
			}
			if backend != "" {
				cfg.Tokenizer.Backend = backend
			}

			counter, err := tokenizer.New(tokenizer.Options{
				Backend:  cfg.Tokenizer.Backend,
				Model:    cfg.Tokenizer.Model,
				Encoding: cfg.Tokenizer.Encoding,
				APIKey:   cfg.Keys.Anthropic,
				BaseURL:  cfg.Anthropic.BaseURL,
			}, stderr)
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), countTimeout)
			defer cancel()

			rep, err := analyzer.New(counter).Analyze(ctx, args[0])
			if errors.Is(err, analyzer.ErrFileNotFound) {
				return err
			}
			if err != nil {
				return errors.WithStack(err)
			}

			textExporter, err := export.New("text", export.Options{
				Color:  cfg.Output.Color && !noColor && colorEnabled(stdout),
				Method: counter.Method(),
			})
			if err != nil {
				return errors.WithStack(err)
			}
			text, err := textExporter.Export(rep)
			if err != nil {
				return errors.WithStack(err)
			}
			fmt.Fprint(stdout, text)

			if jsonOut {
				path, err := export.WriteArtifact(rep)
				if err != nil {
					return errors.WithStack(err)
				}
				fmt.Fprintf(stdout, "📄 JSON output saved to: %s\n", path)
			}

			*code = ExitCode(rep.Status)
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"also write the report to <file_path_without_extension>.tokens.json")
	cmd.Flags().StringVar(&backend, "tokenizer", "",
		"token counting backend: anthropic, tiktoken (downloads its vocabulary once), tiktoken-embedded, simple (default from config)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured status output")

	return cmd
}

// colorEnabled reports whether w is a terminal that accepts ANSI styling.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
