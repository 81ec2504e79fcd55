package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	pkgio "github.com/matzehuels/crosswire/pkg/io"
	"github.com/matzehuels/crosswire/pkg/pipeline"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	input         inputFlags
	to            formatValue
	output        string // output file, or directory when converting several inputs
	omitPlayState bool
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert puzzles between formats",
		Long: `Convert puzzles between the native, ipuz and jpz formats.

The input format is detected from content, then from the file extension,
unless --from is given. With no file, or "-", the puzzle is read from stdin.

Examples:
  crosswire convert monday.jpz -t ipuz -o monday.ipuz
  crosswire convert -t jpz < puzzle.ipuz > puzzle.jpz
  crosswire convert *.jpz -t native -o out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{pkgio.Stdio}
			}
			return c.runConvert(cmd, args, &opts)
		},
	}

	opts.input.register(cmd)
	formatFlag(cmd, cmd.Flags(), &opts.to, "to", "t", "output format, default from config")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty), or directory for several inputs")
	cmd.Flags().BoolVar(&opts.omitPlayState, "omit-play-state", false, "drop responses, notes and other play state")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, paths []string, opts *convertOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	to := opts.to.format
	if to == "" {
		to = c.Config.OutputFormat
	}
	omit := opts.omitPlayState || c.Config.OmitPlayState

	runner, err := c.newRunner(ctx, opts.input.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	targets, err := outputPaths(paths, opts.output, to)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	for i, path := range paths {
		data, err := pkgio.ReadInput(path, cmd.InOrStdin())
		if err != nil {
			return err
		}
		po := opts.input.options(path)
		po.To = to
		po.OmitPlayState = omit
		po.Logger = logger

		res, err := runner.Convert(ctx, data, po)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := pkgio.WriteOutput(targets[i], res.Output, cmd.OutOrStdout()); err != nil {
			return err
		}
		if targets[i] != "" {
			printSuccess("Converted %s", path)
			printConvertStats(res)
			printFile(targets[i])
		}
	}
	if len(paths) > 1 {
		prog.done(fmt.Sprintf("Converted %d puzzles", len(paths)))
	}
	return nil
}

// outputPaths returns where each input is written. A single input goes to
// output (stdout when empty). Several inputs go next to their source, or
// into output as a directory, with the target format's extension.
func outputPaths(paths []string, output string, to codec.Format) ([]string, error) {
	if len(paths) == 1 {
		return []string{output}, nil
	}
	c, err := pipeline.DefaultRegistry().Lookup(string(to))
	if err != nil {
		return nil, err
	}
	ext := c.Extensions()[0]
	if output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidPath, err, "create %s", output)
		}
	}

	out := make([]string, len(paths))
	seen := make(map[string]string, len(paths))
	for i, p := range paths {
		if p == pkgio.Stdio {
			return nil, cwerrors.New(cwerrors.ErrCodeInvalidInput, "stdin cannot be combined with other inputs")
		}
		base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)) + ext
		dir := filepath.Dir(p)
		if output != "" {
			dir = output
		}
		target := filepath.Join(dir, base)
		if target == filepath.Clean(p) {
			return nil, cwerrors.New(cwerrors.ErrCodeInvalidInput, "%s would overwrite its input", p)
		}
		if prev, dup := seen[target]; dup {
			return nil, cwerrors.New(cwerrors.ErrCodeInvalidInput, "%s and %s both write %s", prev, p, target)
		}
		seen[target] = p
		out[i] = target
	}
	return out, nil
}
