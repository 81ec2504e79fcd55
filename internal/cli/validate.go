package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	pkgio "github.com/matzehuels/crosswire/pkg/io"
	"github.com/matzehuels/crosswire/pkg/pipeline"
)

// validateCommand creates the validate command. It parses every file and
// reports each failure with its error code.
func (c *CLI) validateCommand() *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that puzzle files parse",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, input.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			failed := 0
			for _, path := range args {
				detail, err := validateOne(cmd, runner, path, input.options(path))
				if err != nil {
					failed++
					printError("%s", path)
					printDetail("%s: %s", codeOf(err), cwerrors.UserMessage(err))
					continue
				}
				printSuccess("%s %s", path, StyleDim.Render(detail))
			}
			if failed > 0 {
				return cwerrors.New(cwerrors.ErrCodeInvalidInput, "%d of %d files failed validation", failed, len(args))
			}
			return nil
		},
	}

	input.register(cmd)
	return cmd
}

func validateOne(cmd *cobra.Command, runner *pipeline.Runner, path string, opts pipeline.Options) (string, error) {
	data, err := pkgio.ReadInput(path, cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	p, info, err := runner.Parse(cmd.Context(), data, opts)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s, %dx%d, %d clues", info.Format, p.Width(), p.Height(), len(p.AllClues())), nil
}

func codeOf(err error) cwerrors.Code {
	if code := cwerrors.GetCode(err); code != "" {
		return code
	}
	return cwerrors.ErrCodeInternal
}
