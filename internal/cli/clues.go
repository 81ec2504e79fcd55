package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/crosswire/pkg/io"
)

// cluesCommand creates the clues command: an interactive browser, or a
// plain listing with --plain or when stdout is not a terminal.
func (c *CLI) cluesCommand() *cobra.Command {
	var (
		input inputFlags
		list  string
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "clues <file>",
		Short: "Browse a puzzle's clues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := pkgio.ReadInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, input.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			p, _, err := runner.Parse(ctx, data, input.options(args[0]))
			if err != nil {
				return err
			}
			model := NewClueListModel(p, list)

			if plain || !isTerminal(cmd.OutOrStdout()) {
				for _, name := range model.Lists {
					if list != "" && !strings.EqualFold(name, list) {
						continue
					}
					fmt.Fprintln(cmd.OutOrStdout(), name)
					for _, clue := range p.Clues(name).Clues() {
						fmt.Fprintf(cmd.OutOrStdout(), "%4s  %s\n", clue.DisplayNumber(), clue.Hint)
					}
				}
				return nil
			}

			_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
			return err
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&list, "list", "l", "", "clue list to show first (e.g. Across)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the clues instead of opening the browser")
	return cmd
}
