package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
)

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [file]",
		Short: "Step through the positioned beats of a sequence",
		Long: `Browse positions a sequence and opens an interactive beat browser showing
each beat's decision, prop anchors and orientations.

Without a file argument browse lists the sequences in the configured store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				seq pictograph.Sequence
				err error
			)
			if len(args) == 1 {
				seq, err = readSequence(cmd.InOrStdin(), args[0])
			} else {
				var picked bool
				seq, picked, err = c.pickStored(cmd)
				if err == nil && !picked {
					return nil
				}
			}
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.PositionSequence(ctx, seq)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewBeatListModel(res), tea.WithAltScreen(), tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}
}

// pickStored lets the user choose a stored sequence. picked is false when
// the user quits without choosing.
func (c *CLI) pickStored(cmd *cobra.Command) (seq pictograph.Sequence, picked bool, err error) {
	ctx := cmd.Context()
	st, err := c.Config().OpenStore(ctx)
	if err != nil {
		return seq, false, err
	}
	defer st.Close(ctx)

	list, err := st.List(ctx)
	if err != nil {
		return seq, false, err
	}
	if len(list) == 0 {
		printInfo(cmd.OutOrStdout(), "No stored sequences")
		return seq, false, nil
	}

	p := tea.NewProgram(NewStoredListModel(list), tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
	final, err := p.Run()
	if err != nil {
		return seq, false, fmt.Errorf("select sequence: %w", err)
	}
	m, ok := final.(StoredListModel)
	if !ok || m.Selected == nil {
		return seq, false, nil
	}
	seq, err = st.Get(ctx, m.Selected.ID)
	return seq, err == nil, err
}
