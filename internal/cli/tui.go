package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/liststore"
	"github.com/idilsaglam/todolist/internal/tui"
	"github.com/idilsaglam/todolist/internal/ui"
)

func (a *app) tuiCmd() *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive list (arrows to move, space toggle, a add, e edit, d delete, u undo)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := a.backend()
			if local {
				b = liststore.Local(liststore.New())
			}
			return tui.Run(cmd.Context(), b, ui.ThemeByName(a.cfg.UI.Theme))
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "use a throwaway in-process list instead of the server")
	return cmd
}
