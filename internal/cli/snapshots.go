package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dockspace/pkg/layout"
	"github.com/matzehuels/dockspace/pkg/store"
)

// saveCommand creates the save command.
func (c *CLI) saveCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "save <name> [layout.json]",
		Short: "Store a layout as a named snapshot",
		Long: `Store a layout as a named snapshot in the configured store.

The layout is validated first; use --force to store it anyway. Saving over an
existing name keeps the snapshot's id and creation time.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			l, source, err := readLayoutArg(cmd, args[1:])
			if err != nil {
				return err
			}
			if err := layout.Validate(l); err != nil && !force {
				return err
			}
			snap, err := store.NewSnapshot(name, l)
			if err != nil {
				return err
			}

			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Put(ctx, snap); err != nil {
				return err
			}
			c.Logger.Debug("saved", "name", name, "source", source, "bytes", len(snap.Layout))

			w := cmd.OutOrStdout()
			printSuccess(w, "Saved %s", StyleHighlight.Render(name))
			printStats(w, snap.Stats)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "store layouts that fail validation")
	return cmd
}

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var info bool

	cmd := &cobra.Command{
		Use:               "show <name>",
		Short:             "Print a stored layout",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeLayoutNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			snap, err := s.Get(ctx, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if info {
				printKeyValue(w, "name", snap.Name)
				printKeyValue(w, "id", snap.ID)
				printKeyValue(w, "format", strconv.Itoa(snap.Format))
				printKeyValue(w, "created", snap.CreatedAt.Local().Format(time.DateTime))
				printKeyValue(w, "updated", snap.UpdatedAt.Local().Format(time.DateTime))
				printStats(w, snap.Stats)
				return nil
			}
			l, err := snap.Decode()
			if err != nil {
				return err
			}
			return layout.WriteJSON(l, w)
		},
	}

	cmd.Flags().BoolVar(&info, "info", false, "print snapshot metadata instead of the layout")
	return cmd
}

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored layouts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			list, err := s.List(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			if len(list) == 0 {
				printInfo(w, "No stored layouts")
				printNextStep(w, "Save one", appName+" save <name> layout.json")
				return nil
			}
			for _, sum := range list {
				fmt.Fprintf(w, "%s  %s\n", StyleValue.Render(sum.Name), StyleDim.Render(sum.UpdatedAt.Local().Format(time.DateTime)))
				printStats(w, sum.Stats)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print summaries as JSON")
	return cmd
}

// deleteCommand creates the delete command.
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>...",
		Aliases:           []string{"rm"},
		Short:             "Delete stored layouts",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeLayoutNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			w := cmd.OutOrStdout()
			for _, name := range args {
				if err := s.Delete(ctx, name); err != nil {
					return err
				}
				printSuccess(w, "Deleted %s", name)
			}
			return nil
		},
	}
}
