package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/todolist/internal/model"
)

// -------------- subcommand definitions ----------------

func (a *app) lsCmd() *cobra.Command {
	var group bool
	var output string
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List items",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.doList(cmd.Context(), group, output)
		},
	}
	cmd.Flags().BoolVarP(&group, "group", "g", false, "group output by pending/done")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table | json | yaml")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <title...>",
		Short:   "Append a new item (title can be multiple words)",
		Example: `  todo add "Buy milk"`,
		Args:    usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.doAdd(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func (a *app) insertCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "insert <index> <title...>",
		Short:   "Insert a new item before the 1-based index (len+1 appends)",
		Example: `  todo insert 1 "Wake up"`,
		Args:    usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseIndex("insert", args[0])
			if err != nil {
				return err
			}
			return a.doInsert(cmd.Context(), n, strings.Join(args[1:], " "))
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for item at 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseIndex("done", args[0])
			if err != nil {
				return err
			}
			return a.doToggle(cmd.Context(), n)
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> <title...>",
		Short: "Replace the title of the item at 1-based index",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseIndex("edit", args[0])
			if err != nil {
				return err
			}
			return a.doEdit(cmd.Context(), n, strings.Join(args[1:], " "))
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove item at 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseIndex("rm", args[0])
			if err != nil {
				return err
			}
			return a.doRemove(cmd.Context(), n)
		},
	}
}

func parseIndex(cmd, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, usageError{fmt.Errorf("%s: not a number: %s", cmd, raw)}
	}
	return n, nil
}

// -------------- subcommand impls ----------------

func (a *app) doList(ctx context.Context, group bool, output string) error {
	items, err := a.backend().ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	switch strings.ToLower(output) {
	case "json":
		b, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		fmt.Fprintln(a.out.Out, string(b))
		return nil
	case "yaml":
		enc := yaml.NewEncoder(a.out.Out)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		return enc.Close()
	case "table", "":
	default:
		return usageError{fmt.Errorf("ls: unknown output format %q", output)}
	}

	lines := a.out.Header(items)
	lines = append(lines, "")
	lines = append(lines, a.out.ListLines(items, group)...)
	lines = append(lines, "")
	lines = append(lines, a.out.C(a.out.Theme.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	a.out.Panel(lines)
	return nil
}

func (a *app) doAdd(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		a.out.Fail("add: empty title")
		return exitCode(ExitUsage)
	}
	b := a.backend()
	items, err := b.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := b.InsertAt(ctx, len(items), model.Element{Title: title}); err != nil {
		return a.mutationFailed(err, len(items)+1)
	}
	a.out.OK("added")
	return nil
}

func (a *app) doInsert(ctx context.Context, userIndex int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		a.out.Fail("insert: empty title")
		return exitCode(ExitUsage)
	}
	b := a.backend()
	items, err := b.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	// one past the end is a valid insert position
	if userIndex < 1 || userIndex > len(items)+1 {
		return a.outOfRange(len(items), userIndex)
	}
	if err := b.InsertAt(ctx, userIndex-1, model.Element{Title: title}); err != nil {
		return a.mutationFailed(err, userIndex)
	}
	a.out.OK("inserted")
	return nil
}

func (a *app) doToggle(ctx context.Context, userIndex int) error {
	b := a.backend()
	items, err := b.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if userIndex < 1 || userIndex > len(items) {
		return a.outOfRange(len(items), userIndex)
	}
	idx := userIndex - 1
	e := items[idx]
	e.Status = e.Status.Toggle()
	if err := b.UpdateAt(ctx, idx, e); err != nil {
		return a.mutationFailed(err, userIndex)
	}
	a.out.OK("toggled")
	return nil
}

func (a *app) doEdit(ctx context.Context, userIndex int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		a.out.Fail("edit: empty title")
		return exitCode(ExitUsage)
	}
	b := a.backend()
	items, err := b.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if userIndex < 1 || userIndex > len(items) {
		return a.outOfRange(len(items), userIndex)
	}
	idx := userIndex - 1
	e := items[idx]
	e.Title = title
	if err := b.UpdateAt(ctx, idx, e); err != nil {
		return a.mutationFailed(err, userIndex)
	}
	a.out.OK("updated")
	return nil
}

func (a *app) doRemove(ctx context.Context, userIndex int) error {
	b := a.backend()
	items, err := b.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if userIndex < 1 || userIndex > len(items) {
		return a.outOfRange(len(items), userIndex)
	}
	if err := b.RemoveAt(ctx, userIndex-1); err != nil {
		return a.mutationFailed(err, userIndex)
	}
	a.out.OK("removed")
	return nil
}

// -------------- failure reporting --------------

func (a *app) outOfRange(have, got int) error {
	a.out.Fail(fmt.Sprintf("index out of range: have %d, got %d", have, got))
	a.out.Hint("Hint: run `todo ls` to see valid indexes")
	return exitCode(ExitUsage)
}

// mutationFailed handles the list changing between our read and the write.
func (a *app) mutationFailed(err error, userIndex int) error {
	if errors.Is(err, model.ErrIndexOutOfBounds) {
		a.out.Fail(fmt.Sprintf("index out of range: got %d (the list changed, try again)", userIndex))
		return exitCode(ExitUsage)
	}
	return fmt.Errorf("save: %w", err)
}
