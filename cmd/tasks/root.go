package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasks/internal/export"
	"github.com/sandeepkv93/tasks/internal/model"
	"github.com/sandeepkv93/tasks/internal/snapshot"
	"github.com/sandeepkv93/tasks/internal/storage"
	"github.com/sandeepkv93/tasks/internal/update"
)

type rootOptions struct {
	configPath string
	dbPath     string
	memory     bool
}

type store interface {
	storage.KV
	Close() error
}

type memoryCloser struct {
	*storage.MemoryStore
}

func (memoryCloser) Close() error { return nil }

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "tasks",
		Short:         "A persisted todo list for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().BoolVar(&opts.memory, "memory", false, "keep state in memory only")

	root.AddCommand(
		newAddCmd(opts),
		newTargetCmd(opts, "toggle", "Flip a task between pending and completed", func(id int64) model.Action { return model.ToggleTodo{ID: id} }),
		newTargetCmd(opts, "delete", "Remove a task", func(id int64) model.Action { return model.DeleteTodo{ID: id} }),
		newDispatchCmd(opts),
		newListCmd(opts),
		newExportCmd(opts),
		newResetCmd(opts),
	)
	return root
}

func (o *rootOptions) config() (update.RuntimeConfig, error) {
	cfg, err := update.LoadRuntimeConfig(o.configPath)
	if err != nil {
		return update.RuntimeConfig{}, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.memory {
		cfg.Memory = true
	}
	return cfg, nil
}

func openStore(cfg update.RuntimeConfig) (store, error) {
	if cfg.Memory {
		return memoryCloser{storage.NewMemoryStore()}, nil
	}
	return storage.OpenSQLite(cfg.DBPath)
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	logFile, err := tea.LogToFile(cfg.LogPath, "tasks")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	program := tea.NewProgram(update.NewModelWithConfig(ctx, kv, logger, cfg))
	_, err = program.Run()
	return err
}

// withState opens the store, hydrates, and hands the state to fn. When fn
// returns a non-nil action it is reduced and the result written back.
func withState(cmd *cobra.Command, opts *rootOptions, fn func(storage.KV, model.TaskState) (model.Action, error)) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	ctx := cmd.Context()
	state := snapshot.LoadInitialState(ctx, kv, logger)
	action, err := fn(kv, state)
	if err != nil || action == nil {
		return err
	}
	next := model.Reduce(state, action)
	if err := snapshot.Save(ctx, kv, next); err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), next)
	return nil
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("task text is empty")
			}
			return withState(cmd, opts, func(_ storage.KV, _ model.TaskState) (model.Action, error) {
				return model.AddTodo{Text: text}, nil
			})
		},
	}
}

func newTargetCmd(opts *rootOptions, use, short string, build func(int64) model.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			return withState(cmd, opts, func(_ storage.KV, state model.TaskState) (model.Action, error) {
				if _, ok := state.Find(id); !ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "no task with id %d\n", id)
				}
				return build(id), nil
			})
		},
	}
}

func newDispatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch <action-json>",
		Short: `Apply a raw action such as {"type":"ADD_TODO","payload":"milk"}`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := model.DecodeAction([]byte(args[0]))
			if err != nil {
				return err
			}
			return withState(cmd, opts, func(_ storage.KV, _ model.TaskState) (model.Action, error) {
				return action, nil
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var filter string
	c := &cobra.Command{
		Use:   "list",
		Short: "Print tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return err
			}
			return withState(cmd, opts, func(kv storage.KV, state model.TaskState) (model.Action, error) {
				printList(cmd.OutOrStdout(), state, f)
				at, ok, err := snapshot.SavedAt(cmd.Context(), kv)
				if err != nil {
					return nil, err
				}
				if ok {
					fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", at.Local().Format(time.DateTime))
				}
				return nil, nil
			})
		},
	}
	c.Flags().StringVar(&filter, "filter", "all", "all, pending or completed")
	return c
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, filter string
	c := &cobra.Command{
		Use:   "export <path>",
		Short: "Write tasks as md, json, csv or pdf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return err
			}
			path := args[0]
			return withState(cmd, opts, func(_ storage.KV, state model.TaskState) (model.Action, error) {
				out, err := export.Export(state, f, export.FormatForPath(path, format))
				if err != nil {
					return nil, err
				}
				if err := os.WriteFile(path, out, 0o644); err != nil {
					return nil, fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil, nil
			})
		},
	}
	c.Flags().StringVar(&format, "format", "", "md, json, csv or pdf (default from extension)")
	c.Flags().StringVar(&filter, "filter", "all", "all, pending or completed")
	return c
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget every task by removing the saved state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			kv, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			if err := snapshot.Reset(cmd.Context(), kv); err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), model.ZeroState())
			return nil
		},
	}
}

func printList(w io.Writer, state model.TaskState, f model.Filter) {
	for _, todo := range model.Visible(state, f) {
		mark := " "
		if todo.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %d  %s\n", mark, todo.ID, todo.Text)
	}
	printSummary(w, state)
}

func printSummary(w io.Writer, state model.TaskState) {
	fmt.Fprintln(w, export.Summary(state))
}
