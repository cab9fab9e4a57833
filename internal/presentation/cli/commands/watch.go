package commands

import (
	"context"

	"github.com/spf13/cobra"

	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
	"github.com/jbctechsolutions/tokcount/internal/domain/provider"
	"github.com/jbctechsolutions/tokcount/internal/infrastructure/filesystem"
	"github.com/jbctechsolutions/tokcount/internal/presentation/cli/output"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	var flags countFlags

	cmd := &cobra.Command{
		Use:   "watch <provider> <file>",
		Short: "Recount a file every time it is saved",
		Long: `Count the tokens in a file, then count again each time the file changes.
Bursts of writes are collapsed into one count. Press Ctrl-C to stop.`,
		Example: `  tokcount watch openai prompt.md
  tokcount watch anthropic prompt.md --cost -q`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := provider.ParseProvider(args[0])
			if err != nil {
				return err
			}
			status := newFormatter(cmd.ErrOrStderr(), output.FormatText)
			return runWatch(cmd.Context(), p, args[1], flags, status)
		},
	}

	flags.register(cmd)

	return cmd
}

// runWatch counts path once, then again on every change until ctx is done.
// Configuration and dependency errors stop the watch; anything else is
// reported on status and the watch goes on.
func runWatch(ctx context.Context, p provider.Provider, path string, flags countFlags, status *output.Formatter) error {
	if ctx == nil {
		ctx = context.Background()
	}

	watcher, err := filesystem.NewFileWatcher(path, filesystem.DefaultWatcherConfig())
	if err != nil {
		return domainErrors.WithContext(domainErrors.Validation("cannot watch "+path, err), "path", path)
	}
	defer watcher.Close()

	if err := watcher.Start(); err != nil {
		return domainErrors.Dependency("cannot watch "+path, err)
	}
	_ = status.Info("Watching %s (Ctrl-C to stop)", watcher.Path())

	recount := func() error {
		err := countFile(ctx, p, watcher.Path(), flags)
		if err == nil {
			return nil
		}
		switch domainErrors.CodeOf(err) {
		case domainErrors.CodeConfiguration, domainErrors.CodeDependency:
			return err
		}
		_ = status.Warning("%s", domainErrors.UserMessage(err))
		return nil
	}

	if err := recount(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case change, ok := <-watcher.Changes():
			if !ok {
				return nil
			}
			if change.Type == filesystem.ChangeRemove {
				_ = status.Warning("%s was removed; waiting for it to come back", change.Path)
				continue
			}
			if err := recount(); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors():
			if !ok {
				return nil
			}
			_ = status.Warning("watch error: %v", err)
		}
	}
}

func countFile(ctx context.Context, p provider.Provider, path string, flags countFlags) error {
	text, err := filesystem.ReadTextFile(path)
	if err != nil {
		return err
	}
	result, err := count(ctx, p, text, flags)
	if err != nil {
		return err
	}
	return GetFormatter().CountResult(result, flags.cost, flags.quiet)
}
