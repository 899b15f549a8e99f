package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/docreader/internal/watcher"
)

const maxLookupLine = 1 << 20

func newBatchCommand(opts *globalOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve JSON lookups read line by line from stdin",
		Long: `Reads one JSON lookup per line from stdin, for example

  {"type": "com.example.SimpleType", "field": "simpleField", "tag": "deprecated"}
  {"type": "com.example.SimpleType", "method": "simpleMethod", "param": "simpleParameter"}

and writes one JSON result per line to stdout. Lookups that fail carry an
"error" key; the batch keeps going. With --watch the search path is watched and
changed documents are re-read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			if cmd.Flags().Changed("watch") {
				a.cfg.Watch.Enabled = watch
			}
			return a.runBatch(cmd)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "invalidate cached documents when search-path files change (default from config)")
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.Watch.Enabled {
		w := watcher.NewWatcher(
			a.resolver.SearchPath(),
			a.resolver.InvalidateName,
			watcher.WithDebounce(a.cfg.Watch.Debounce),
			watcher.WithLogger(a.logger),
		)
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := w.Start(watchCtx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer w.Stop()
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLookupLine)
	enc := json.NewEncoder(cmd.OutOrStdout())
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		result := a.resolveLine(ctx, raw)
		if result.Error != "" {
			a.logger.Warn("batch lookup failed", zap.Int("line", line), zap.String("error", result.Error))
		}
		if err := enc.Encode(result); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (a *app) resolveLine(ctx context.Context, raw string) *Result {
	var l Lookup
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		return &Result{Error: fmt.Sprintf("invalid lookup: %v", err)}
	}
	text, err := Resolve(ctx, a.resolver, l)
	result := &Result{Lookup: l, Text: text}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
