package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperjump/docreader/internal/storage"
)

// statusDirectory is one search-path entry as seen on disk.
type statusDirectory struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// statusBundle describes the bundle database, when one is open.
type statusBundle struct {
	Path      string `json:"path"`
	ID        string `json:"id"`
	Documents int64  `json:"documents"`
}

// statusResponse is the shape of the status command's JSON output.
type statusResponse struct {
	SearchPath     []statusDirectory `json:"search_path"`
	Fallback       string            `json:"fallback,omitempty"`
	Bundle         *statusBundle     `json:"bundle,omitempty"`
	CacheSize      int               `json:"cache_size"`
	WatchEnabled   bool              `json:"watch_enabled"`
	DiskUsageBytes *int64            `json:"disk_usage_bytes,omitempty"`
}

func newStatusCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the search path, fallback and bundle in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			status, err := a.status(cmd)
			if err != nil {
				return err
			}
			if a.format == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}
			writeStatusText(cmd.OutOrStdout(), status)
			return nil
		},
	}
}

func (a *app) status(cmd *cobra.Command) (*statusResponse, error) {
	status := &statusResponse{
		CacheSize:    a.cfg.Cache.Size,
		WatchEnabled: a.cfg.Watch.Enabled,
	}
	usagePaths := []string{}
	for _, dir := range a.resolver.SearchPath() {
		info, err := os.Stat(dir)
		exists := err == nil && info.IsDir()
		status.SearchPath = append(status.SearchPath, statusDirectory{Path: dir, Exists: exists})
		if exists {
			usagePaths = append(usagePaths, dir)
		}
	}
	if fb := a.resolver.Fallback(); fb != nil {
		status.Fallback = fb.String()
	}
	if a.bundle != nil {
		info, err := a.bundle.BundleInfo(cmd.Context())
		if err != nil {
			return nil, err
		}
		count, err := a.bundle.CountDocuments(cmd.Context())
		if err != nil {
			return nil, err
		}
		status.Bundle = &statusBundle{Path: a.cfg.Bundle.DatabasePath, ID: info.ID, Documents: count}
		usagePaths = append(usagePaths, storage.BundleFiles(a.cfg.Bundle.DatabasePath)...)
	} else if a.cfg.Bundle.Dir != "" {
		usagePaths = append(usagePaths, a.cfg.Bundle.Dir)
	}
	if diskBytes, err := storage.DiskUsageBytes(usagePaths...); err == nil {
		status.DiskUsageBytes = &diskBytes
	}
	return status, nil
}

func writeStatusText(w io.Writer, status *statusResponse) {
	fmt.Fprintln(w, "# search path (first match wins)")
	if len(status.SearchPath) == 0 {
		fmt.Fprintln(w, "  (none; fallback only)")
	}
	for i, d := range status.SearchPath {
		state := "ok"
		if !d.Exists {
			state = "missing"
		}
		fmt.Fprintf(w, "  %d. %s [%s]\n", i+1, d.Path, state)
	}
	fmt.Fprintln(w)
	if status.Fallback != "" {
		fmt.Fprintf(w, "fallback:           %s\n", status.Fallback)
	} else {
		fmt.Fprintln(w, "fallback:           (none)")
	}
	if status.Bundle != nil {
		fmt.Fprintf(w, "bundle_id:          %s\n", status.Bundle.ID)
		fmt.Fprintf(w, "bundle_documents:   %d\n", status.Bundle.Documents)
	}
	fmt.Fprintf(w, "cache_size:         %d\n", status.CacheSize)
	fmt.Fprintf(w, "watch_enabled:      %t\n", status.WatchEnabled)
	if status.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d   # search path + bundle on disk\n", *status.DiskUsageBytes)
	}
}
