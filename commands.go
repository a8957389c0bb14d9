package powerfulcases

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// NewCommand creates a Cobra command tree for case management.
// The returned command can be executed standalone or added to a parent
// CLI's root command.
//
// Commands provided:
//   - cases list [--remote] [--cached] [--collection C] [--tag T]
//   - cases info <name>
//   - cases download <name> [--force]
//   - cases path <name>
//   - cases export <name> <dest> [--overwrite]
//   - cases clear-cache [name] [--all]
//   - cases cache-info
//   - cases create-manifest <dir> [--name N] [--description D]
//
// Global flags: --json, --quiet
func NewCommand(cfg Config, opts ...ManagerOption) *cobra.Command {
	var (
		jsonOutput bool
		quiet      bool
	)

	// Manager is created in PersistentPreRunE so flag errors and help
	// don't touch the filesystem.
	var mgr Manager

	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Manage power-system test case data",
		Long:  "Load, list, download, and export power-system test case bundles.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			var err error
			mgr, err = NewManager(cfg, opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize manager: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(listCasesCmd(&mgr, &jsonOutput))
	cmd.AddCommand(caseInfoCmd(&mgr, &jsonOutput))
	cmd.AddCommand(downloadCmd(&mgr, &quiet))
	cmd.AddCommand(casePathCmd(&mgr))
	cmd.AddCommand(exportCmd(&mgr, &quiet))
	cmd.AddCommand(clearCacheCmd(&mgr, &quiet))
	cmd.AddCommand(cacheInfoCmd(&mgr, &jsonOutput))
	cmd.AddCommand(createManifestCmd(&mgr, &quiet))

	return cmd
}

func listCasesCmd(mgr *Manager, jsonOutput *bool) *cobra.Command {
	var (
		remote     bool
		cached     bool
		collection string
		tag        string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cases",
		Long:  "List available cases, or only remote/cached cases with --remote/--cached.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var names []string
			var err error
			switch {
			case remote:
				names, err = (*mgr).RemoteCases(ctx)
			case cached:
				info, cerr := (*mgr).CacheInfo(ctx)
				names, err = info.Cases, cerr
			default:
				var opts []ListOption
				if collection != "" {
					opts = append(opts, WithCollection(collection))
				}
				if tag != "" {
					opts = append(opts, WithTag(tag))
				}
				names, err = (*mgr).Cases(ctx, opts...)
			}
			if err != nil {
				return err
			}
			return outputNames(cmd.OutOrStdout(), names, *jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "Show only remote cases")
	cmd.Flags().BoolVarP(&cached, "cached", "c", false, "Show only cached cases")
	cmd.Flags().StringVar(&collection, "collection", "", "Filter by collection")
	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")
	return cmd
}

func caseInfoCmd(mgr *Manager, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show case information",
		Long:  "Show a case's description, credits, and file listing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := (*mgr).Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return outputCaseDetail(cmd.OutOrStdout(), bundle, *jsonOutput)
		},
	}
}

func downloadCmd(mgr *Manager, quiet *bool) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "download <name>",
		Short: "Download a remote case to the local cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []DownloadOption{}
			if force {
				opts = append(opts, WithForce())
			}

			if !*quiet {
				var bar *progressbar.ProgressBar
				opts = append(opts, WithProgress(func(p DownloadProgress) {
					if p.FilesTotal == 0 {
						return
					}
					if bar == nil {
						bar = progressbar.NewOptions(p.FilesTotal,
							progressbar.OptionSetDescription("Downloading "+p.Case),
							progressbar.OptionSetWriter(cmd.OutOrStdout()),
							progressbar.OptionShowCount(),
						)
					}
					bar.Set(p.FilesCompleted)
				}))
			}

			dir, err := (*mgr).Download(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}

			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "\nDownloaded to: %s\n", dir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-download even if cached")
	return cmd
}

func casePathCmd(mgr *Manager) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "path <name>",
		Short: "Print a case's directory, or one file with --format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := (*mgr).Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if format == "" {
				fmt.Fprintln(cmd.OutOrStdout(), bundle.Dir)
				return nil
			}
			path, err := bundle.File(format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Print the path of this format's default file")
	return cmd
}

func exportCmd(mgr *Manager, quiet *bool) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export <name> <dest>",
		Short: "Copy a case into a destination directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []ExportOption{}
			if overwrite {
				opts = append(opts, WithOverwrite())
			}
			dir, err := (*mgr).Export(cmd.Context(), args[0], args[1], opts...)
			if err != nil {
				return err
			}
			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to: %s\n", dir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing directory")
	return cmd
}

func clearCacheCmd(mgr *Manager, quiet *bool) *cobra.Command {
	var (
		all bool
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "clear-cache [name]",
		Short: "Remove cached cases",
		Long:  "Remove one cached case by name, or the entire cache with --all.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if all {
				if !yes {
					fmt.Fprint(cmd.OutOrStdout(), "This will delete the entire cache. Continue? [y/N]: ")
					if !confirmPrompt(cmd.InOrStdin()) {
						fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
						return nil
					}
				}
				if err := (*mgr).ClearCacheAll(ctx); err != nil {
					return err
				}
				if !*quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
				}
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("specify a case name or use --all to clear everything")
			}

			if err := (*mgr).ClearCache(ctx, args[0]); err != nil {
				return err
			}
			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from cache\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Clear the entire cache")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func cacheInfoCmd(mgr *Manager, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "cache-info",
		Short: "Show cache information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := (*mgr).CacheInfo(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if *jsonOutput {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Fprintf(w, "Cache directory: %s\n", info.Directory)
			fmt.Fprintf(w, "Exists: %t\n", info.Exists)
			fmt.Fprintf(w, "Number of cached cases: %d\n", info.NumCases)
			fmt.Fprintf(w, "Total size: %s\n", formatSize(info.TotalSize))
			if len(info.Cases) > 0 {
				fmt.Fprintln(w, "Cached cases:")
				for _, name := range info.Cases {
					fmt.Fprintf(w, "  %s\n", name)
				}
			}
			return nil
		},
	}
}

func createManifestCmd(mgr *Manager, quiet *bool) *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create-manifest <dir>",
		Short: "Generate manifest.toml for a case directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []GenerateOption{}
			if name != "" {
				opts = append(opts, WithName(name))
			}
			if description != "" {
				opts = append(opts, WithDescription(description))
			}
			path, err := (*mgr).GenerateManifest(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Created manifest: %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Case name (default: directory name)")
	cmd.Flags().StringVar(&description, "description", "", "Case description")
	return cmd
}

// confirmPrompt reads from stdin and returns true only if the user types
// 'y' or 'yes'. Empty input or anything else means no.
func confirmPrompt(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return response == "y" || response == "yes"
	}
	return false
}

// Output helpers

func outputNames(w io.Writer, names []string, asJSON bool) error {
	if asJSON {
		if names == nil {
			names = []string{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(names)
	}

	if len(names) == 0 {
		fmt.Fprintln(w, "(none)")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

func outputCaseDetail(w io.Writer, b *CaseBundle, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Name     string    `json:"name"`
			Dir      string    `json:"dir"`
			IsRemote bool      `json:"is_remote"`
			Manifest *Manifest `json:"manifest"`
			Formats  []string  `json:"formats"`
		}{b.Name, b.Dir, b.IsRemote, b.Manifest, b.Formats()})
	}

	fmt.Fprintf(w, "Case: %s\n", b.Name)
	fmt.Fprintf(w, "Directory: %s\n", b.Dir)
	fmt.Fprintf(w, "Remote: %t\n", b.IsRemote)
	if b.Manifest.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", b.Manifest.Description)
	}
	if b.Manifest.DataVersion != "" {
		fmt.Fprintf(w, "Data version: %s\n", b.Manifest.DataVersion)
	}
	if coll := b.Collection(); coll != "" {
		fmt.Fprintf(w, "Collection: %s\n", coll)
	}
	if len(b.Tags()) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(b.Tags(), ", "))
	}

	if c := b.Manifest.Credits; c != nil {
		fmt.Fprintln(w, "\nCredits:")
		if c.License != "" {
			fmt.Fprintf(w, "  License: %s\n", c.License)
		}
		if len(c.Authors) > 0 {
			fmt.Fprintf(w, "  Authors: %s\n", strings.Join(c.Authors, ", "))
		}
		if len(c.Maintainers) > 0 {
			fmt.Fprintf(w, "  Maintainers: %s\n", strings.Join(c.Maintainers, ", "))
		}
		if len(c.Citations) > 0 {
			fmt.Fprintln(w, "  Citations:")
			for _, cit := range c.Citations {
				fmt.Fprintf(w, "    - %s\n", cit.Text)
				if cit.DOI != "" {
					fmt.Fprintf(w, "      DOI: %s\n", cit.DOI)
				}
			}
		}
	}

	fmt.Fprintln(w, "\nFiles:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  PATH\tFORMAT\tVERSION\tVARIANT\tDEFAULT")
	for _, f := range b.Files() {
		def := ""
		if f.Default {
			def = "*"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", f.Path, f.Format, f.FormatVersion, f.Variant, def)
	}
	return tw.Flush()
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
