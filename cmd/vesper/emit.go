package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vesper/internal/driver"
	"vesper/internal/layout"
)

var (
	emitTarget  string
	emitJobs    int
	emitOutDir  string
	emitNoCache bool
	emitNoUI    bool
)

func init() {
	emitCmd.Flags().StringVar(&emitTarget, "target", "", "target (x86_64-darwin|arm64-darwin)")
	emitCmd.Flags().IntVarP(&emitJobs, "jobs", "j", 0, "parallel jobs (0 = GOMAXPROCS)")
	emitCmd.Flags().StringVarP(&emitOutDir, "out-dir", "o", "", "directory for emitted .ll files")
	emitCmd.Flags().BoolVar(&emitNoCache, "no-cache", false, "disable the disk cache")
	emitCmd.Flags().BoolVar(&emitNoUI, "no-ui", false, "disable the interactive progress UI")
}

var emitCmd = &cobra.Command{
	Use:   "emit [dir or manifests...]",
	Short: "Emit bridging IR for declaration manifests",
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		return runEmit(cmd, args, quiet)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the emission cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := driver.OpenDiskCache("vesper")
		if err != nil {
			return err
		}
		return cache.DropAll()
	},
}

func runEmit(cmd *cobra.Command, args []string, quiet bool) error {
	paths, startDir, err := collectManifests(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no declaration manifests found")
	}

	project, _, err := loadProjectManifest(startDir)
	if err != nil {
		return err
	}

	target, err := resolveTarget(project)
	if err != nil {
		return err
	}

	var cache *driver.DiskCache
	if !emitNoCache {
		cache, err = driver.OpenDiskCache("vesper")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	jobs := emitJobs
	if jobs == 0 && project != nil {
		jobs = project.Config.Emit.Jobs
	}
	outDir := emitOutDir
	if outDir == "" && project != nil {
		outDir = project.Config.Emit.OutDir
		if outDir != "" && !filepath.IsAbs(outDir) {
			outDir = filepath.Join(project.Root, outDir)
		}
	}

	req := &driver.Request{
		Paths:  paths,
		Target: target,
		Jobs:   jobs,
		Cache:  cache,
	}

	var results []driver.Result
	if !emitNoUI && !quiet && isTerminal(os.Stdout) {
		results, err = runEmitWithUI(cmd.Context(), "emitting bridge IR", paths, req)
	} else {
		results, err = driver.EmitAll(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	for _, res := range results {
		out, err := outputPath(res.Path, outDir)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, []byte(res.IR), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		if !quiet {
			note := ""
			if res.FromCache {
				note = " (cached)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s%s\n", res.Path, out, note)
		}
	}
	return nil
}

// collectManifests resolves command arguments into manifest paths plus the
// directory the project manifest search starts from.
func collectManifests(args []string) ([]string, string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	var paths []string
	startDir := "."
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if info.IsDir() {
			found, err := driver.ListManifests(arg)
			if err != nil {
				return nil, "", err
			}
			paths = append(paths, found...)
			startDir = arg
			continue
		}
		paths = append(paths, arg)
		startDir = filepath.Dir(arg)
	}
	return paths, startDir, nil
}

func resolveTarget(project *projectManifest) (layout.Target, error) {
	name := emitTarget
	if name == "" && project != nil {
		name = project.Config.Emit.Target
	}
	switch name {
	case "", "arm64-darwin", "arm64":
		return layout.ARM64Darwin(), nil
	case "x86_64-darwin", "x86_64":
		return layout.X86_64Darwin(), nil
	default:
		return layout.Target{}, fmt.Errorf("unknown target %q", name)
	}
}

func outputPath(manifestPath, outDir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(manifestPath), ".toml") + ".ll"
	if outDir == "" {
		return filepath.Join(filepath.Dir(manifestPath), base), nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create out dir: %w", err)
	}
	return filepath.Join(outDir, base), nil
}
