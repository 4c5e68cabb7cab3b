package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flytaly/mdsite/cmd/watchui"
	"github.com/flytaly/mdsite/pkg/builder"
	"github.com/flytaly/mdsite/pkg/config"
	"github.com/flytaly/mdsite/pkg/log"
	"github.com/spf13/cobra"
)

// watchLogger sends records to the UI and, if log file is set, into the file.
// Stderr isn't used, it would break the UI.
func watchLogger(cfg *config.Config, records chan log.Record) (log.Logger, error) {
	chanLog, err := log.NewChanLog(records, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.LogFile == "" {
		return chanLog, nil
	}
	fileLog, err := log.NewWithLevel(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.Tee(chanLog, fileLog), nil
}

// watchedPaths returns paths relative to the working directory if they are inside of it
func watchedPaths(cfg *config.Config) []string {
	paths := []string{cfg.ContentDir, cfg.StaticDir, cfg.Template}
	wd, err := os.Getwd()
	if err != nil {
		return paths
	}
	for i, p := range paths {
		if rel, err := filepath.Rel(wd, p); err == nil && !strings.HasPrefix(rel, "..") {
			paths[i] = rel
		}
	}
	return paths
}

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Build the site and rebuild it on every change",
	Long: `Build the site and rebuild it on every change of the content, static
directory or the template.

Internally, watcher polls the filesystem, so don't use the program in the folders with large number of files.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := getConfig(cmd)
		if err != nil {
			exitWithError(err)
		}

		records := make(chan log.Record, 64)
		logger, err := watchLogger(cfg, records)
		if err != nil {
			exitWithError(err)
		}
		defer logger.Close()

		b := builder.New(cfg, logger)
		b.Rebuild()

		if err := watchui.Run(b, records, watchedPaths(cfg)...); err != nil {
			exitWithError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationP("interval", "i", 500*time.Millisecond, "poll interval duration (e.g. 1s, 500ms...)")
}
