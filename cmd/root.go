package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flytaly/mdsite/pkg/builder"
	"github.com/flytaly/mdsite/pkg/config"
	"github.com/flytaly/mdsite/pkg/log"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

// getConfig loads the config file and overrides its values with the flags
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.Path()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies values of the flags that were set explicitly
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	strs := map[string]*string{
		"content":   &cfg.ContentDir,
		"static":    &cfg.StaticDir,
		"public":    &cfg.PublicDir,
		"template":  &cfg.Template,
		"log":       &cfg.LogFile,
		"log-level": &cfg.LogLevel,
	}
	for name, dst := range strs {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Lookup("interval") != nil && flags.Changed("interval") {
		cfg.Interval, _ = flags.GetDuration("interval")
	}
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.Red.Sprint("Error:"), err)
	os.Exit(1)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mdsite",
	Short: "Generate a static site from markdown files",
	Long: `Generate a static site from markdown files

Every markdown file of the content directory becomes an HTML page inside the
public directory, rendered with the template. Files of the static directory
are copied into the public directory as is. Contents of the public directory
are replaced on every build.

Use 'watch' command to rebuild the site on changes.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := getConfig(cmd)
		if err != nil {
			exitWithError(err)
		}

		logger, err := log.NewWithLevel(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			exitWithError(err)
		}
		defer logger.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := builder.New(cfg, logger).Build(ctx)
		if err != nil {
			exitWithError(err)
		}

		fmt.Printf("%s %s\n", color.Green.Sprint("✓"), report.Summary())
		for _, w := range report.Warnings {
			fmt.Printf("  %s %s\n", color.Yellow.Sprint("!"), w)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(version string) {
	rootCmd.Version = version
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// addConfigFlags defines flags that override values of the config file
func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "path to the config file (default is ./mdsite.yaml or $XDG_CONFIG_HOME/mdsite/config.yaml)")
	flags.String("content", "", "directory with markdown files")
	flags.String("static", "", "directory with files copied as is")
	flags.String("public", "", "output directory")
	flags.StringP("template", "t", "", "path to the HTML template")
	flags.StringP("log", "l", "", "path to the log file (default is stderr)")
	flags.String("log-level", "", "minimum log level: debug, info, warn or error")
	flags.IntP("workers", "w", 0, "number of pages generated at the same time")
}

func init() {
	addConfigFlags(rootCmd)
}
