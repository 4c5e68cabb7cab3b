package cmd

import (
	"fmt"
	"os"

	"github.com/flytaly/mdsite/pkg/page"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// renderFile returns HTML of the markdown file. If tmplPath isn't empty
// the whole page is returned, otherwise only the content.
func renderFile(path, tmplPath string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WithStack(err)
	}

	g := page.New()
	if tmplPath == "" {
		return g.RenderContent(data)
	}

	p, err := g.Render(data)
	if err != nil {
		return "", err
	}
	tmpl, err := os.ReadFile(tmplPath)
	if err != nil {
		return "", errors.Wrap(err, "read template")
	}
	return page.Apply(string(tmpl), p), nil
}

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <file.md>",
	Short: "Print HTML of a single markdown file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		full, _ := cmd.Flags().GetBool("page")

		tmplPath := ""
		if full {
			cfg, err := getConfig(cmd)
			if err != nil {
				exitWithError(err)
			}
			tmplPath = cfg.Template
		}

		html, err := renderFile(args[0], tmplPath)
		if err != nil {
			exitWithError(err)
		}

		if output == "" {
			fmt.Println(html)
			return
		}
		if err := os.WriteFile(output, []byte(html+"\n"), 0o644); err != nil {
			exitWithError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "write HTML into the file instead of stdout")
	renderCmd.Flags().BoolP("page", "p", false, "apply the template and print the whole page")
}
