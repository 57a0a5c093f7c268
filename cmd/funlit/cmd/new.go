package cmd

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-drift/funlit/cmd/funlit/internal/config"
	"github.com/go-drift/funlit/cmd/funlit/internal/templates"
)

var newForce bool

var newCmd = &cobra.Command{
	Use:   "new <tag-name>",
	Short: "Scaffold a component",
	Long: `Writes <components.dir>/<tag_name>.go from the component template. The
package name and import path come from funlit.yaml and go.mod.

Example:
  funlit new my-counter`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite an existing file")
}

func runNew(cmd *cobra.Command, args []string) error {
	root := projectDir
	if !cmd.Flags().Changed("dir") {
		var err error
		if root, err = config.FindProjectRoot(); err != nil {
			return err
		}
	}

	res, err := config.Resolve(root)
	if err != nil {
		return err
	}

	data, err := templates.NewTemplateData(args[0], res.Package, res.ImportPath)
	if err != nil {
		return err
	}
	src, err := templates.RenderComponent(data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	formatted, err := format.Source([]byte(src))
	if err != nil {
		return fmt.Errorf("generated source is invalid: %w", err)
	}

	path := filepath.Join(res.ComponentsDir, data.FileName)
	if _, err := os.Stat(path); err == nil && !newForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(res.ComponentsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", res.ComponentsDir, err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", rel)
	fmt.Fprintf(out, "Register it with:\n  import %q\n  %s.Define%s(registry)\n", res.ImportPath, res.Package, data.TypeName)
	return nil
}
