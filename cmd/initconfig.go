package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/company-match/internal/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a config.yaml with the default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInitConfig,
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := "config.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return eris.Errorf("%s already exists, refusing to overwrite", path)
	}

	tree := map[string]any{}
	for key, val := range config.Defaults() {
		node := tree
		parts := strings.Split(key, ".")
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = val
	}

	// Skeleton entries the operator has to fill in.
	tree["query"] = map[string]any{"name": "uncrawled", "path": "uncrawled.xlsx"}
	tree["refs"] = []map[string]any{
		{"name": "companysa", "path": "companysa_companies.csv"},
	}

	out, err := yaml.Marshal(tree)
	if err != nil {
		return eris.Wrap(err, "marshal default config")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}

	cmd.Printf("wrote %s\n", path)
	return nil
}
