package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/jrsndl/EditIndexHelper/pkg/prefs"
)

var genConfigWrite string

var genConfigCmd = &cobra.Command{
	Use:   "gen-config",
	Short: "Print the default preferences",
	Long: `Print the default preferences document. Use --write to save it to a
file instead; the format (json, toml or yaml) follows the file
extension.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := prefs.Default()
		if err != nil {
			return err
		}

		target := genConfigWrite
		format := ".json"
		if target != "" {
			format = strings.ToLower(filepath.Ext(target))
		}

		data, err := marshalPrefs(p, format)
		if err != nil {
			return err
		}

		if target == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote default preferences to %s\n", target)
		return nil
	},
}

func init() {
	genConfigCmd.Flags().StringVarP(&genConfigWrite, "write", "w", "", "Write to file instead of stdout")
}

func marshalPrefs(p *prefs.Prefs, format string) ([]byte, error) {
	switch format {
	case ".json":
		return json.MarshalIndent(p, "", "    ")
	case ".toml":
		return toml.Marshal(p)
	case ".yaml", ".yml":
		return yaml.Marshal(p)
	default:
		return nil, fmt.Errorf("unsupported preferences format %q (want .json, .toml or .yaml)", format)
	}
}
