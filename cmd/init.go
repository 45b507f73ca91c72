package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default autocov.yaml configuration file",
		Long: `Create an autocov.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually. The API key is never written.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := defaultConfig().SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			return nil
		},
	}
}

// defaultConfig copies the effective settings without credentials.
func defaultConfig() *viper.Viper {
	settings := viper.AllSettings()
	if llm, ok := settings["llm"].(map[string]any); ok {
		delete(llm, "api_key")
	}

	out := viper.New()
	for key, value := range settings {
		out.Set(key, value)
	}

	return out
}

func init() {
	rootCmd.AddCommand(initCmd)
}
