package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/config"
)

// configCommand creates the config command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration file",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			printKeyValue("mode", cfg.Layout.Mode)
			printKeyValue("hspacing", fmt.Sprintf("%g", cfg.Layout.HorizontalSpacing))
			printKeyValue("vspacing", fmt.Sprintf("%g", cfg.Layout.VerticalSpacing))
			printKeyValue("indent", fmt.Sprintf("%g", cfg.Layout.ChildIndent))
			printKeyValue("min width", fmt.Sprintf("%g", cfg.Layout.MinCellWidth))
			printKeyValue("edge offset", fmt.Sprintf("%g", cfg.Layout.EdgeOffset))
			printKeyValue("font size", fmt.Sprintf("%g", cfg.Layout.FontSize))
			printKeyValue("viewport", fmt.Sprintf("%g", cfg.Viewport.Width))
			printKeyValue("style", cfg.Render.Style)
			printKeyValue("formats", strings.Join(cfg.Render.Formats, ","))
			printKeyValue("serve addr", cfg.Serve.Addr)
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				printWarning("%s already exists (use --force to overwrite)", path)
				return nil
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
