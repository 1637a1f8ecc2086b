package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pio "github.com/matzehuels/netgraph/pkg/io"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/presets"
)

// presetsCommand creates the presets command.
func (c *CLI) presetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List, inspect and export built-in architectures",
	}

	cmd.AddCommand(c.presetsListCommand())
	cmd.AddCommand(c.presetsShowCommand())
	cmd.AddCommand(c.presetsExportCommand())

	return cmd
}

func (c *CLI) presetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in architectures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), presetTable(presets.All()))
			return nil
		},
	}
}

func (c *CLI) presetsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <name>",
		Short:             "Show the layer table of a built-in architecture",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePresets,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := presets.Get(args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(p.Title))
			if p.Description != "" {
				printDetail("%s", p.Description)
			}
			fmt.Println()
			printKeyValue("Preset", p.Name)
			printKeyValue("Layers", strconv.Itoa(len(p.Layers)))
			fmt.Println()
			printLayerTable(network.Summarize(p.Layers))
			fmt.Println()
			printNextStep("Render it", "netgraph render -p "+p.Name)
			return nil
		},
	}
}

func (c *CLI) presetsExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "export <name>",
		Short:             "Write a built-in architecture to a TOML or JSON file",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePresets,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := presets.Get(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = p.Name + ".toml"
			}
			if err := pio.Export(p.Architecture(), output); err != nil {
				return err
			}
			printSuccess("Exported %s", p.Name)
			printFile(output)
			printNextStep("Edit and render it", "netgraph render "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.toml or .json, default <name>.toml)")
	return cmd
}

// presetTable renders one row per preset with its size figures.
func presetTable(all []presets.Preset) string {
	rows := make([][]string, 0, len(all))
	for _, p := range all {
		s := network.Summarize(p.Layers)
		name := p.Name
		if p.Name == presets.Default {
			name += " *"
		}
		rows = append(rows, []string{name, p.Title, strconv.Itoa(len(p.Layers)), strconv.Itoa(s.TotalParams)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Preset", "Title", "Layers", "Params").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return base.Inherit(styleHeader)
			case col == 0:
				return base.Foreground(colorCyan)
			case col >= 2:
				return base.Align(lipgloss.Right)
			}
			return base
		}).
		Render()
}

func completePresets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return presets.Names(), cobra.ShellCompDirectiveNoFileComp
}
