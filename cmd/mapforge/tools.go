package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the active tool catalogue",
	Long:  `Print the tool documentation exactly as both agents see it in their prompts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		fmt.Print(cat.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
