package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sleepwalk/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List level packs and their levels",
	Long:  `Shows every registered level pack with the levels it contains.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	packs := registry.List()

	if len(packs) == 0 {
		fmt.Println("No level packs available.")
		return
	}

	for _, p := range packs {
		catalog, err := registry.Load(p.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading pack %q: %v\n", p.ID, err)
			continue
		}

		fmt.Printf("%s - %s (%d levels)\n", p.ID, p.Title, catalog.Len())

		// Calculate column widths
		maxNameLen := 4 // "Name" header
		for _, name := range catalog.Names() {
			if len(name) > maxNameLen {
				maxNameLen = len(name)
			}
		}

		fmt.Printf("  %-3s  %-*s  %-10s  %s\n", "#", maxNameLen, "Name", "Theme", "Size")
		fmt.Printf("  %-3s  %-*s  %-10s  %s\n", "-", maxNameLen, "----", "-----", "----")
		for i := 0; i < catalog.Len(); i++ {
			lvl := catalog.Level(i)
			fmt.Printf("  %-3d  %-*s  %-10s  %dx%d\n",
				i+1, maxNameLen, lvl.Name, lvl.Theme, lvl.Width, lvl.Height)
		}
		fmt.Println()
	}

	fmt.Println("Run 'sleepwalk play --pack <id>' to play a pack.")
}
