package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-maze/internal/registry"
)

var sensorsCmd = &cobra.Command{
	Use:   "sensors",
	Short: "List motion sources",
	Long:  `Shows the motion sources that can steer the ball (motion.source).`,
	Args:  cobra.NoArgs,
	Run:   runSensors,
}

func runSensors(_ *cobra.Command, _ []string) {
	sources := registry.List()

	if len(sources) == 0 {
		fmt.Println("No motion sources available.")
		return
	}

	maxLen := len("NAME")
	for _, s := range sources {
		maxLen = max(maxLen, len(s.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxLen, "NAME", "DESCRIPTION")
	for _, s := range sources {
		fmt.Printf("  %-*s  %s\n", maxLen, s.Name, s.Description)
	}
}
