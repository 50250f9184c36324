package cmd

import (
	"fmt"

	"github.com/jsphweid/theorytab/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects a rendered midi file",
	Long:  `Lists the tracks of a midi file with their names and note counts.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		for i, track := range midi.Summarize(s) {
			fmt.Printf("track %d: %q notes: %v\n", i, track.Name, track.Notes)
		}
		return nil
	},
}
