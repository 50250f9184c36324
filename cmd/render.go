package cmd

import (
	"github.com/jsphweid/theorytab/logger"
	"github.com/jsphweid/theorytab/midi"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <file.xml> <out.mid>",
	Short: "Renders a legacy document to midi",
	Long:  `Normalizes a legacy document and renders its melody and chords to a midi file.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Render(appFs, args[0], args[1])
	},
}

func Render(fs afero.Fs, in string, out string) error {
	res, err := normalizeFile(fs, in)
	if err != nil {
		return err
	}
	f, err := fs.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := midi.Write(f, res); err != nil {
		return err
	}
	logger.GetDefault().Info("rendered", "in", in, "out", out)
	return nil
}
