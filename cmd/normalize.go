package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/jsphweid/theorytab/file"
	"github.com/jsphweid/theorytab/logger"
	"github.com/jsphweid/theorytab/store"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	normalizeCmd.Flags().String("out", "", "directory to write <name>.json files to instead of stdout")
	normalizeCmd.Flags().Int("max", 0, "max number of documents to normalize, 0 for all")
	rootCmd.AddCommand(normalizeCmd)
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file.xml|dir>...",
	Short: "Normalizes legacy xml documents",
	Long:  `Normalizes legacy xml documents (or every .xml under a directory) into the json schema.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		maxNum, _ := cmd.Flags().GetInt("max")
		failed, err := Normalize(appFs, os.Stdout, args, out, maxNum)
		if err != nil {
			return err
		}
		if failed > 0 {
			return errors.Errorf("%d documents could not be normalized", failed)
		}
		return nil
	},
}

func gatherPaths(fs afero.Fs, args []string, maxNum int) ([]string, error) {
	var paths []string
	for _, arg := range args {
		isDir, err := afero.IsDir(fs, arg)
		if err != nil {
			return nil, err
		}
		if !isDir {
			paths = append(paths, arg)
			continue
		}
		found, err := file.GatherXMLPaths(fs, arg, 0)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	if maxNum > 0 && len(paths) > maxNum {
		paths = paths[:maxNum]
	}
	return paths, nil
}

// Normalize converts each document and either prints it to stdout or writes
// it into outDir. Bad documents are logged and counted, not fatal.
func Normalize(fs afero.Fs, stdout io.Writer, args []string, outDir string, maxNum int) (int, error) {
	log := logger.GetDefault()
	paths, err := gatherPaths(fs, args, maxNum)
	if err != nil {
		return 0, err
	}

	w := store.NewWriter(fs)
	failed := 0
	for _, path := range paths {
		res, err := normalizeFile(fs, path)
		if err != nil {
			log.Error("could not normalize", "path", path, "error", err)
			failed++
			continue
		}
		if outDir == "" {
			data, err := store.MarshalIndent(res)
			if err != nil {
				return failed, err
			}
			if _, err := stdout.Write(data); err != nil {
				return failed, errors.Wrap(err, "could not print document")
			}
			continue
		}
		target := filepath.Join(outDir, filepath.Base(file.JSONPathFor(path)))
		if err := w.WriteJSON(target, res); err != nil {
			return failed, err
		}
		log.Info("normalized", "path", path, "out", target, "chords", len(res.Chords), "notes", len(res.Notes))
	}
	return failed, nil
}
