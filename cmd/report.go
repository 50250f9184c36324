package cmd

import (
	"bufio"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jsphweid/theorytab/constants"
	"github.com/jsphweid/theorytab/util"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Summarizes the songs written under OUTPUT_DIR and the legacy format log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := Report(appFs, constants.GetOutputDir(), constants.GetLegacyLogPath())
		if err != nil {
			return err
		}
		fmt.Printf("songs: %v\n", r.NumSongs)
		fmt.Printf("sections: %v\n", r.NumSections)
		fmt.Printf("chords: %v\n", r.NumChords)
		fmt.Printf("notes: %v\n", r.NumNotes)
		fmt.Printf("legacy format songs: %v\n", r.NumLegacy)
		for _, scale := range util.GetSortedKeys(r.Scales) {
			fmt.Printf("  %v: %v\n", scale, r.Scales[scale])
		}
		return nil
	},
}

type DatasetReport struct {
	NumSongs    int
	NumSections int
	NumChords   int64
	NumNotes    int64
	NumLegacy   int
	Scales      map[string]int
}

func countLines(fsys afero.Fs, path string) (int, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() != "" {
			n++
		}
	}
	return n, scanner.Err()
}

func Report(fsys afero.Fs, dir string, legacyLog string) (DatasetReport, error) {
	report := DatasetReport{Scales: make(map[string]int)}

	err := afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Base(path) != constants.SongInfoFilename {
			return nil
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		report.NumSongs++
		gjson.GetBytes(data, "sections").ForEach(func(_, s gjson.Result) bool {
			report.NumSections++
			report.NumChords += s.Get("jsonData.chords.#").Int()
			report.NumNotes += s.Get("jsonData.notes.#").Int()
			if scale := s.Get("jsonData.keys.0.scale").String(); scale != "" {
				report.Scales[scale]++
			}
			return true
		})
		return nil
	})
	if err != nil {
		return report, err
	}

	if ok, _ := afero.Exists(fsys, legacyLog); ok {
		if report.NumLegacy, err = countLines(fsys, legacyLog); err != nil {
			return report, err
		}
	}
	return report, nil
}
