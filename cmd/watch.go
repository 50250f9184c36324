package cmd

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/theorytab/file"
	"github.com/jsphweid/theorytab/logger"
	"github.com/jsphweid/theorytab/store"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const fileChangeDebounceDelay = 300 * time.Millisecond

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Normalizes legacy xml documents as they change",
	Long:  `Watches a directory and writes <name>.json next to every .xml document written there.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Watch(commandContext(cmd), appFs, args[0])
	},
}

// NormalizeSibling normalizes one document into the .json next to it.
func NormalizeSibling(fs afero.Fs, path string) (string, error) {
	res, err := normalizeFile(fs, path)
	if err != nil {
		return "", err
	}
	target := file.JSONPathFor(path)
	return target, store.NewWriter(fs).WriteJSON(target, res)
}

type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	funcs map[string]func(f func())
}

// trigger runs f once events for key settle.
func (d *debouncer) trigger(key string, f func()) {
	d.mu.Lock()
	debounced, ok := d.funcs[key]
	if !ok {
		debounced = debounce.New(d.delay)
		d.funcs[key] = debounced
	}
	d.mu.Unlock()
	debounced(f)
}

func Watch(ctx context.Context, fs afero.Fs, dir string) error {
	log := logger.FromContext(ctx).With("dir", dir)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}

	d := &debouncer{delay: fileChangeDebounceDelay, funcs: make(map[string]func(f func()))}
	log.Info("watching for legacy documents")
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !file.IsXMLPath(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path := event.Name
			d.trigger(path, func() {
				target, err := NormalizeSibling(fs, path)
				if err != nil {
					log.Error("could not normalize", "path", path, "error", err)
					return
				}
				log.Info("normalized", "path", path, "out", target)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}
