package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/yaoapp/kun/log"
)

// Watch calls handler each time the config file is written or created. The
// parent directory is watched so editors that save through a rename are seen
// too. Watch blocks until interrupt receives a value.
func Watch(file string, handler func(), interrupt chan uint8) error {
	if file == "" {
		file = DefaultFile
	}

	file, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return err
	}
	log.Info("[Watch] Watching: %s", file)

	for {
		select {
		case code := <-interrupt:
			log.Info("[Watch] Exit(%d)", code)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != file {
				break
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				break
			}
			log.Info("[Watch] %s %s", event.Op.String(), filepath.Base(file))
			handler()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("[Watch] Error: %s", err.Error())
		}
	}
}
