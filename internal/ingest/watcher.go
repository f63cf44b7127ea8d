// Package ingest feeds receipts into the system from a watched directory,
// for scanner drop-folders and bulk imports.
package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"kvitto/internal/domain"
)

// WatchConfig configures the directory watcher.
type WatchConfig struct {
	Root        string
	InitialScan bool
	// Debounce coalesces rapid write bursts for the same file, so a file
	// still being copied is picked up once, after it settles.
	Debounce time.Duration
}

// Watch starts watching the configured directory tree and emits paths of
// candidate receipt files. The channel closes when ctx is cancelled.
func Watch(ctx context.Context, cfg WatchConfig) (<-chan string, error) {
	if cfg.Root == "" {
		return nil, errors.New("ingest: no watch directory configured")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	paths := make(chan string, 256)

	err = filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if cfg.InitialScan && allowed(path) {
			select {
			case paths <- path:
			default:
			}
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	go func() {
		defer close(paths)
		defer func() { _ = w.Close() }()

		pending := map[string]struct{}{}
		var timer *time.Timer
		var timerC <-chan time.Time

		flush := func() {
			for p := range pending {
				select {
				case paths <- p:
				default:
					log.Printf("ingest.Watch: event buffer full, dropping %s", p)
				}
				delete(pending, p)
			}
			timerC = nil
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op.Has(fsnotify.Create) {
					if info, statErr := os.Stat(e.Name); statErr == nil && info.IsDir() {
						if addErr := w.Add(e.Name); addErr != nil {
							log.Printf("ingest.Watch: cannot watch new directory %s: %v", e.Name, addErr)
						}
						continue
					}
				}
				if !e.Op.Has(fsnotify.Create) && !e.Op.Has(fsnotify.Write) {
					continue
				}
				if !allowed(e.Name) {
					continue
				}
				pending[e.Name] = struct{}{}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					timer.Reset(cfg.Debounce)
				}
				timerC = timer.C
			case <-timerC:
				flush()
			case watchErr, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("ingest.Watch: watcher error: %v", watchErr)
			}
		}
	}()

	return paths, nil
}

func allowed(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	_, ok := domain.AllowedExtensions[ext]
	return ok
}
