// Package watch reloads a cart file whenever it changes on disk.
package watch

import (
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/howeyc/fsnotify"

	"github.com/vovakirdan/term8/internal/cart"
)

// DefaultDebounce is how long the file must stay quiet before it is reread.
// Editors often write a file in several steps.
const DefaultDebounce = 100 * time.Millisecond

// Update is the result of rereading the cart: either a cart or the error
// that prevented loading it.
type Update struct {
	Cart *cart.Cart
	Err  error
}

// Watcher watches one cart file.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	updates  chan Update
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	debounce time.Duration
	log      *log.Logger
}

// New starts watching the directory containing path. Changes to path are
// debounced, reloaded and delivered on Updates.
func New(path string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	path = filepath.Clean(path)
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Watch(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		fs:       fsw,
		updates:  make(chan Update, 1),
		done:     make(chan struct{}),
		debounce: debounce,
		log:      logger,
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Updates delivers reload results. Only the latest undelivered result is
// kept; a slow reader misses intermediate versions, never the newest.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Close stops watching and closes Updates once the loop has exited, which
// releases anyone still waiting on it. Later calls do nothing.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.updates)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var reload <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case <-reload:
			reload = nil
			c, err := cart.Load(w.path)
			if err != nil {
				w.log.Warn("reload failed", "path", w.path, "err", err)
			} else {
				w.log.Info("reloaded", "path", w.path, "cart", c.Name)
			}
			w.publish(Update{Cart: c, Err: err})
		case ev, ok := <-w.fs.Event:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == w.path && !ev.IsAttrib() {
				reload = time.After(w.debounce)
			}
		case err, ok := <-w.fs.Error:
			if !ok {
				return
			}
			w.log.Warn("watcher", "err", err)
		}
	}
}

// publish replaces any undelivered update with u.
func (w *Watcher) publish(u Update) {
	for {
		select {
		case w.updates <- u:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}
