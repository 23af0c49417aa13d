package cli

// This file implements a polling file watcher for "--watch" (i.e. it detects
// when input files are changed by repeatedly checking their contents). Each
// scan only checks a random subset of the inputs, so a change is picked up
// soon after it's made but not necessarily instantly. A file that changed
// goes on a short list of recently changed files which are checked on every
// scan, so further edits to it are noticed almost right away.

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yonasBSD/mako/internal/logger"
)

// The time to wait between watch intervals
const watchIntervalSleep = 100 * time.Millisecond

// The maximum number of recently-edited items to check every interval
const maxRecentItemCount = 16

// The minimum number of non-recent items to check every interval
const minItemCountPerIter = 64

// The maximum number of intervals before a change is detected
const maxIntervalsBeforeUpdate = 20

// Returns true if the file is different than the last time it was checked
type isDirtyFunc func() bool

type watcher struct {
	files             map[string]isDirtyFunc
	retransform       func(path string)
	recentItems       []string
	itemsToScan       []string
	mutex             sync.Mutex
	interval          time.Duration
	itemsPerIteration int
	shouldStop        int32
	shouldLog         bool
	color             logger.StderrColor
	stopWaitGroup     sync.WaitGroup
}

func newWatcher(paths []string) *watcher {
	files := make(map[string]isDirtyFunc, len(paths))
	for _, path := range paths {
		files[path] = watchFile(path)
	}
	return &watcher{
		files:    files,
		interval: watchIntervalSleep,
	}
}

// The contents are compared instead of the modification time so that saving
// a file without changing it doesn't trigger a transform
func watchFile(path string) isDirtyFunc {
	contents, err := ioutil.ReadFile(path)
	existed := err == nil
	return func() bool {
		latest, err := ioutil.ReadFile(path)
		exists := err == nil
		if exists == existed && bytes.Equal(latest, contents) {
			return false
		}
		contents = latest
		existed = exists
		return true
	}
}

func (w *watcher) start() {
	w.stopWaitGroup.Add(1)

	if w.shouldLog {
		logger.PrintTextWithColor(os.Stderr, w.color, func(colors logger.Colors) string {
			return fmt.Sprintf("%s[watch] transform finished, watching for changes...%s\n", colors.Dim, colors.Reset)
		})
	}

	go func() {
		for atomic.LoadInt32(&w.shouldStop) == 0 {
			// Sleep for the watch interval
			time.Sleep(w.interval)

			// Transform again if a file is dirty
			if path := w.tryToFindDirtyPath(); path != "" {
				if w.shouldLog {
					logger.PrintTextWithColor(os.Stderr, w.color, func(colors logger.Colors) string {
						return fmt.Sprintf("%s[watch] transform started (change: %q)%s\n", colors.Dim, path, colors.Reset)
					})
				}

				w.retransform(path)

				if w.shouldLog {
					logger.PrintTextWithColor(os.Stderr, w.color, func(colors logger.Colors) string {
						return fmt.Sprintf("%s[watch] transform finished%s\n", colors.Dim, colors.Reset)
					})
				}
			}
		}

		w.stopWaitGroup.Done()
	}()
}

func (w *watcher) stop() {
	atomic.StoreInt32(&w.shouldStop, 1)
	w.stopWaitGroup.Wait()
}

func (w *watcher) tryToFindDirtyPath() string {
	defer w.mutex.Unlock()
	w.mutex.Lock()

	// If we ran out of items to scan, fill the items back up in a random order
	if len(w.itemsToScan) == 0 {
		items := w.itemsToScan[:0] // Reuse memory
		for path := range w.files {
			items = append(items, path)
		}
		rand.Shuffle(len(items), func(i int, j int) {
			items[i], items[j] = items[j], items[i]
		})
		w.itemsToScan = items

		// Determine how many items to check every iteration, rounded up
		perIter := (len(items) + maxIntervalsBeforeUpdate - 1) / maxIntervalsBeforeUpdate
		if perIter < minItemCountPerIter {
			perIter = minItemCountPerIter
		}
		w.itemsPerIteration = perIter
	}

	// Always check all recent items every iteration
	for i, path := range w.recentItems {
		if w.files[path]() {
			// Move this path to the back of the list (i.e. the "most recent" position)
			copy(w.recentItems[i:], w.recentItems[i+1:])
			w.recentItems[len(w.recentItems)-1] = path
			return path
		}
	}

	// Check a constant number of items every iteration
	remainingCount := len(w.itemsToScan) - w.itemsPerIteration
	if remainingCount < 0 {
		remainingCount = 0
	}
	toCheck, remaining := w.itemsToScan[remainingCount:], w.itemsToScan[:remainingCount]
	w.itemsToScan = remaining

	// Check if any of the entries in this iteration have been modified
	for _, path := range toCheck {
		if w.files[path]() {
			// Mark this item as recent by adding it to the back of the list
			w.recentItems = append(w.recentItems, path)
			if len(w.recentItems) > maxRecentItemCount {
				// Remove items from the front of the list when we hit the limit
				copy(w.recentItems, w.recentItems[1:])
				w.recentItems = w.recentItems[:maxRecentItemCount]
			}
			return path
		}
	}
	return ""
}
