package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"certificate-service-go/internal/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce пауза, после которой серия событий считается завершенной
const DefaultDebounce = 200 * time.Millisecond

// Watcher следит за набором файлов. Наблюдаются каталоги, а не сами файлы:
// редакторы часто сохраняют через переименование временного файла.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// New создает наблюдатель за файлами paths
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("nothing to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{files: make(map[string]bool), debounce: debounce, watcher: fw}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run обрабатывает события до отмены ctx. onChange получает отсортированный
// список измененных файлов и вызывается в той же горутине, поэтому
// следующая серия событий ждет окончания предыдущего вызова.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			pending[filepath.Clean(event.Name)] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)
			onChange(changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logger.Error("fsnotify error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// Close освобождает наблюдатель, если Run не был запущен
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
