package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"greengain/domain"
)

// WatchRules monitors the rule table at path and calls onChange with the
// newly loaded table each time the file is written. It runs until ctx is
// cancelled.
//
// A table that fails to load is logged and skipped; the caller keeps its
// previous table. onChange may itself reject the table by returning an
// error, which is logged.
func WatchRules(ctx context.Context, path string, onChange func(domain.RuleSet) error, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	logger.Info("config: watching rules for changes", zap.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, so Create counts too.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			rules, err := LoadRules(path)
			if err != nil {
				logger.Error("config: rules reload failed, keeping previous table",
					zap.String("path", path), zap.Error(err))
				continue
			}
			if err := onChange(rules); err != nil {
				logger.Error("config: rules rejected", zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Info("config: rules reloaded", zap.String("path", path), zap.Int("tax_year", rules.TaxYear))

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("config: watcher error", zap.Error(err))
		}
	}
}
