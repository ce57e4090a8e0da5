package alerts

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/plantstack/plantwatch/internal/utils"
)

// Advisor maps fired alerts to remediation advice from a YAML rule pack.
type Advisor struct {
	mu     sync.RWMutex
	rules  []AdviceRule
	path   string
	logger *slog.Logger
}

// AdviceRule attaches advice strings to alerts on a metric.
type AdviceRule struct {
	ID     string          `yaml:"id"`
	Match  AdviceRuleMatch `yaml:"match"`
	Advice []string        `yaml:"advice"`
}

// AdviceRuleMatch defines which alerts a rule applies to. MarginAtLeast is
// the minimum overshoot (value minus threshold) for the rule to fire.
type AdviceRuleMatch struct {
	Metric        string  `yaml:"metric"`
	MarginAtLeast float64 `yaml:"margin_at_least"`
}

// adviceRuleFile is the YAML root structure.
type adviceRuleFile struct {
	Rules []AdviceRule `yaml:"rules"`
}

// NewAdvisor loads rules from the provided path. If path is empty or the file
// does not exist, returns a nil advisor; a nil Advisor advises nothing.
func NewAdvisor(path string, logger *slog.Logger) (*Advisor, error) {
	if path == "" {
		return nil, nil
	}
	rules, err := loadRules(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{rules: rules, path: path, logger: logger}, nil
}

func loadRules(path string) ([]AdviceRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewAppError("alerts.load", "read rule pack", err)
	}
	var file adviceRuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, utils.NewAppError("alerts.load", "parse rule pack", err)
	}
	return file.Rules, nil
}

// Advise returns deduplicated advice for an alert on the given metric with
// the given overshoot margin.
func (a *Advisor) Advise(metric string, margin float64) []string {
	if a == nil {
		return nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	var advice []string
	seen := make(map[string]struct{})
	for _, rule := range a.rules {
		if rule.Match.Metric != "" && rule.Match.Metric != metric {
			continue
		}
		if margin < rule.Match.MarginAtLeast {
			continue
		}
		for _, item := range rule.Advice {
			if item == "" {
				continue
			}
			if _, ok := seen[item]; ok {
				continue
			}
			advice = append(advice, item)
			seen[item] = struct{}{}
		}
	}
	return advice
}

// Watch reloads the rule pack whenever the file changes, until ctx is done.
// Editors often replace files via rename, so the watch covers the directory.
func (a *Advisor) Watch(ctx context.Context) error {
	if a == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(a.path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(a.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			a.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("alert rule watch error", slog.Any("error", err))
		}
	}
}

func (a *Advisor) reload() {
	rules, err := loadRules(a.path)
	if err != nil {
		a.logger.Warn("alert rule reload failed", slog.String("path", a.path), slog.Any("error", err))
		return
	}
	a.mu.Lock()
	a.rules = rules
	a.mu.Unlock()
	a.logger.Info("alert rules reloaded", slog.String("path", a.path), slog.Int("rules", len(rules)))
}
