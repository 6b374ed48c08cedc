package frames

import (
	"strings"

	"github.com/goliatone/go-frames/pkg/activity"
)

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	evaluator       Evaluator
	engine          string
	programCache    ProgramCache
	functions       *FunctionRegistry
	methods         *MethodTable
	logger          Logger
	activityHooks   activity.Hooks
	activityChannel string
	activityActor   string
	activityTenant  string
}

func applyOptions(opts []Option) registryConfig {
	cfg := registryConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEvaluator configures the engine Registry.Expression compiles with. The
// evaluator is used as is, so it only sees the functions it was built with.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *registryConfig) {
		cfg.evaluator = e
	}
}

// WithEngine selects a built-in engine ("expr", "cel" or "js") that the
// registry builds lazily, wired to its Builtins.
func WithEngine(engine string) Option {
	return func(cfg *registryConfig) {
		cfg.engine = strings.ToLower(strings.TrimSpace(engine))
	}
}

// WithProgramCache shares compiled programs across expression bodies.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *registryConfig) {
		cfg.programCache = cache
	}
}

// WithMethodTable installs the table used to resolve body names.
func WithMethodTable(table *MethodTable) Option {
	return func(cfg *registryConfig) {
		cfg.methods = table
	}
}

// WithActivityHooks attaches activity hooks notified after successful
// mutations. Nil entries are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *registryConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *registryConfig) {
		cfg.activityChannel = channel
	}
}

// WithActivityActor stamps actorID and tenantID on emitted events that do
// not carry their own.
func WithActivityActor(actorID, tenantID string) Option {
	return func(cfg *registryConfig) {
		cfg.activityActor = actorID
		cfg.activityTenant = tenantID
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
