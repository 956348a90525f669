// internal/rules/processor.go

package rules

import (
	"fmt"

	"github.com/diagtap/diagtap/internal/config"
	"github.com/diagtap/diagtap/internal/logger"
	"github.com/gobwas/glob"
)

// compiledCondition holds pre-compiled patterns for efficient matching
type compiledCondition struct {
	nameGlobs []glob.Glob  // Pre-compiled glob patterns over the subsystem name
	minLevel  logger.Level // Least severe level the rule still matches (0 = any)
}

// compiledRule holds a rule with its pre-compiled condition and resolved
// sinks. Sinks are resolved at construction so that routing a record never
// touches the manager's lock.
type compiledRule struct {
	rule      config.LogRule
	condition compiledCondition
	sinks     []logger.Sink
}

// Processor routes records to named destination sinks according to the
// configured rules. It is immutable after construction and therefore safe
// for concurrent use.
type Processor struct {
	compiledRules []compiledRule
}

// NewProcessor creates a Processor with pre-compiled patterns and sink
// references resolved through the manager. Rules naming a destination the
// manager failed to initialize are rejected.
func NewProcessor(cfg *config.Config, manager *logger.Manager) (*Processor, error) {
	compiledRules := make([]compiledRule, 0, len(cfg.LogRules))
	for i, rule := range cfg.LogRules {
		if !rule.Enabled {
			continue
		}

		compiled := compiledRule{rule: rule}

		// Pre-compile name glob patterns
		if len(rule.Condition.Names) > 0 {
			compiled.condition.nameGlobs = make([]glob.Glob, 0, len(rule.Condition.Names))
			for _, pattern := range rule.Condition.Names {
				g, err := glob.Compile(pattern)
				if err != nil {
					return nil, fmt.Errorf("rule %d: invalid name glob pattern '%s': %w", i, pattern, err)
				}
				compiled.condition.nameGlobs = append(compiled.condition.nameGlobs, g)
			}
		}

		if rule.Condition.MinLevel != "" {
			level, err := logger.ParseLevel(rule.Condition.MinLevel)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			compiled.condition.minLevel = level
		}

		// Resolve destination sinks once
		for _, name := range rule.Destinations {
			sink := manager.GetSink(name)
			if sink == nil {
				return nil, fmt.Errorf("rule %d: destination '%s' is not initialized", i, name)
			}
			compiled.sinks = append(compiled.sinks, sink)
		}

		compiledRules = append(compiledRules, compiled)
	}

	return &Processor{compiledRules: compiledRules}, nil
}

// Route evaluates the rules against the record in order and returns the
// sinks that should receive a copy. Matching stops at the first rule
// without continue; rules with continue accumulate. An empty condition
// matches every record.
func (p *Processor) Route(r logger.Record) []logger.Sink {
	var out []logger.Sink
	for _, compiled := range p.compiledRules {
		if !compiled.condition.matches(r) {
			continue
		}
		out = append(out, compiled.sinks...)
		if !compiled.rule.Continue {
			break
		}
	}
	return out
}

func (c *compiledCondition) matches(r logger.Record) bool {
	// minLevel bounds verbosity: a record more verbose than minLevel does
	// not match.
	if c.minLevel != 0 && r.Level > c.minLevel {
		return false
	}
	if len(c.nameGlobs) == 0 {
		return true
	}
	for _, g := range c.nameGlobs {
		if g.Match(r.Name) {
			return true
		}
	}
	return false
}

// Ensure Processor implements the facility's Router interface.
var _ logger.Router = (*Processor)(nil)
