package finalizer

import (
	"mrdocs/internal/corpus"
	"mrdocs/internal/logging"
	"mrdocs/internal/lookup"
	"mrdocs/internal/merrors"
)

// Config selects the policy knobs the five passes read (spec §6).
type Config struct {
	InheritBaseMembers InheritancePolicy
	Overloads          bool
}

// DefaultConfig matches the spec's documented defaults: inheritance
// off, overload grouping on.
func DefaultConfig() Config {
	return Config{InheritBaseMembers: InheritNever, Overloads: true}
}

// Orchestrator runs the five finalizer passes over a corpus.Store in
// the fixed order spec §4 requires: A (reference resolution), B
// (inheritance), C (overload grouping), D (doc-comment finalization),
// E (sort). The orchestrator owns one lookup.Engine, which only pass
// A receives.
type Orchestrator struct {
	store  *corpus.Store
	lookup *lookup.Engine
	config Config
	logger *logging.Logger
}

// NewOrchestrator builds the fixed A→B→C→D→E pipeline over store.
func NewOrchestrator(store *corpus.Store, config Config, logger *logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Orchestrator{store: store, lookup: lookup.NewEngine(store), config: config, logger: logger}
}

// Run executes all five passes and returns the accumulated
// diagnostics. Every diagnostic, whatever its Code (InternalInvariant
// included), is only recorded: the remaining passes always run.
// Diagnostics.Compound turns the result into a single error for
// callers that want one.
func (o *Orchestrator) Run() *merrors.Diagnostics {
	diags := &merrors.Diagnostics{}

	NewReferenceResolver(o.store, o.lookup, o.logger).Run(diags)
	NewInheritanceFinalizer(o.store, o.config.InheritBaseMembers, o.logger).Run(diags)
	if o.config.Overloads {
		NewOverloadGrouper(o.store, o.logger).Run(diags)
	}
	NewDocCommentFinalizer(o.store, o.logger).Run(diags)
	NewSortFinalizer(o.store, o.logger).Run(diags)

	return diags
}
