// Package walker traverses every document in every non-excluded namespace,
// runs the element processor, and sequences the dry-run, confirmation and
// commit phases of a remediation run.
package walker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"restyle/internal/audit"
	"restyle/internal/engine"
	"restyle/internal/tree"
)

// Options configures a run.
type Options struct {
	// Branch is the working-copy branch the final commit targets.
	Branch string

	// ExcludeNamespaces are skipped entirely.
	ExcludeNamespaces []string

	// ContainerTypes are whole-document container element types that the
	// target profile does not allow to carry design properties; all their
	// properties are deleted unconditionally.
	ContainerTypes []string

	// DryRun analyzes and reports but never prompts and never commits.
	DryRun bool

	// AutoApprove skips the confirmation prompt and accepts.
	AutoApprove bool
}

// Confirmer asks the operator a yes/no question, blocking until answered.
type Confirmer func(question string) bool

// RunStats aggregates everything the orchestrator counted.
type RunStats struct {
	RunID string

	Namespaces         int
	Documents          int
	Elements           int
	NativeLayoutSkips  int
	TraversalFailures  int
	ApplyFailures      int
	MutationsQueued    int
	MutationsCommitted int

	Counts    audit.Counts
	Committed bool
	Declined  bool
}

// CommitMessage renders the human-readable message the batch is committed
// under.
func (s *RunStats) CommitMessage() string {
	return fmt.Sprintf(
		"Remediate design properties: %d mapped, %d removed, %d attributes set across %d documents (run %s)",
		s.Counts[audit.DecisionMapped],
		s.Counts[audit.DecisionRemoved],
		s.Counts[audit.DecisionAttributeSet],
		s.Documents,
		s.RunID)
}

// Walker drives a full remediation run.
type Walker struct {
	provider tree.Provider
	backend  tree.Backend
	proc     *engine.Processor
	confirm  Confirmer
	opts     Options
	log      *zap.Logger

	containerTypes map[string]struct{}
	excluded       map[string]struct{}
}

// New builds a walker. confirm may be nil when opts.DryRun or
// opts.AutoApprove make prompting unreachable.
func New(provider tree.Provider, backend tree.Backend, proc *engine.Processor,
	confirm Confirmer, opts Options, log *zap.Logger) *Walker {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Walker{
		provider:       provider,
		backend:        backend,
		proc:           proc,
		confirm:        confirm,
		opts:           opts,
		log:            log,
		containerTypes: make(map[string]struct{}),
		excluded:       make(map[string]struct{}),
	}
	for _, t := range opts.ContainerTypes {
		w.containerTypes[t] = struct{}{}
	}
	for _, ns := range opts.ExcludeNamespaces {
		w.excluded[ns] = struct{}{}
	}
	return w
}

// Run executes the complete flow: analyze everything, then (unless the
// run is dry or declined) apply the staged mutations and commit them as a
// single batch. Analysis failures below document granularity never abort
// the run; only the final commit can fail it.
func (w *Walker) Run(ctx context.Context) (*RunStats, []audit.Record, error) {
	stats := &RunStats{
		RunID:  uuid.NewString(),
		Counts: make(audit.Counts),
	}
	w.log.Info("starting remediation run",
		zap.String("run_id", stats.RunID),
		zap.String("branch", w.opts.Branch),
		zap.Bool("dry_run", w.opts.DryRun))

	mutations, records := w.analyze(ctx, stats)
	stats.Counts = audit.Count(records)
	stats.MutationsQueued = len(mutations)

	if len(mutations) == 0 {
		w.log.Info("no mutations queued, nothing to commit",
			zap.Int("records", len(records)))
		return stats, records, nil
	}

	if !w.accepted(stats) {
		stats.Declined = true
		w.log.Info("run declined, discarding queued mutations",
			zap.Int("mutations", len(mutations)))
		return stats, records, nil
	}

	applied := w.apply(mutations, stats)
	if err := w.commit(ctx, applied, stats); err != nil {
		return stats, records, err
	}
	stats.Committed = true
	stats.MutationsCommitted = len(applied)
	return stats, records, nil
}

// analyze is the read-only pass: it stages mutations and collects audit
// records without touching the tree.
func (w *Walker) analyze(ctx context.Context, stats *RunStats) ([]tree.Mutation, []audit.Record) {
	var mutations []tree.Mutation
	var records []audit.Record

	namespaces, err := w.provider.ListNamespaces(ctx)
	if err != nil {
		w.log.Error("listing namespaces failed", zap.Error(err))
		stats.TraversalFailures++
		return nil, nil
	}

	for _, ns := range namespaces {
		if _, skip := w.excluded[ns]; skip {
			w.log.Debug("namespace excluded", zap.String("namespace", ns))
			continue
		}
		stats.Namespaces++

		refs, err := w.provider.ListDocuments(ctx, ns)
		if err != nil {
			w.log.Warn("listing documents failed, skipping namespace",
				zap.String("namespace", ns), zap.Error(err))
			stats.TraversalFailures++
			continue
		}

		for _, ref := range refs {
			muts, recs := w.analyzeDocument(ctx, ns, ref, stats)
			mutations = append(mutations, muts...)
			records = append(records, recs...)
		}
	}
	return mutations, records
}

func (w *Walker) analyzeDocument(ctx context.Context, ns string, ref tree.DocumentRef, stats *RunStats) ([]tree.Mutation, []audit.Record) {
	doc, err := ref.Load(ctx)
	if err != nil {
		w.log.Warn("loading document failed, skipping",
			zap.String("document", ref.QualifiedName()), zap.Error(err))
		stats.TraversalFailures++
		return nil, nil
	}

	// Native-only presentation layouts are skipped whole, counted apart
	// from per-property skips.
	if doc.NativeLayout() {
		w.log.Debug("skipping native layout document",
			zap.String("document", doc.QualifiedName()))
		stats.NativeLayoutSkips++
		return nil, nil
	}
	stats.Documents++

	info := engine.DocumentInfo{Name: doc.QualifiedName(), Namespace: ns}
	var mutations []tree.Mutation
	var records []audit.Record

	err = w.provider.Traverse(ctx, doc, func(el *tree.Element) error {
		stats.Elements++
		var res engine.Result
		if _, isContainer := w.containerTypes[el.Type]; isContainer {
			res = w.proc.ProcessUnsupportedContainer(el, info)
		} else {
			res = w.proc.Process(el, info)
		}
		mutations = append(mutations, res.Mutations...)
		records = append(records, res.Records...)
		return nil
	})
	if err != nil {
		w.log.Warn("traversal failed, continuing with next document",
			zap.String("document", doc.QualifiedName()), zap.Error(err))
		stats.TraversalFailures++
	}
	return mutations, records
}

// accepted decides whether the staged mutations may be applied.
func (w *Walker) accepted(stats *RunStats) bool {
	if w.opts.DryRun {
		return false
	}
	if w.opts.AutoApprove {
		return true
	}
	if w.confirm == nil {
		return false
	}
	question := fmt.Sprintf(
		"Apply %d staged mutations (%d mapped, %d removed, %d attributes set, %d skipped) to branch %q?",
		stats.MutationsQueued,
		stats.Counts[audit.DecisionMapped],
		stats.Counts[audit.DecisionRemoved],
		stats.Counts[audit.DecisionAttributeSet],
		stats.Counts[audit.DecisionSkipped],
		w.opts.Branch)
	return w.confirm(question)
}

// apply performs the staged mutations against the in-memory tree. A
// failed mutation is logged and left unapplied; the rest proceed.
func (w *Walker) apply(mutations []tree.Mutation, stats *RunStats) []tree.Mutation {
	applied := make([]tree.Mutation, 0, len(mutations))
	for _, m := range mutations {
		if err := m.Apply(); err != nil {
			w.log.Warn("mutation failed to apply, leaving property unapplied",
				zap.String("mutation", m.Describe()), zap.Error(err))
			stats.ApplyFailures++
			continue
		}
		applied = append(applied, m)
	}
	return applied
}

// commit hands the applied batch to the backend. The working copy is not
// opened until after confirmation, so a declined run never reaches the
// backend at all.
func (w *Walker) commit(ctx context.Context, applied []tree.Mutation, stats *RunStats) error {
	wc, err := w.backend.OpenWorkingCopy(ctx, w.opts.Branch)
	if err != nil {
		return fmt.Errorf("opening working copy on %q: %w", w.opts.Branch, err)
	}
	if err := wc.Commit(ctx, applied, stats.CommitMessage()); err != nil {
		return &tree.CommitError{Branch: w.opts.Branch, Err: err}
	}
	w.log.Info("batch committed",
		zap.Int("mutations", len(applied)),
		zap.String("run_id", stats.RunID))
	return nil
}
