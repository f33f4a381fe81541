// Package local implements the tree provider and persistence backend over
// a directory of exported documents: one subdirectory per namespace, one
// YAML file per document. Commits write the mutated documents back and
// append the batch message to a commit log.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"restyle/internal/tree"
)

const commitLog = "commits.log"

// Store is a directory-backed document store. It implements both
// tree.Provider and tree.Backend.
type Store struct {
	dir    string
	log    *zap.Logger
	loaded []*document

	// owners maps every loaded element to its document, so a commit can
	// tell which documents its mutation batch actually touched.
	owners map[*tree.Element]*document
}

// Open validates the export directory and returns a store over it.
func Open(dir string, log *zap.Logger) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening source directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %q is not a directory", dir)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{dir: dir, log: log, owners: make(map[*tree.Element]*document)}, nil
}

// ListNamespaces returns the namespace subdirectories in sorted order.
func (s *Store) ListNamespaces(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}
	var namespaces []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			namespaces = append(namespaces, e.Name())
		}
	}
	sort.Strings(namespaces)
	return namespaces, nil
}

// ListDocuments returns refs for every document file of the namespace,
// sorted by name for a deterministic traversal order.
func (s *Store) ListDocuments(ctx context.Context, namespace string) ([]tree.DocumentRef, error) {
	nsDir := filepath.Join(s.dir, namespace)
	entries, err := os.ReadDir(nsDir)
	if err != nil {
		return nil, fmt.Errorf("listing documents of %q: %w", namespace, err)
	}
	var refs []tree.DocumentRef
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		refs = append(refs, &documentRef{
			store:     s,
			namespace: namespace,
			path:      filepath.Join(nsDir, e.Name()),
		})
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].QualifiedName() < refs[j].QualifiedName()
	})
	return refs, nil
}

// Traverse visits the document's elements depth-first.
func (s *Store) Traverse(ctx context.Context, doc tree.Document, visit func(el *tree.Element) error) error {
	return tree.WalkDepthFirst(doc.Root(), visit)
}

// OpenWorkingCopy returns a working copy that serializes the mutated
// documents back to disk on commit.
func (s *Store) OpenWorkingCopy(ctx context.Context, branch string) (tree.WorkingCopy, error) {
	return &workingCopy{store: s, branch: branch}, nil
}

type workingCopy struct {
	store  *Store
	branch string
}

// Commit writes back only the documents the batch mutated and records the
// batch in the commit log. Loaded but untouched documents, native-layout
// ones included, are never rewritten. Documents are written to temp files
// first and renamed, so a failure mid-batch never leaves a half-written
// document.
func (wc *workingCopy) Commit(ctx context.Context, mutations []tree.Mutation, message string) error {
	dirty := make(map[*document]struct{})
	for _, m := range mutations {
		if doc, ok := wc.store.owners[m.Target()]; ok {
			dirty[doc] = struct{}{}
		}
	}
	saved := 0
	for _, doc := range wc.store.loaded {
		if _, ok := dirty[doc]; !ok {
			continue
		}
		if err := doc.save(); err != nil {
			return fmt.Errorf("saving %q: %w", doc.QualifiedName(), err)
		}
		saved++
	}
	entry := fmt.Sprintf("%s\t%s\t%d mutations\t%s\n",
		time.Now().UTC().Format(time.RFC3339), wc.branch, len(mutations), message)
	logPath := filepath.Join(wc.store.dir, commitLog)
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening commit log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("writing commit log: %w", err)
	}
	wc.store.log.Info("committed working copy",
		zap.String("branch", wc.branch),
		zap.Int("documents", saved))
	return nil
}

type documentRef struct {
	store     *Store
	namespace string
	path      string
}

func (r *documentRef) QualifiedName() string {
	base := strings.TrimSuffix(filepath.Base(r.path), ".yaml")
	return r.namespace + "." + base
}

func (r *documentRef) Load(ctx context.Context) (tree.Document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", r.QualifiedName(), err)
	}
	var raw documentYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing document %q: %w", r.QualifiedName(), err)
	}
	doc := &document{
		ref:          r,
		nativeLayout: raw.NativeLayout,
		root:         raw.Root.toElement(),
	}
	r.store.loaded = append(r.store.loaded, doc)
	_ = tree.WalkDepthFirst(doc.root, func(el *tree.Element) error {
		r.store.owners[el] = doc
		return nil
	})
	return doc, nil
}

type document struct {
	ref          *documentRef
	nativeLayout bool
	root         *tree.Element
}

func (d *document) QualifiedName() string { return d.ref.QualifiedName() }
func (d *document) Namespace() string     { return d.ref.namespace }
func (d *document) NativeLayout() bool    { return d.nativeLayout }
func (d *document) Root() *tree.Element   { return d.root }

func (d *document) save() error {
	raw := documentYAML{
		Name:         strings.TrimSuffix(filepath.Base(d.ref.path), ".yaml"),
		NativeLayout: d.nativeLayout,
		Root:         fromElement(d.root),
	}
	data, err := yaml.Marshal(&raw)
	if err != nil {
		return err
	}
	tmp := d.ref.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, d.ref.path)
}
