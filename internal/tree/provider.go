package tree

import (
	"context"
	"fmt"
)

// Document is one loaded document of the source tree.
type Document interface {
	// QualifiedName is the namespace-qualified document name.
	QualifiedName() string
	// Namespace is the document's owning namespace.
	Namespace() string
	// NativeLayout reports whether the document's root declares a
	// native-only presentation layout. Such documents are skipped in
	// full, never traversed.
	NativeLayout() bool
	// Root returns the document's root element.
	Root() *Element
}

// DocumentRef names a document that can be materialized on demand.
type DocumentRef interface {
	QualifiedName() string
	Load(ctx context.Context) (Document, error)
}

// Provider loads named documents into in-memory element trees and exposes
// a depth-first traversal over them.
type Provider interface {
	ListNamespaces(ctx context.Context) ([]string, error)
	ListDocuments(ctx context.Context, namespace string) ([]DocumentRef, error)
	// Traverse visits every element of doc depth-first. A non-nil error
	// from visit aborts the traversal and is returned as-is.
	Traverse(ctx context.Context, doc Document, visit func(el *Element) error) error
}

// Backend is the persistence and versioning collaborator.
type Backend interface {
	OpenWorkingCopy(ctx context.Context, branch string) (WorkingCopy, error)
}

// WorkingCopy accepts a batch of applied mutations and durably commits
// them under a human-readable message. The commit is atomic by contract:
// either the complete batch lands or none of it does.
type WorkingCopy interface {
	Commit(ctx context.Context, mutations []Mutation, message string) error
}

// CommitError wraps a failed commit. Commit failures are fatal to the run
// and surfaced to the operator verbatim.
type CommitError struct {
	Branch string
	Err    error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit on branch %q failed: %v", e.Branch, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// WalkDepthFirst is the canonical depth-first visit order used by
// providers: the element itself, then its children in declaration order.
func WalkDepthFirst(root *Element, visit func(el *Element) error) error {
	if root == nil {
		return nil
	}
	if err := visit(root); err != nil {
		return err
	}
	for _, child := range root.Children {
		if err := WalkDepthFirst(child, visit); err != nil {
			return err
		}
	}
	return nil
}
