package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restyle/internal/tree"
)

const overviewDoc = `
name: Overview
root:
  type: Page
  name: Overview
  children:
    - type: DivContainer
      name: header
      properties:
        - key: Justify content
          option: Center
        - key: Fill
          toggle: true
        - key: Spacing
          compound:
            - key: margin-top
              value: Small
      attributeEnums:
        RenderMode: [Visible, Collapsed]
`

const nativeDoc = `
name: PhoneHome
nativeLayout: true
root:
  type: Page
  name: PhoneHome
`

func writeExport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	nsDir := filepath.Join(dir, "CustomerPortal")
	require.NoError(t, os.MkdirAll(nsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nsDir, "Overview.yaml"), []byte(overviewDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(nsDir, "PhoneHome.yaml"), []byte(nativeDoc), 0o644))
	return dir
}

func TestStore_ListAndLoad(t *testing.T) {
	ctx := context.Background()
	store, err := Open(writeExport(t), nil)
	require.NoError(t, err)

	namespaces, err := store.ListNamespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CustomerPortal"}, namespaces)

	refs, err := store.ListDocuments(ctx, "CustomerPortal")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "CustomerPortal.Overview", refs[0].QualifiedName())
	assert.Equal(t, "CustomerPortal.PhoneHome", refs[1].QualifiedName())

	doc, err := refs[0].Load(ctx)
	require.NoError(t, err)
	assert.False(t, doc.NativeLayout())
	assert.Equal(t, "CustomerPortal", doc.Namespace())

	native, err := refs[1].Load(ctx)
	require.NoError(t, err)
	assert.True(t, native.NativeLayout())
}

func TestStore_DecodesValueKinds(t *testing.T) {
	ctx := context.Background()
	store, err := Open(writeExport(t), nil)
	require.NoError(t, err)

	refs, err := store.ListDocuments(ctx, "CustomerPortal")
	require.NoError(t, err)
	doc, err := refs[0].Load(ctx)
	require.NoError(t, err)

	var header *tree.Element
	err = store.Traverse(ctx, doc, func(el *tree.Element) error {
		if el.Name == "header" {
			header = el
		}
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, header)

	justify, ok := header.Property("Justify content")
	require.True(t, ok)
	assert.Equal(t, tree.Option{Name: "Center"}, justify.Value)

	fill, ok := header.Property("Fill")
	require.True(t, ok)
	assert.Equal(t, tree.Toggle{On: true}, fill.Value)

	spacing, ok := header.Property("Spacing")
	require.True(t, ok)
	compound, isCompound := spacing.Value.(tree.Compound)
	require.True(t, isCompound)
	v, _ := compound.Get("margin-top")
	assert.Equal(t, "Small", v)

	assert.Equal(t, []string{"Visible", "Collapsed"}, header.AttributeEnums["RenderMode"])
}

func TestStore_CommitWritesBack(t *testing.T) {
	ctx := context.Background()
	dir := writeExport(t)
	store, err := Open(dir, nil)
	require.NoError(t, err)

	refs, err := store.ListDocuments(ctx, "CustomerPortal")
	require.NoError(t, err)
	doc, err := refs[0].Load(ctx)
	require.NoError(t, err)

	// Stage and apply mutations the way the walker's apply pass would.
	header := doc.Root().Children[0]
	muts := []tree.Mutation{
		tree.RewriteProperty{Element: header, SourceKey: "Justify content",
			TargetKey: "Align content", TargetValue: tree.Option{Name: "Center"}},
		tree.DeleteProperty{Element: header, Key: "Fill"},
	}
	for _, m := range muts {
		require.NoError(t, m.Apply())
	}

	wc, err := store.OpenWorkingCopy(ctx, "main")
	require.NoError(t, err)
	require.NoError(t, wc.Commit(ctx, muts, "Remediate design properties"))

	// Reload from disk through a fresh store.
	fresh, err := Open(dir, nil)
	require.NoError(t, err)
	freshRefs, err := fresh.ListDocuments(ctx, "CustomerPortal")
	require.NoError(t, err)
	reloaded, err := freshRefs[0].Load(ctx)
	require.NoError(t, err)

	reheader := reloaded.Root().Children[0]
	assert.True(t, reheader.HasProperty("Align content"))
	assert.False(t, reheader.HasProperty("Fill"))

	logData, err := os.ReadFile(filepath.Join(dir, "commits.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(logData), "main"))
	assert.True(t, strings.Contains(string(logData), "Remediate design properties"))
}

func TestStore_CommitSkipsUntouchedDocuments(t *testing.T) {
	ctx := context.Background()
	dir := writeExport(t)
	store, err := Open(dir, nil)
	require.NoError(t, err)

	refs, err := store.ListDocuments(ctx, "CustomerPortal")
	require.NoError(t, err)
	overview, err := refs[0].Load(ctx)
	require.NoError(t, err)
	_, err = refs[1].Load(ctx)
	require.NoError(t, err, "the native-layout document is loaded but never mutated")

	nativePath := filepath.Join(dir, "CustomerPortal", "PhoneHome.yaml")
	before, err := os.ReadFile(nativePath)
	require.NoError(t, err)

	mut := tree.DeleteProperty{Element: overview.Root().Children[0], Key: "Fill"}
	require.NoError(t, mut.Apply())

	wc, err := store.OpenWorkingCopy(ctx, "main")
	require.NoError(t, err)
	require.NoError(t, wc.Commit(ctx, []tree.Mutation{mut}, "m"))

	after, err := os.ReadFile(nativePath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "documents outside the batch must not be rewritten")
}

func TestStore_CompoundOrderSurvivesWriteBack(t *testing.T) {
	const panelDoc = `
name: Panel
root:
  type: DivContainer
  name: panel
  properties:
    - key: Spacing
      compound:
        - key: padding-top
          value: Small
        - key: margin-bottom
          value: Large
    - key: Fill
      toggle: true
`
	ctx := context.Background()
	dir := t.TempDir()
	nsDir := filepath.Join(dir, "CustomerPortal")
	require.NoError(t, os.MkdirAll(nsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nsDir, "Panel.yaml"), []byte(panelDoc), 0o644))

	store, err := Open(dir, nil)
	require.NoError(t, err)
	refs, err := store.ListDocuments(ctx, "CustomerPortal")
	require.NoError(t, err)
	doc, err := refs[0].Load(ctx)
	require.NoError(t, err)

	mut := tree.DeleteProperty{Element: doc.Root(), Key: "Fill"}
	require.NoError(t, mut.Apply())
	wc, err := store.OpenWorkingCopy(ctx, "main")
	require.NoError(t, err)
	require.NoError(t, wc.Commit(ctx, []tree.Mutation{mut}, "m"))

	fresh, err := Open(dir, nil)
	require.NoError(t, err)
	freshRefs, err := fresh.ListDocuments(ctx, "CustomerPortal")
	require.NoError(t, err)
	reloaded, err := freshRefs[0].Load(ctx)
	require.NoError(t, err)

	spacing, ok := reloaded.Root().Property("Spacing")
	require.True(t, ok)
	compound, isCompound := spacing.Value.(tree.Compound)
	require.True(t, isCompound)
	require.Len(t, compound.Pairs, 2)
	assert.Equal(t, "padding-top", compound.Pairs[0].Key, "entry order must survive the round trip")
	assert.Equal(t, "margin-bottom", compound.Pairs[1].Key)
}

func TestOpen_MissingDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent"), nil)
	require.Error(t, err)
}
