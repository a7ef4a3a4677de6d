package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeGet(t *testing.T) {
	root := Mapping(
		Entry("metadata", Mapping(
			Entry("name", String("web")),
			Entry("labels", Mapping(Entry("app", String("web")))),
		)),
		Entry("spec", Mapping(
			Entry("replicas", Int(3)),
			Entry("containers", Sequence(
				Mapping(Entry("name", String("main"))),
				Mapping(Entry("name", String("sidecar"))),
			)),
		)),
	)

	name, ok := root.Get(Key("metadata"), Key("name"))
	require.True(t, ok)
	s, ok := name.StringValue()
	require.True(t, ok)
	assert.Equal(t, "web", s)

	second, ok := root.Get(Key("spec"), Key("containers"), Index(1), Key("name"))
	require.True(t, ok)
	assert.Equal(t, "sidecar", second.Value())

	_, ok = root.Get(Key("spec"), Key("containers"), Index(2))
	assert.False(t, ok, "out-of-range index must miss")

	_, ok = root.Get(Key("metadata"), Key("name"), Key("deeper"))
	assert.False(t, ok, "keying into a scalar must miss")

	assert.Equal(t, "web", root.StringAt(Key("metadata"), Key("name")))
	assert.Equal(t, "", root.StringAt(Key("metadata"), Key("missing")))
	assert.Equal(t, int64(3), root.IntAt(Key("spec"), Key("replicas")))
	assert.False(t, root.BoolAt(Key("spec"), Key("replicas")), "wrong scalar type reads as zero value")
}

func TestNodeWithReplacesWithoutMutating(t *testing.T) {
	root := Mapping(
		Entry("metadata", Mapping(Entry("name", String("web")))),
		Entry("spec", Mapping(Entry("replicas", Int(1)))),
	)

	updated, err := root.With(FieldPath("spec", "replicas"), Int(3))
	require.NoError(t, err)

	assert.Equal(t, int64(3), updated.IntAt(Key("spec"), Key("replicas")))
	assert.Equal(t, int64(1), root.IntAt(Key("spec"), Key("replicas")), "original tree must be untouched")

	// Untouched subtrees are shared, not copied.
	origMeta, _ := root.Get(Key("metadata"))
	newMeta, _ := updated.Get(Key("metadata"))
	assert.Same(t, origMeta, newMeta)
}

func TestNodeWithCreatesMissingMappings(t *testing.T) {
	root := Mapping(Entry("metadata", Mapping(Entry("name", String("web")))))

	updated, err := root.With(FieldPath("metadata", "labels", "app"), String("web"))
	require.NoError(t, err)
	assert.Equal(t, "web", updated.StringAt(Key("metadata"), Key("labels"), Key("app")))
	assert.False(t, root.Has(Key("metadata"), Key("labels")))

	// New keys are appended after existing ones so output order is stable.
	meta, _ := updated.Get(Key("metadata"))
	assert.Equal(t, []string{"name", "labels"}, meta.Keys())
}

func TestNodeWithBadSequenceIndex(t *testing.T) {
	root := Mapping(Entry("items", Sequence(String("a"))))

	_, err := root.With(Path{Key("items"), Index(5)}, String("b"))
	var pathErr *PathError
	require.True(t, errors.As(err, &pathErr))

	_, err = root.With(Path{Key("metadata"), Index(0)}, String("b"))
	assert.True(t, errors.As(err, &pathErr), "indexing a non-sequence is a path error")
}

func TestNodeEqualIgnoresKeyOrder(t *testing.T) {
	a := Mapping(Entry("x", Int(1)), Entry("y", Int(2)))
	b := Mapping(Entry("y", Int(2)), Entry("x", Int(1)))
	c := Mapping(Entry("x", Int(1)), Entry("y", Int(3)))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, Sequence(Int(1), Int(2)).Equal(Sequence(Int(2), Int(1))), "sequence order matters")
}

func TestNodeEqualDistinguishesEmptyFromNull(t *testing.T) {
	assert.False(t, Mapping().Equal(Null()))
	assert.False(t, Sequence().Equal(Null()))
	assert.False(t, Mapping().Equal(nil))
	assert.False(t, Mapping().Equal(Sequence()))

	assert.True(t, Null().Equal(Null()))
	assert.True(t, Null().Equal(nil))
	assert.True(t, (*Node)(nil).Equal(nil))
}

func TestPathString(t *testing.T) {
	p := FieldPath("spec", "template", "spec", "containers").ChildIndex(0).ChildKey("image")
	assert.Equal(t, "/spec/template/spec/containers/0/image", p.String())

	assert.Equal(t, "/", Path{}.String())
	assert.Equal(t, "/metadata/labels/app~1part", FieldPath("metadata", "labels", "app/part").String())
}

func TestChildDoesNotAliasParent(t *testing.T) {
	base := FieldPath("spec", "containers")
	a := base.ChildKey("image")
	b := base.ChildKey("name")
	assert.Equal(t, "/spec/containers/image", a.String())
	assert.Equal(t, "/spec/containers/name", b.String())
}
