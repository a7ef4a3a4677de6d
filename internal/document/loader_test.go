package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoDocs = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
---
apiVersion: v1
kind: Service
metadata:
  name: web
`

func TestLoadMultiDocument(t *testing.T) {
	docs, errs := Load(twoDocs, "web.yaml")
	require.Empty(t, errs)
	require.Len(t, docs, 2)

	assert.Equal(t, "Deployment", docs[0].Kind())
	assert.Equal(t, "Service", docs[1].Kind())
	assert.Equal(t, "web.yaml", docs[0].Source())
	assert.Equal(t, 0, docs[0].Index())
	assert.Equal(t, 1, docs[1].Index())
	assert.Equal(t, "web.yaml[0] Deployment/web", docs[0].Ref())
}

func TestLoadSkipsBlankDocuments(t *testing.T) {
	docs, errs := Load("---\n\n---\nkind: Pod\nmetadata:\n  name: p\n---\n", "x.yaml")
	require.Empty(t, errs)
	require.Len(t, docs, 1)
	assert.Equal(t, "Pod", docs[0].Kind())
}

func TestLoadPartialFailure(t *testing.T) {
	text := `kind: Pod
metadata:
  name: good-one
---
kind: Pod
metadata:
	name: bad-tab-indent
---
kind: Pod
metadata:
  name: good-two
`
	docs, errs := Load(text, "mixed.yaml")
	require.Len(t, errs, 1, "the broken middle document must not take the others down")
	require.Len(t, docs, 2)

	assert.Equal(t, "good-one", docs[0].Name())
	assert.Equal(t, "good-two", docs[1].Name())

	// The failed document still consumes an index.
	assert.Equal(t, 0, docs[0].Index())
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, 2, docs[1].Index())
	assert.Equal(t, "mixed.yaml", errs[0].Source)
}

func TestLoadDuplicateKeysLastWins(t *testing.T) {
	docs, errs := Load("kind: Pod\nmetadata:\n  name: first\n  name: second\n", "dup.yaml")
	require.Empty(t, errs)
	require.Len(t, docs, 1)
	assert.Equal(t, "second", docs[0].Name())
}

func TestMarshalPreservesKeyOrder(t *testing.T) {
	text := `kind: Deployment
apiVersion: apps/v1
metadata:
  name: web
  labels:
    app: web
spec:
  replicas: 2
`
	docs, errs := Load(text, "order.yaml")
	require.Empty(t, errs)
	require.Len(t, docs, 1)

	out, err := Marshal(docs[0])
	require.NoError(t, err)
	assert.Equal(t, text, string(out), "round trip must keep the author's key order")
}

func TestMarshalAllSeparatesDocuments(t *testing.T) {
	docs, errs := Load(twoDocs, "web.yaml")
	require.Empty(t, errs)

	out, err := MarshalAll(docs)
	require.NoError(t, err)
	assert.Equal(t, twoDocs, string(out))

	reloaded, errs := Load(string(out), "web.yaml")
	require.Empty(t, errs)
	require.Len(t, reloaded, 2)
	assert.True(t, reloaded[0].Root().Equal(docs[0].Root()))
	assert.True(t, reloaded[1].Root().Equal(docs[1].Root()))
}
