package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/lint"
)

func mustLoad(t *testing.T, text string) *document.Document {
	t.Helper()
	docs, errs := document.Load(text, "test.yaml")
	require.Empty(t, errs)
	require.Len(t, docs, 1)
	return docs[0]
}

const neglectedDeployment = `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
  labels:
    app: web
spec:
  replicas: 2
  selector:
    matchLabels:
      app: web
  template:
    spec:
      containers:
        - name: web
          image: nginx:latest
`

const tidyDeployment = `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: tidy
  labels:
    app: tidy
spec:
  replicas: 2
  strategy:
    type: RollingUpdate
  template:
    spec:
      containers:
        - name: tidy
          image: app:1.2.3
          resources:
            requests:
              cpu: 100m
              memory: 128Mi
            limits:
              cpu: 500m
              memory: 512Mi
          livenessProbe:
            httpGet:
              path: /health
              port: 8080
          readinessProbe:
            httpGet:
              path: /ready
              port: 8080
          securityContext:
            runAsNonRoot: true
            readOnlyRootFilesystem: true
`

func newAnalyzer() *Analyzer {
	return New(lint.NewBuiltinRegistry(), nil, nil)
}

func TestAnalyzeNeglectedDeployment(t *testing.T) {
	result := newAnalyzer().Analyze([]*document.Document{mustLoad(t, neglectedDeployment)})
	require.Len(t, result.Documents, 1)

	d := result.Documents[0]
	assert.Len(t, d.Issues, 5)
	assert.Equal(t, 60, d.Scores.Security)
	assert.Equal(t, 50, d.Scores.Performance)
	assert.Equal(t, 70, d.Scores.Reliability)
	assert.Equal(t, 100, d.Scores.Complexity)

	assert.Equal(t, 5, result.TotalIssues)
	assert.Equal(t, 1, result.ErrorIssues)
	assert.NotEmpty(t, result.Recommendations)
}

func TestAnalyzeTidyDeployment(t *testing.T) {
	result := newAnalyzer().Analyze([]*document.Document{mustLoad(t, tidyDeployment)})
	require.Len(t, result.Documents, 1)

	d := result.Documents[0]
	assert.Empty(t, d.Issues)
	assert.Equal(t, Scores{Security: 100, Performance: 100, Reliability: 100, Complexity: 100}, d.Scores)
	assert.Equal(t, "100m", d.Usage.CPURequest)
	assert.Equal(t, "512Mi", d.Usage.MemoryLimit)
	assert.True(t, d.Usage.HasProbes)
	assert.True(t, d.Usage.HasSecurity)
	assert.Empty(t, result.Recommendations)
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	result := newAnalyzer().Analyze(nil)
	assert.Empty(t, result.Documents)
	assert.NotNil(t, result.Documents, "empty batch serializes as [], not null")
	assert.Equal(t, Scores{Security: 100, Performance: 100, Reliability: 100, Complexity: 100}, result.Aggregate)
	assert.Zero(t, result.TotalIssues)
	assert.Empty(t, result.Recommendations)
}

func TestAggregateIsRoundedMean(t *testing.T) {
	docs := []*document.Document{
		mustLoad(t, neglectedDeployment),
		mustLoad(t, tidyDeployment),
	}
	result := newAnalyzer().Analyze(docs)
	// (60+100)/2 and (50+100)/2.
	assert.Equal(t, 80, result.Aggregate.Security)
	assert.Equal(t, 75, result.Aggregate.Performance)
	assert.Equal(t, 85, result.Aggregate.Reliability)
	assert.Equal(t, 100, result.Aggregate.Complexity)
}

func TestScoresNeverLeaveBounds(t *testing.T) {
	// Inflate one deduction far past 100 to exercise the floor.
	weights := DefaultWeights().Merge(map[Finding]int{FindingNoSecurityContext: 500})
	a := New(lint.NewBuiltinRegistry(), weights, nil)

	result := a.Analyze([]*document.Document{mustLoad(t, neglectedDeployment)})
	s := result.Documents[0].Scores
	for _, v := range []int{s.Security, s.Performance, s.Reliability, s.Complexity} {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
	assert.Equal(t, 0, s.Security)
}

func TestWeightsMergeDoesNotMutateDefaults(t *testing.T) {
	base := DefaultWeights()
	merged := base.Merge(map[Finding]int{FindingFloatingImageTag: 1})

	assert.Equal(t, 15, base[FindingFloatingImageTag][0].Points)
	assert.Equal(t, 1, merged[FindingFloatingImageTag][0].Points)
}

func TestCollectFactsCountsAndDedupes(t *testing.T) {
	doc := mustLoad(t, `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: multi
spec:
  template:
    spec:
      initContainers:
        - name: init
      containers:
        - name: one
        - name: two
        - name: three
      volumes:
        - name: v1
        - name: v2
`)
	facts := CollectFacts(doc)
	assert.Equal(t, 2, facts.Findings[FindingExtraContainers])
	assert.Equal(t, 2, facts.Findings[FindingVolumes])
	assert.Equal(t, 1, facts.Findings[FindingInitContainers])
	assert.Equal(t, 1, facts.Findings[FindingNoSecurityContext], "three bare containers count as one distinct finding")
	assert.Equal(t, 1, facts.Findings[FindingSingleReplica], "unset replicas defaults to one")
}

func TestCollectFactsInvalidQuantity(t *testing.T) {
	doc := mustLoad(t, `
kind: Pod
metadata:
  name: p
spec:
  containers:
    - name: c
      resources:
        requests:
          cpu: lots
`)
	facts := CollectFacts(doc)
	assert.Equal(t, 1, facts.Findings[FindingInvalidQuantity])
	assert.Empty(t, facts.Usage.CPURequest, "unparseable quantities are not reported as usage")
}

func TestInsights(t *testing.T) {
	pod := mustLoad(t, "kind: Pod\nmetadata:\n  name: p\nspec:\n  containers:\n    - name: c\n")
	result := newAnalyzer().Analyze([]*document.Document{pod})
	assert.Contains(t, result.Documents[0].Insights[0], "Deployment instead of a bare Pod")

	lb := mustLoad(t, "kind: Service\nmetadata:\n  name: s\nspec:\n  type: LoadBalancer\n")
	result = newAnalyzer().Analyze([]*document.Document{lb})
	require.NotEmpty(t, result.Documents[0].Insights)
	assert.Contains(t, result.Documents[0].Insights[0], "LoadBalancer")
}
