package analyze

import (
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/manifest"
)

// maxComfortableDepth is the nesting depth beyond which a manifest is
// counted as deeply nested for complexity scoring.
const maxComfortableDepth = 8

// ResourceUsage summarizes the resource configuration of a document's
// first container, for reporting.
type ResourceUsage struct {
	CPURequest    string `json:"cpuRequest,omitempty"`
	MemoryRequest string `json:"memoryRequest,omitempty"`
	CPULimit      string `json:"cpuLimit,omitempty"`
	MemoryLimit   string `json:"memoryLimit,omitempty"`
	HasProbes     bool   `json:"hasProbes"`
	HasSecurity   bool   `json:"hasSecurityContext"`
}

// Facts are the structural observations scoring works from.
type Facts struct {
	Kind     string
	Findings map[Finding]int
	Usage    ResourceUsage
}

// CollectFacts inspects a document and records its distinct findings.
// Counted findings (extra containers, volumes) carry their multiplicity;
// everything else is present with count 1 or absent.
func CollectFacts(doc *document.Document) Facts {
	f := Facts{
		Kind:     doc.Kind(),
		Findings: make(map[Finding]int),
	}

	containers := manifest.Containers(doc)
	for _, c := range containers {
		collectContainerFacts(&f, c)
	}
	if len(containers) > 1 {
		f.Findings[FindingExtraContainers] = len(containers) - 1
	}

	if specPath, ok := manifest.PodSpecPath(doc); ok {
		spec, _ := doc.Root().Get(specPath...)
		if vols, ok := spec.Get(document.Key("volumes")); ok && vols.Len() > 0 {
			f.Findings[FindingVolumes] = vols.Len()
		}
		if spec.Has(document.Key("initContainers")) {
			f.Findings[FindingInitContainers] = 1
		}
		if rp := spec.StringAt(document.Key("restartPolicy")); rp != "" && rp != "Always" {
			f.Findings[FindingRestartPolicyNotAlways] = 1
		}
	}

	if manifest.IsReplicated(f.Kind) {
		// Unset replicas defaults to 1, which counts as a single replica.
		replicas, ok := doc.Root().Get(document.Key("spec"), document.Key("replicas"))
		n := int64(1)
		if ok {
			if v, isInt := replicas.IntValue(); isInt {
				n = v
			}
		}
		if n < 2 {
			f.Findings[FindingSingleReplica] = 1
		}
	}

	if depth(doc.Root()) > maxComfortableDepth {
		f.Findings[FindingDeepNesting] = 1
	}

	return f
}

func collectContainerFacts(f *Facts, c manifest.Container) {
	sc, hasCtx := c.Node.Get(document.Key("securityContext"))
	if hasCtx {
		f.Usage.HasSecurity = true
		if !c.Node.BoolAt(document.Key("securityContext"), document.Key("runAsNonRoot")) {
			f.Findings[FindingRunAsNonRootUnset] = 1
		}
		if !sc.BoolAt(document.Key("readOnlyRootFilesystem")) {
			f.Findings[FindingReadOnlyRootUnset] = 1
		}
		if sc.BoolAt(document.Key("allowPrivilegeEscalation")) {
			f.Findings[FindingPrivilegeEscalation] = 1
		}
	} else {
		f.Findings[FindingNoSecurityContext] = 1
	}

	if manifest.UsesLatestTag(c.Image()) {
		f.Findings[FindingFloatingImageTag] = 1
	}

	res, hasRes := c.Node.Get(document.Key("resources"))
	if hasRes {
		if !res.Has(document.Key("requests")) {
			f.Findings[FindingMissingRequests] = 1
		}
		if !res.Has(document.Key("limits")) {
			f.Findings[FindingMissingLimits] = 1
		}
		recordUsage(f, res)
	} else {
		f.Findings[FindingNoResources] = 1
	}

	if c.Node.Has(document.Key("livenessProbe")) || c.Node.Has(document.Key("readinessProbe")) {
		f.Usage.HasProbes = true
	}
	if !c.Node.Has(document.Key("livenessProbe")) {
		f.Findings[FindingMissingLivenessProbe] = 1
	}
	if !c.Node.Has(document.Key("readinessProbe")) {
		f.Findings[FindingMissingReadinessProbe] = 1
	}
}

// recordUsage fills in the first observed quantity per field and flags
// quantities that do not parse.
func recordUsage(f *Facts, res *document.Node) {
	record := func(dst *string, fields ...string) {
		q := res.StringAt(document.FieldPath(fields...)...)
		if q == "" {
			return
		}
		if _, err := resource.ParseQuantity(q); err != nil {
			f.Findings[FindingInvalidQuantity] = 1
			return
		}
		if *dst == "" {
			*dst = q
		}
	}
	record(&f.Usage.CPURequest, "requests", "cpu")
	record(&f.Usage.MemoryRequest, "requests", "memory")
	record(&f.Usage.CPULimit, "limits", "cpu")
	record(&f.Usage.MemoryLimit, "limits", "memory")
}

func depth(n *document.Node) int {
	max := 0
	switch n.Kind() {
	case document.MappingNode:
		for _, e := range n.Entries() {
			if d := depth(e.Value); d > max {
				max = d
			}
		}
	case document.SequenceNode:
		for _, item := range n.Items() {
			if d := depth(item); d > max {
				max = d
			}
		}
	default:
		return 0
	}
	return max + 1
}
