package remediate

import (
	"fmt"
	"strings"

	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/manifest"
)

// action is one corrective step of the catalog.
//
// apply checks its own preconditions: it records a change only for fields
// that were actually missing or wrong, which is what makes the whole pass
// idempotent. needed is consulted only to report a conservative-mode skip
// for behavior-changing actions.
type action struct {
	name         string
	fix          bool
	optimize     bool
	aggressiveIn map[Mode]bool
	needed       func(doc *document.Document, p Policy) bool
	apply        func(doc *document.Document, p Policy, m *mutation) error
}

func (a action) appliesTo(mode Mode) bool {
	switch mode {
	case ModeFix:
		return a.fix
	case ModeOptimize:
		return a.optimize
	default:
		return false
	}
}

// catalog returns the corrective actions in their declared, stable order.
func catalog() []action {
	return []action{
		{name: "app-label", fix: true, apply: applyAppLabel},
		{name: "recommended-labels", optimize: true, apply: applyRecommendedLabels},
		{name: "resource-requests", fix: true, optimize: true, apply: applyResourceRequests},
		{
			name: "resource-limits", fix: true, optimize: true,
			// Limits on a running workload can surface as throttling or OOM
			// kills, so optimize only adds them aggressively. Fix mode's
			// whole point is filling these gaps.
			aggressiveIn: map[Mode]bool{ModeOptimize: true},
			needed:       limitsNeeded,
			apply:        applyResourceLimits,
		},
		{name: "liveness-probe", fix: true, apply: applyLivenessProbe},
		{name: "readiness-probe", fix: true, apply: applyReadinessProbe},
		{name: "run-as-non-root", fix: true, optimize: true, apply: applyRunAsNonRoot},
		{
			name: "read-only-root-filesystem", fix: true, optimize: true,
			aggressiveIn: map[Mode]bool{ModeFix: true, ModeOptimize: true},
			needed:       readOnlyRootNeeded,
			apply:        applyReadOnlyRoot,
		},
		{name: "image-tag", fix: true, apply: applyImageTag},
		{name: "rolling-update-strategy", optimize: true, apply: applyRollingUpdate},
		{name: "replicas", fix: true, apply: applyReplicas},
		{
			name: "replicas-ha", optimize: true,
			aggressiveIn: map[Mode]bool{ModeOptimize: true},
			needed:       replicasNeeded,
			apply:        applyReplicasHA,
		},
		{name: "restart-policy", fix: true, apply: applyRestartPolicy},
		{name: "image-pull-policy", optimize: true, apply: applyImagePullPolicy},
		{name: "session-affinity", optimize: true, apply: applySessionAffinity},
		{
			name: "dns-policy", optimize: true,
			aggressiveIn: map[Mode]bool{ModeOptimize: true},
			needed:       dnsPolicyNeeded,
			apply:        applyDNSPolicy,
		},
	}
}

func applyAppLabel(doc *document.Document, _ Policy, m *mutation) error {
	path := document.FieldPath("metadata", "labels", "app")
	if m.has(path) {
		return nil
	}
	name := doc.Name()
	if name == "" {
		return &UnfixableError{Action: "app-label", Reason: "resource has no metadata.name to derive the app label from"}
	}
	return m.set(path, document.String(name), fmt.Sprintf("added app label %q from resource name", name))
}

func applyRecommendedLabels(doc *document.Document, _ Policy, m *mutation) error {
	path := document.FieldPath("metadata", "labels", "app.kubernetes.io/name")
	if m.has(path) {
		return nil
	}
	name := doc.Name()
	if name == "" {
		return &UnfixableError{Action: "recommended-labels", Reason: "resource has no metadata.name to derive labels from"}
	}
	return m.set(path, document.String(name), "added recommended app.kubernetes.io/name label")
}

func applyResourceRequests(doc *document.Document, p Policy, m *mutation) error {
	for _, c := range manifest.Containers(doc) {
		base := c.Path.ChildKey("resources").ChildKey("requests")
		name := c.Name()
		if err := m.setIfMissing(base.ChildKey("cpu"), document.String(p.Defaults.CPURequest),
			fmt.Sprintf("added CPU request %s for container %q", p.Defaults.CPURequest, name)); err != nil {
			return err
		}
		if err := m.setIfMissing(base.ChildKey("memory"), document.String(p.Defaults.MemoryRequest),
			fmt.Sprintf("added memory request %s for container %q", p.Defaults.MemoryRequest, name)); err != nil {
			return err
		}
	}
	return nil
}

func applyResourceLimits(doc *document.Document, p Policy, m *mutation) error {
	for _, c := range manifest.Containers(doc) {
		base := c.Path.ChildKey("resources").ChildKey("limits")
		name := c.Name()
		if err := m.setIfMissing(base.ChildKey("cpu"), document.String(p.Defaults.CPULimit),
			fmt.Sprintf("added CPU limit %s for container %q", p.Defaults.CPULimit, name)); err != nil {
			return err
		}
		if err := m.setIfMissing(base.ChildKey("memory"), document.String(p.Defaults.MemoryLimit),
			fmt.Sprintf("added memory limit %s for container %q", p.Defaults.MemoryLimit, name)); err != nil {
			return err
		}
	}
	return nil
}

func limitsNeeded(doc *document.Document, _ Policy) bool {
	for _, c := range manifest.Containers(doc) {
		limits := c.Path.ChildKey("resources").ChildKey("limits")
		if !doc.Root().Has(limits.ChildKey("cpu")...) || !doc.Root().Has(limits.ChildKey("memory")...) {
			return true
		}
	}
	return false
}

func applyLivenessProbe(doc *document.Document, p Policy, m *mutation) error {
	return applyProbe(doc, m, "livenessProbe", p.Defaults.ProbePath, p.Defaults.ProbePort,
		p.Defaults.LivenessDelay, p.Defaults.LivenessPeriod)
}

func applyReadinessProbe(doc *document.Document, p Policy, m *mutation) error {
	return applyProbe(doc, m, "readinessProbe", p.Defaults.ProbePath, p.Defaults.ProbePort,
		p.Defaults.ReadinessDelay, p.Defaults.ReadinessPeriod)
}

// applyProbe adds a default HTTP-GET probe against the container's first
// declared port, falling back to the configured default port.
func applyProbe(doc *document.Document, m *mutation, field, path string, defaultPort, delay, period int64) error {
	for _, c := range manifest.Containers(doc) {
		target := c.Path.ChildKey(field)
		if m.has(target) {
			continue
		}
		port := c.FirstPort()
		if port == 0 {
			port = defaultPort
		}
		probe := document.Mapping(
			document.Entry("httpGet", document.Mapping(
				document.Entry("path", document.String(path)),
				document.Entry("port", document.Int(port)),
			)),
			document.Entry("initialDelaySeconds", document.Int(delay)),
			document.Entry("periodSeconds", document.Int(period)),
		)
		desc := fmt.Sprintf("added default %s (HTTP GET %s:%d) for container %q", field, path, port, c.Name())
		if err := m.set(target, probe, desc); err != nil {
			return err
		}
	}
	return nil
}

func applyRunAsNonRoot(doc *document.Document, p Policy, m *mutation) error {
	for _, c := range manifest.Containers(doc) {
		sc := c.Path.ChildKey("securityContext")
		name := c.Name()

		runAsNonRoot := sc.ChildKey("runAsNonRoot")
		if cur, ok := m.root.Get(runAsNonRoot...); ok {
			// An explicit false is a declared choice; only aggressive mode
			// overrides it.
			if b, _ := cur.BoolValue(); !b {
				if p.Aggressive {
					if err := m.set(runAsNonRoot, document.Bool(true),
						fmt.Sprintf("forced runAsNonRoot to true for container %q", name)); err != nil {
						return err
					}
				} else {
					// One container's declared choice does not block the
					// others, and it still gets the remaining hardening.
					m.skip("run-as-non-root",
						fmt.Sprintf("container %q sets runAsNonRoot to false explicitly", name))
				}
			}
		} else if err := m.set(runAsNonRoot, document.Bool(true),
			fmt.Sprintf("set runAsNonRoot for container %q", name)); err != nil {
			return err
		}

		if err := m.setIfMissing(sc.ChildKey("allowPrivilegeEscalation"), document.Bool(false),
			fmt.Sprintf("disabled privilege escalation for container %q", name)); err != nil {
			return err
		}

		if p.Aggressive {
			if err := m.setIfMissing(sc.ChildKey("runAsUser"), document.Int(p.Defaults.RunAsUser),
				fmt.Sprintf("set runAsUser %d for container %q", p.Defaults.RunAsUser, name)); err != nil {
				return err
			}
			if err := m.setIfMissing(sc.ChildKey("capabilities"),
				document.Mapping(document.Entry("drop", document.Sequence(document.String("ALL")))),
				fmt.Sprintf("dropped all capabilities for container %q", name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyReadOnlyRoot(doc *document.Document, _ Policy, m *mutation) error {
	for _, c := range manifest.Containers(doc) {
		path := c.Path.ChildKey("securityContext").ChildKey("readOnlyRootFilesystem")
		if err := m.setIfMissing(path, document.Bool(true),
			fmt.Sprintf("set readOnlyRootFilesystem for container %q", c.Name())); err != nil {
			return err
		}
	}
	return nil
}

func readOnlyRootNeeded(doc *document.Document, _ Policy) bool {
	for _, c := range manifest.Containers(doc) {
		if !doc.Root().Has(c.Path.ChildKey("securityContext").ChildKey("readOnlyRootFilesystem")...) {
			return true
		}
	}
	return false
}

func applyImageTag(doc *document.Document, p Policy, m *mutation) error {
	for _, c := range manifest.Containers(doc) {
		image := c.Image()
		if image == "" || !manifest.UsesLatestTag(image) {
			continue
		}
		if p.Defaults.ImageTag == "" {
			return &UnfixableError{
				Action: "image-tag",
				Reason: fmt.Sprintf("container %q uses a floating tag and no pin tag is configured", c.Name()),
			}
		}
		pinned := pinImage(image, p.Defaults.ImageTag)
		if err := m.set(c.Path.ChildKey("image"), document.String(pinned),
			fmt.Sprintf("pinned image %q to %q", image, pinned)); err != nil {
			return err
		}
	}
	return nil
}

// pinImage replaces a trailing :latest, or appends the tag to an untagged
// reference.
func pinImage(image, tag string) string {
	if strings.HasSuffix(image, ":latest") {
		return strings.TrimSuffix(image, ":latest") + ":" + tag
	}
	return image + ":" + tag
}

func applyRollingUpdate(doc *document.Document, _ Policy, m *mutation) error {
	if doc.Kind() != "Deployment" {
		return nil
	}
	strategy := document.Mapping(
		document.Entry("type", document.String("RollingUpdate")),
		document.Entry("rollingUpdate", document.Mapping(
			document.Entry("maxUnavailable", document.String("25%")),
			document.Entry("maxSurge", document.String("25%")),
		)),
	)
	return m.setIfMissing(document.FieldPath("spec", "strategy"), strategy,
		"added RollingUpdate strategy (25% surge, 25% unavailable)")
}

func applyReplicas(doc *document.Document, p Policy, m *mutation) error {
	if !manifest.IsReplicated(doc.Kind()) {
		return nil
	}
	return m.setIfMissing(document.FieldPath("spec", "replicas"), document.Int(p.Defaults.Replicas),
		fmt.Sprintf("set replicas to %d", p.Defaults.Replicas))
}

func applyReplicasHA(doc *document.Document, p Policy, m *mutation) error {
	if !manifest.IsReplicated(doc.Kind()) {
		return nil
	}
	return m.setIfMissing(document.FieldPath("spec", "replicas"), document.Int(p.Defaults.AggressiveReplicas),
		fmt.Sprintf("set replicas to %d for high availability", p.Defaults.AggressiveReplicas))
}

func replicasNeeded(doc *document.Document, _ Policy) bool {
	return manifest.IsReplicated(doc.Kind()) && !doc.Root().Has(document.Key("spec"), document.Key("replicas"))
}

func applyRestartPolicy(doc *document.Document, _ Policy, m *mutation) error {
	if doc.Kind() != "Pod" {
		return nil
	}
	return m.setIfMissing(document.FieldPath("spec", "restartPolicy"), document.String("Always"),
		"set restartPolicy to Always")
}

func applyImagePullPolicy(doc *document.Document, _ Policy, m *mutation) error {
	for _, c := range manifest.Containers(doc) {
		path := c.Path.ChildKey("imagePullPolicy")
		if c.Node.StringAt(document.Key("imagePullPolicy")) != "Always" {
			continue
		}
		if err := m.set(path, document.String("IfNotPresent"),
			fmt.Sprintf("changed imagePullPolicy from Always to IfNotPresent for container %q", c.Name())); err != nil {
			return err
		}
	}
	return nil
}

func applySessionAffinity(doc *document.Document, _ Policy, m *mutation) error {
	if doc.Kind() != "Service" {
		return nil
	}
	return m.setIfMissing(document.FieldPath("spec", "sessionAffinity"), document.String("None"),
		"made sessionAffinity explicit (None)")
}

func applyDNSPolicy(doc *document.Document, _ Policy, m *mutation) error {
	if doc.Kind() != "Pod" {
		return nil
	}
	return m.setIfMissing(document.FieldPath("spec", "dnsPolicy"), document.String("ClusterFirst"),
		"set dnsPolicy to ClusterFirst")
}

func dnsPolicyNeeded(doc *document.Document, _ Policy) bool {
	return doc.Kind() == "Pod" && !doc.Root().Has(document.Key("spec"), document.Key("dnsPolicy"))
}
