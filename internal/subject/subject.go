// Package subject defines the hierarchical dot-delimited naming scheme for
// routing destinations and pub/sub topics, and classifies each subject by
// delivery-guarantee tier. Subjects use dotted notation so wildcard
// subscriptions ("task.execute.*") work naturally on the transport side.
//
// This package only produces and classifies subject names; publishing is
// the transport layer's concern.
package subject

import "strings"

// Tick and state-machine phase subjects. Low-latency, best-effort.
const (
	TickPulse     = "tick.pulse"
	TickSchedule  = "tick.schedule"
	PhasePerceive = "phase.perceive"
	PhaseEvaluate = "phase.evaluate"
	PhaseCommit   = "phase.commit"
	PhaseReflect  = "phase.reflect"
)

// Bus and field-state subjects. Low-latency fan-out between local
// components.
const (
	BusBroadcast  = "bus.broadcast"
	BusDirect     = "bus.direct"
	FieldStateSet = "field.state.set"
	FieldStateGet = "field.state.get"
)

// Storage and content subjects. Durable.
const (
	StorageContentPut  = "storage.content.put"
	StorageContentGet  = "storage.content.get"
	StorageIndexUpdate = "storage.index.update"
)

// Messaging subjects.
const (
	MessagingAgentInbox = "messaging.agent.inbox"
	MessagingAgentSend  = "messaging.agent.send"
)

// Health subjects. Heartbeats are best-effort; alerts are durable.
const (
	HealthHeartbeat = "health.heartbeat"
	HealthAlert     = "health.alert"
	HealthReport    = "health.report"
)

// Gateway subjects. Requests are durable; pushes are best-effort.
const (
	GatewayRequest  = "gateway.request"
	GatewayResponse = "gateway.response"
	GatewayPush     = "gateway.push"
)

// Telemetry subjects. Durable.
const (
	TelemetryMetrics = "telemetry.metrics"
	TelemetryEvents  = "telemetry.events"
)

// Task pipeline subjects. Durable.
const (
	TaskExecute  = "task.execute"
	TaskResult   = "task.result"
	TaskSchedule = "task.schedule"
)

// Intelligence subjects.
const (
	IntelQuery  = "intel.query"
	IntelAnswer = "intel.answer"
)

// External integration and infrastructure subjects. Durable.
const (
	ExternalWebhook = "external.webhook"
	ExternalSync    = "external.sync"
	InfraTrigger    = "infra.trigger"
	InfraDeploy     = "infra.deploy"
)

// TaskSubject names the execution subject for a specific task. The caller
// is responsible for keeping id free of '.' delimiters.
func TaskSubject(id string) string {
	return TaskExecute + "." + id
}

// AgentInbox names the inbox subject for a specific agent.
func AgentInbox(agentID string) string {
	return MessagingAgentInbox + "." + agentID
}

// HealthSubject names the health report subject for a specific route.
func HealthSubject(routeID string) string {
	return HealthReport + "." + routeID
}

// GatewaySubject names the gateway request subject for a specific
// endpoint.
func GatewaySubject(endpoint string) string {
	return GatewayRequest + "." + endpoint
}

// TelemetrySubject names the telemetry subject for a specific source.
func TelemetrySubject(source string) string {
	return TelemetryMetrics + "." + source
}

// durablePrefixes are the namespaces whose messages must survive transport
// restarts: task execution, content storage, infrastructure triggers,
// gateway requests, telemetry, and health alerts.
var durablePrefixes = []string{
	"task.",
	"storage.",
	"infra.",
	"gateway.request",
	"telemetry.",
	"health.alert",
	"external.",
}

// lowLatencyPrefixes are the namespaces served best-effort with minimal
// delivery latency.
var lowLatencyPrefixes = []string{
	"tick.",
	"phase.",
	"bus.",
	"field.state",
	"health.heartbeat",
}

// RequiresDurableDelivery reports whether the subject must be delivered on
// a durable channel. Prefix match over the fixed durable set.
func RequiresDurableDelivery(subj string) bool {
	return matchesAny(subj, durablePrefixes)
}

// IsLowLatency reports whether the subject belongs to the best-effort
// low-latency tier. Independent of RequiresDurableDelivery; the two sets
// are disjoint in practice but not enforced.
func IsLowLatency(subj string) bool {
	return matchesAny(subj, lowLatencyPrefixes)
}

func matchesAny(subj string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(subj, p) {
			return true
		}
	}
	return false
}
