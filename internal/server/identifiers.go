package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ssd-technologies/trivium/internal/frame"
	"github.com/ssd-technologies/trivium/internal/triv"
)

// generateRequest is the body of POST /api/identifiers.
type generateRequest struct {
	Text      string `json:"text"`
	NodeType  string `json:"node_type"`
	Domain    string `json:"domain"`
	ExecClass string `json:"exec_class"`
	Dual      bool   `json:"dual"`

	// Context frame fields. Timestamp defaults to now when zero.
	Timestamp  uint64  `json:"timestamp"`
	Env        string  `json:"env"`
	AgentID    uint16  `json:"agent_id"`
	DeltaAngle float32 `json:"delta_angle"`
	State      string  `json:"state"`
	Lineage    uint16  `json:"lineage"`
}

// identifierResponse describes one generated identifier.
type identifierResponse struct {
	Canonical string `json:"canonical"`
	Semantic  string `json:"semantic"`
	Context   string `json:"context"`
	Unique    string `json:"unique"`
	FlatHash  string `json:"flat_hash,omitempty"`
}

// handleGenerateIdentifier generates a trivariate identifier (and an
// operational secondary when dual is requested).
func (s *Server) handleGenerateIdentifier(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	ts := req.Timestamp
	if ts == 0 {
		ts = uint64(time.Now().Unix())
	}
	f := frame.New(ts, parseEnv(req.Env), req.AgentID, req.DeltaAngle, parseState(req.State), req.Lineage)

	domain := triv.ParseDomain(req.Domain)
	class := triv.ParseExecClass(req.ExecClass)

	dual := triv.GenerateDual(req.Text, req.NodeType, domain, class, f, req.Dual)

	resp := map[string]any{
		"primary": toIdentifierResponse(dual.Primary),
	}
	if dual.Secondary != nil {
		resp["secondary"] = toIdentifierResponse(*dual.Secondary)
	}
	writeJSON(w, http.StatusCreated, resp)
}

func toIdentifierResponse(id triv.Identifier) identifierResponse {
	out := identifierResponse{
		Canonical: id.Canonical(),
		Semantic:  id.Semantic,
		Context:   id.Context,
		Unique:    id.Unique,
	}
	if flat, err := id.FlatHash(); err == nil {
		out.FlatHash = flat
	}
	return out
}

// parseEnv maps an environment name to its variant, defaulting to
// datacenter.
func parseEnv(s string) frame.Environment {
	switch s {
	case "edge":
		return frame.EnvEdge
	case "cloud":
		return frame.EnvCloud
	case "cluster":
		return frame.EnvCluster
	case "mobile":
		return frame.EnvMobile
	case "embedded":
		return frame.EnvEmbedded
	case "local":
		return frame.EnvLocal
	default:
		return frame.EnvDatacenter
	}
}

// parseState maps a state name to its variant, defaulting to cold.
func parseState(s string) frame.State {
	switch s {
	case "warm":
		return frame.StateWarm
	case "hot":
		return frame.StateHot
	case "l2_resident":
		return frame.StateL2Resident
	default:
		return frame.StateCold
	}
}
