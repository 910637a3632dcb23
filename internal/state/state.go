package state

import (
	"fmt"
	"sync"
)

// Phase is an ordinal startup phase. Phases only advance.
type Phase int

const (
	Created Phase = iota
	ConfigLoaded
	WorkspaceResolved
	HandshakeValidated
	HandlersRegistered
	TransportBound
	Ready
)

var phaseNames = map[Phase]string{
	Created:            "created",
	ConfigLoaded:       "config_loaded",
	WorkspaceResolved:  "workspace_resolved",
	HandshakeValidated: "handshake_validated",
	HandlersRegistered: "handlers_registered",
	TransportBound:     "transport_bound",
	Ready:              "ready",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is the single process-lifetime record shared across components.
// It is constructed once in pkg/server and injected; writes go through the
// methods below and are serialized by one mutex.
type State struct {
	mu                 sync.RWMutex
	phase              Phase
	handshakeValidated bool
	workspacePaths     []string
	shuttingDown       bool
	orgContext         map[string]any
}

// Snapshot is a read-only copy of the state at one instant.
type Snapshot struct {
	Phase              Phase
	HandshakeValidated bool
	WorkspacePaths     []string
	ShuttingDown       bool
}

func New() *State {
	return &State{phase: Created}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Phase:              s.phase,
		HandshakeValidated: s.handshakeValidated,
		WorkspacePaths:     append([]string{}, s.workspacePaths...),
		ShuttingDown:       s.shuttingDown,
	}
}

func (s *State) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// MarkPhase advances the phase. Moving backwards or standing still is a
// programming error and is rejected.
func (s *State) MarkPhase(p Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p <= s.phase {
		return fmt.Errorf("phase %s does not advance current phase %s", p, s.phase)
	}
	s.phase = p
	return nil
}

// MarkHandshakeValidated records a successful handshake. Calling it again is
// a no-op; the flag never goes back to false.
func (s *State) MarkHandshakeValidated() {
	s.mu.Lock()
	s.handshakeValidated = true
	s.mu.Unlock()
}

func (s *State) HandshakeValidated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handshakeValidated
}

// SetWorkspacePaths records the resolved workspace roots. The list is set
// once during startup; reassignment is a programming error.
func (s *State) SetWorkspacePaths(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("workspace paths must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspacePaths != nil {
		return fmt.Errorf("workspace paths already set")
	}
	s.workspacePaths = append([]string{}, paths...)
	return nil
}

func (s *State) WorkspacePaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.workspacePaths...)
}

// PrimaryWorkspace returns the highest-priority workspace root, or "" when
// resolution has not happened yet.
func (s *State) PrimaryWorkspace() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.workspacePaths) == 0 {
		return ""
	}
	return s.workspacePaths[0]
}

func (s *State) BeginShutdown() {
	s.mu.Lock()
	s.shuttingDown = true
	s.mu.Unlock()
}

func (s *State) ShuttingDown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuttingDown
}

// SetOrgContext stores the opaque org context supplied by the platform
// collaborator. Callers exposing it externally must sanitize it first.
func (s *State) SetOrgContext(ctx map[string]any) {
	s.mu.Lock()
	s.orgContext = ctx
	s.mu.Unlock()
}

func (s *State) OrgContext() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orgContext
}
