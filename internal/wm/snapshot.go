package wm

// Snapshot is a point-in-time copy of manager state for read-only observers
// such as the status API. The event loop is the only writer.
type Snapshot struct {
	Workspaces []WorkspaceSnapshot `json:"workspaces"`
	Mode       string              `json:"mode"`
}

type WorkspaceSnapshot struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Active  bool     `json:"active"`
	Clients []uint32 `json:"clients"`
}

// Snapshot returns the last published state copy.
func (m *Manager) Snapshot() Snapshot {
	m.snapMu.Lock()
	defer m.snapMu.Unlock()
	return m.snap
}

func (m *Manager) updateSnapshot() {
	snap := Snapshot{
		Mode: m.workspace().Mode().Kind.String(),
	}

	for i, ws := range m.workspaces {
		wins := ws.Clients()
		clients := make([]uint32, len(wins))
		for j, w := range wins {
			clients[j] = uint32(w)
		}
		snap.Workspaces = append(snap.Workspaces, WorkspaceSnapshot{
			ID:      ws.ID.String(),
			Name:    ws.Name,
			Active:  i == m.active,
			Clients: clients,
		})
	}

	m.snapMu.Lock()
	m.snap = snap
	m.snapMu.Unlock()
}
