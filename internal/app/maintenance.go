package app

import (
	"context"
	"encoding/json"
	"sync"

	"staysync/internal/adapters/observability"
	"staysync/internal/domain"
)

type MaintenanceState struct {
	On      bool   `json:"on"`
	Loading bool   `json:"loading"`
	Err     string `json:"error"`
}

// Maintenance mirrors the system-wide maintenance flag. Fail-open: any
// failure reports On=false with Err populated, so a transient config-service
// outage never locks users out.
type Maintenance struct {
	mu  sync.Mutex
	seq uint64
	st  MaintenanceState
	api domain.APIClient
}

func NewMaintenance(api domain.APIClient) *Maintenance {
	return &Maintenance{api: api}
}

func (m *Maintenance) Check(ctx context.Context) {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.st.Loading = true
	m.st.Err = ""
	m.mu.Unlock()

	env, err := m.api.Get(ctx, "/configurations/app_maintenance_mode", nil)

	on := false
	msg := ""
	switch {
	case err != nil:
		msg = "Failed to check maintenance mode"
	case !env.Success:
		msg = orMsg(env.Error, "Failed to check maintenance mode")
	default:
		var v struct {
			Value bool `json:"value"`
		}
		if jerr := json.Unmarshal(env.Data, &v); jerr != nil {
			msg = "Failed to check maintenance mode"
		} else {
			on = v.Value
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.seq {
		observability.ObserveStoreFetch("maintenance", "stale")
		return
	}
	m.st = MaintenanceState{On: on, Err: msg}
	if msg != "" {
		observability.ObserveStoreFetch("maintenance", "error")
	} else {
		observability.ObserveStoreFetch("maintenance", "ok")
	}
}

func (m *Maintenance) Refetch(ctx context.Context) { m.Check(ctx) }

func (m *Maintenance) State() MaintenanceState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st
}
