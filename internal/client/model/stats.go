package model

// DeviceStats holds the dashboard's aggregate counts. Read-only, recomputed
// by the backend on every fetch.
type DeviceStats struct {
	TotalClients        int `json:"total_clients"`
	RegisteredClients   int `json:"registered_clients"`
	LockedClients       int `json:"locked_clients"`
	UnregisteredClients int `json:"unregistered_clients"`
}

// UnlockedClients is derived: the backend reports locked only.
func (s *DeviceStats) UnlockedClients() int {
	return s.TotalClients - s.LockedClients
}
