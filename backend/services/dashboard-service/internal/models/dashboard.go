package models

// DashboardSnapshot is the consolidated latest view. Each stream is read independently, so the
// members may reflect slightly different instants.
type DashboardSnapshot struct {
	Traffic *TrafficLog `json:"traffic"`
	Energy  *EnergyLog  `json:"energy"`
	Waste   *WasteLog   `json:"waste"`
	Reports ReportStats `json:"reports"`
}
