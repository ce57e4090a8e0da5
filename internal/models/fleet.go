package models

// FleetSize is the number of simulated systems behind the aggregate stream.
const FleetSize = 32

// FleetDistribution returns the static system-type breakdown shown on the
// dashboard's distribution chart.
func FleetDistribution() []SystemGroup {
	return []SystemGroup{
		{Name: "Production Servers", Count: 12},
		{Name: "Database Systems", Count: 8},
		{Name: "Network Equipment", Count: 7},
		{Name: "Storage Systems", Count: 5},
	}
}
