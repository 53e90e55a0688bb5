package models

import "sort"

// HoursPerDay is the number of hour buckets in a staffing grid.
const HoursPerDay = 24

// Demand is one validated input row: a customer's call volume spread over a
// window of whole hours [StartHour, EndHour) within a single day.
type Demand struct {
	Name                       string
	AverageCallDurationSeconds float64
	StartHour                  int
	EndHour                    int
	NumberOfCalls              int
	// Priority is 1 (highest) to 5. Only capacity allocation looks at it.
	Priority int
}

// ActiveHours returns the number of hours the demand spans.
func (d Demand) ActiveHours() int {
	return d.EndHour - d.StartHour
}

// StaffingGrid holds agents needed per customer for every hour of the day.
// Each hour's map only contains customers with a positive agent count.
type StaffingGrid [HoursPerDay]map[string]int

// NewStaffingGrid returns a grid with an empty map for every hour.
func NewStaffingGrid() StaffingGrid {
	var g StaffingGrid
	for h := 0; h < HoursPerDay; h++ {
		g[h] = make(map[string]int)
	}
	return g
}

// Add sums agents into the (hour, name) cell. Non-positive counts are ignored.
func (g *StaffingGrid) Add(hour int, name string, agents int) {
	if agents <= 0 {
		return
	}
	if g[hour] == nil {
		g[hour] = make(map[string]int)
	}
	g[hour][name] += agents
}

// Total returns the sum of agents across customers for the hour.
func (g StaffingGrid) Total(hour int) int {
	total := 0
	for _, agents := range g[hour] {
		total += agents
	}
	return total
}

// Customers returns the customer names staffed in the hour, sorted.
func (g StaffingGrid) Customers(hour int) []string {
	names := make([]string, 0, len(g[hour]))
	for name := range g[hour] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schedule is the result of a planning run: the staffing grid plus any hours
// where a capacity limit left demand unmet.
type Schedule struct {
	Grid StaffingGrid
	// UnmetDemands is ordered by hour and empty when no capacity was applied.
	UnmetDemands []UnmetDemand
}

// UnmetDemand tracks when demand cannot be met due to capacity constraints
type UnmetDemand struct {
	Hour            int              `json:"hour"`
	TotalDemand     int              `json:"total_demand"`
	AllocatedAgents int              `json:"allocated_agents"`
	UnmetAgents     int              `json:"unmet_agents"`
	ImpactedClients []ImpactedClient `json:"impacted_clients"`
}

// ImpactedClient represents a customer whose demand was not fully met
type ImpactedClient struct {
	Name            string `json:"name"`
	RequestedAgents int    `json:"requested_agents"`
	AllocatedAgents int    `json:"allocated_agents"`
	UnmetAgents     int    `json:"unmet_agents"`
	Priority        int    `json:"priority"`
}
