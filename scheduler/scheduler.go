package scheduler

import (
	"agent-staffing/errors"
	"agent-staffing/models"
	"fmt"
	"math"
	"sort"
)

// secondsPerHour converts call seconds into agent-hours.
const secondsPerHour = 3600.0

// ValidateUtilization reports whether utilization lies in (0, 1].
func ValidateUtilization(utilization float64) error {
	if !(utilization > 0 && utilization <= 1) {
		return fmt.Errorf("%w: got %v", errors.ErrInvalidUtilization, utilization)
	}
	return nil
}

// ComputeHourlyAgents calculates the number of agents needed per hour for each
// customer.
//
// Each demand's calls are spread evenly over its active hours. The agents for
// one hour are ceil(callsPerHour * avgDuration / 3600 / utilization); demands
// sharing a customer name add up in the same cell.
func ComputeHourlyAgents(demands []models.Demand, utilization float64) (models.StaffingGrid, error) {
	if err := ValidateUtilization(utilization); err != nil {
		return models.StaffingGrid{}, err
	}

	grid := models.NewStaffingGrid()
	for _, d := range demands {
		activeHours := d.ActiveHours()
		if activeHours <= 0 {
			continue
		}

		callsPerHour := float64(d.NumberOfCalls) / float64(activeHours)
		rawAgents := callsPerHour * d.AverageCallDurationSeconds / secondsPerHour
		effectiveAgents := rawAgents / utilization
		agents := int(math.Ceil(effectiveAgents))
		if agents <= 0 {
			continue
		}

		for h := d.StartHour; h < d.EndHour; h++ {
			grid.Add(h, d.Name, agents)
		}
	}

	return grid, nil
}

// GenerateSchedule computes the staffing grid and, when capacityPerHour is
// positive, trims it to that capacity by priority. A capacity of 0 means
// unlimited.
func GenerateSchedule(demands []models.Demand, utilization float64, capacityPerHour int) (*models.Schedule, error) {
	if capacityPerHour < 0 {
		return nil, fmt.Errorf("%w: got %d", errors.ErrInvalidCapacity, capacityPerHour)
	}

	grid, err := ComputeHourlyAgents(demands, utilization)
	if err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		Grid:         grid,
		UnmetDemands: make([]models.UnmetDemand, 0),
	}
	if capacityPerHour == 0 {
		return schedule, nil
	}

	priorities := customerPriorities(demands)
	for h := 0; h < models.HoursPerDay; h++ {
		allocated, unmet := allocateWithConstraints(grid[h], priorities, capacityPerHour)
		schedule.Grid[h] = allocated
		if unmet != nil {
			unmet.Hour = h
			schedule.UnmetDemands = append(schedule.UnmetDemands, *unmet)
		}
	}

	return schedule, nil
}

// customerPriorities maps each customer to the highest priority (lowest
// number) among its demands.
func customerPriorities(demands []models.Demand) map[string]int {
	priorities := make(map[string]int, len(demands))
	for _, d := range demands {
		if p, ok := priorities[d.Name]; !ok || d.Priority < p {
			priorities[d.Name] = d.Priority
		}
	}
	return priorities
}

type request struct {
	name     string
	agents   int
	priority int
}

// allocateWithConstraints performs priority-based allocation for one hour.
// The returned map never holds zero counts; unmet is nil when the hour fits.
func allocateWithConstraints(hour map[string]int, priorities map[string]int, capacity int) (map[string]int, *models.UnmetDemand) {
	allocated := make(map[string]int, len(hour))

	totalDemand := 0
	requests := make([]request, 0, len(hour))
	for name, agents := range hour {
		totalDemand += agents
		requests = append(requests, request{name: name, agents: agents, priority: priorities[name]})
	}

	// Fast path: if capacity exceeds demand, no allocation logic needed
	if capacity >= totalDemand {
		for name, agents := range hour {
			allocated[name] = agents
		}
		return allocated, nil
	}

	// Sort by priority (1 = highest), then name for a stable outcome
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].priority != requests[j].priority {
			return requests[i].priority < requests[j].priority
		}
		return requests[i].name < requests[j].name
	})

	impactedClients := make([]models.ImpactedClient, 0)
	remaining := capacity

	for _, req := range requests {
		granted := min(req.agents, remaining)
		if granted > 0 {
			allocated[req.name] = granted
			remaining -= granted
		}
		if granted < req.agents {
			impactedClients = append(impactedClients, models.ImpactedClient{
				Name:            req.name,
				RequestedAgents: req.agents,
				AllocatedAgents: granted,
				UnmetAgents:     req.agents - granted,
				Priority:        req.priority,
			})
		}
	}

	return allocated, &models.UnmetDemand{
		TotalDemand:     totalDemand,
		AllocatedAgents: capacity,
		UnmetAgents:     totalDemand - capacity,
		ImpactedClients: impactedClients,
	}
}
