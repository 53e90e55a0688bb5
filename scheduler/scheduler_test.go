package scheduler_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	customerrors "agent-staffing/errors"
	"agent-staffing/models"
	"agent-staffing/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHourlyAgents(t *testing.T) {
	tests := map[string]struct {
		input       []models.Demand
		utilization float64
		expected    map[int]map[string]int // hour -> customer -> agents
	}{
		"SingleCallSingleHour": {
			input: []models.Demand{
				{Name: "Cust1", AverageCallDurationSeconds: 3600, StartHour: 10, EndHour: 11, NumberOfCalls: 1, Priority: 1},
			},
			utilization: 1.0,
			// 1 call * 3600s / 3600 = 1 agent at hour 10 only.
			expected: map[int]map[string]int{
				10: {"Cust1": 1},
			},
		},
		"FractionalAgentsRoundUp": {
			input: []models.Demand{
				{Name: "Cust1", AverageCallDurationSeconds: 600, StartHour: 9, EndHour: 12, NumberOfCalls: 6, Priority: 1},
			},
			utilization: 1.0,
			// 2 calls/hr * 600s / 3600 = 1/3 agent -> ceil = 1.
			expected: map[int]map[string]int{
				9:  {"Cust1": 1},
				10: {"Cust1": 1},
				11: {"Cust1": 1},
			},
		},
		"SpreadOverWindow": {
			input: []models.Demand{
				{Name: "Cust1", AverageCallDurationSeconds: 3600, StartHour: 10, EndHour: 12, NumberOfCalls: 10, Priority: 1},
			},
			utilization: 1.0,
			// Duration = 2 hours. Calls/hr = 5. Agents = 5.
			expected: map[int]map[string]int{
				10: {"Cust1": 5},
				11: {"Cust1": 5},
			},
		},
		"UtilizationInflates": {
			input: []models.Demand{
				{Name: "Cust1", AverageCallDurationSeconds: 3600, StartHour: 10, EndHour: 11, NumberOfCalls: 10, Priority: 1},
			},
			utilization: 0.8,
			// 10 / 0.8 = 12.5 -> 13.
			expected: map[int]map[string]int{
				10: {"Cust1": 13},
			},
		},
		"UtilizationAppliedBeforeRounding": {
			input: []models.Demand{
				{Name: "Cust1", AverageCallDurationSeconds: 600, StartHour: 0, EndHour: 1, NumberOfCalls: 5, Priority: 1},
			},
			utilization: 0.5,
			// raw = 5*600/3600 = 0.8333; /0.5 = 1.6667 -> 2.
			expected: map[int]map[string]int{
				0: {"Cust1": 2},
			},
		},
		"UtilizationOnRawNotRoundedAgents": {
			input: []models.Demand{
				{Name: "Cust1", AverageCallDurationSeconds: 360, StartHour: 0, EndHour: 1, NumberOfCalls: 1, Priority: 1},
			},
			utilization: 0.5,
			// raw = 0.1; /0.5 = 0.2 -> 1. Rounding first would give ceil(1/0.5) = 2.
			expected: map[int]map[string]int{
				0: {"Cust1": 1},
			},
		},
		"ZeroCallsOmitted": {
			input: []models.Demand{
				{Name: "Quiet", AverageCallDurationSeconds: 300, StartHour: 0, EndHour: 24, NumberOfCalls: 0, Priority: 1},
			},
			utilization: 1.0,
			expected:    map[int]map[string]int{},
		},
		"DuplicateNamesSum": {
			input: []models.Demand{
				{Name: "Dup", AverageCallDurationSeconds: 3600, StartHour: 9, EndHour: 11, NumberOfCalls: 4, Priority: 1},
				{Name: "Dup", AverageCallDurationSeconds: 3600, StartHour: 10, EndHour: 12, NumberOfCalls: 6, Priority: 3},
			},
			utilization: 1.0,
			// First: 2/hr at 9,10. Second: 3/hr at 10,11. Hour 10 sums to 5.
			expected: map[int]map[string]int{
				9:  {"Dup": 2},
				10: {"Dup": 5},
				11: {"Dup": 3},
			},
		},
		"MultipleCustomers": {
			input: []models.Demand{
				{Name: "VNS", AverageCallDurationSeconds: 120, StartHour: 6, EndHour: 13, NumberOfCalls: 40500, Priority: 1},
				{Name: "CVS", AverageCallDurationSeconds: 180, StartHour: 11, EndHour: 15, NumberOfCalls: 50000, Priority: 3},
			},
			utilization: 1.0,
			// VNS: 40500/7 calls/hr * 120 / 3600 = 192.857 -> 193.
			// CVS: 12500 calls/hr * 180 / 3600 = 625.
			expected: map[int]map[string]int{
				6:  {"VNS": 193},
				7:  {"VNS": 193},
				8:  {"VNS": 193},
				9:  {"VNS": 193},
				10: {"VNS": 193},
				11: {"VNS": 193, "CVS": 625},
				12: {"VNS": 193, "CVS": 625},
				13: {"CVS": 625},
				14: {"CVS": 625},
			},
		},
		"FullDay": {
			input: []models.Demand{
				{Name: "AllDay", AverageCallDurationSeconds: 3600, StartHour: 0, EndHour: 24, NumberOfCalls: 24, Priority: 1},
			},
			utilization: 1.0,
			expected: func() map[int]map[string]int {
				m := make(map[int]map[string]int)
				for h := 0; h < models.HoursPerDay; h++ {
					m[h] = map[string]int{"AllDay": 1}
				}
				return m
			}(),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			grid, err := scheduler.ComputeHourlyAgents(tt.input, tt.utilization)
			require.NoError(t, err)

			for h := 0; h < models.HoursPerDay; h++ {
				require.NotNil(t, grid[h], fmt.Sprintf("Hour %d map must exist", h))
				if expected, ok := tt.expected[h]; ok {
					assert.Equal(t, expected, grid[h], fmt.Sprintf("Hour %d agents mismatch", h))
				} else {
					assert.Empty(t, grid[h], fmt.Sprintf("Hour %d should be empty", h))
				}
			}
		})
	}
}

func TestComputeHourlyAgents_InvalidUtilization(t *testing.T) {
	demands := []models.Demand{
		{Name: "Cust1", AverageCallDurationSeconds: 3600, StartHour: 10, EndHour: 11, NumberOfCalls: 1, Priority: 1},
	}

	for _, u := range []float64{0, -0.5, 1.0001, 2, math.NaN(), math.Inf(1)} {
		t.Run(fmt.Sprintf("u=%v", u), func(t *testing.T) {
			_, err := scheduler.ComputeHourlyAgents(demands, u)
			require.Error(t, err)
			assert.True(t, errors.Is(err, customerrors.ErrInvalidUtilization))
		})
	}
}

func TestComputeHourlyAgents_UtilizationMonotonic(t *testing.T) {
	demands := []models.Demand{
		{Name: "A", AverageCallDurationSeconds: 3600, StartHour: 8, EndHour: 9, NumberOfCalls: 1, Priority: 1},
		{Name: "B", AverageCallDurationSeconds: 245, StartHour: 6, EndHour: 20, NumberOfCalls: 1234, Priority: 2},
		{Name: "C", AverageCallDurationSeconds: 30, StartHour: 0, EndHour: 24, NumberOfCalls: 7, Priority: 5},
	}

	full, err := scheduler.ComputeHourlyAgents(demands, 1.0)
	require.NoError(t, err)
	derated, err := scheduler.ComputeHourlyAgents(demands, 0.8)
	require.NoError(t, err)

	// raw_agents = 1.0 -> 1 agent at u=1.0 and 2 at u=0.8.
	assert.Equal(t, 1, full[8]["A"])
	assert.Equal(t, 2, derated[8]["A"])

	for h := 0; h < models.HoursPerDay; h++ {
		for name, agents := range full[h] {
			assert.GreaterOrEqual(t, derated[h][name], agents, "hour %d customer %s", h, name)
		}
	}
}

func TestComputeHourlyAgents_Deterministic(t *testing.T) {
	demands := []models.Demand{
		{Name: "X", AverageCallDurationSeconds: 200, StartHour: 3, EndHour: 9, NumberOfCalls: 999, Priority: 2},
		{Name: "Y", AverageCallDurationSeconds: 75.5, StartHour: 5, EndHour: 6, NumberOfCalls: 17, Priority: 1},
	}
	reversed := []models.Demand{demands[1], demands[0]}

	first, err := scheduler.ComputeHourlyAgents(demands, 0.85)
	require.NoError(t, err)
	second, err := scheduler.ComputeHourlyAgents(reversed, 0.85)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateSchedule_NoCapacity(t *testing.T) {
	demands := []models.Demand{
		{Name: "Cust1", AverageCallDurationSeconds: 3600, StartHour: 10, EndHour: 11, NumberOfCalls: 10, Priority: 1},
	}

	sched, err := scheduler.GenerateSchedule(demands, 1.0, 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Cust1": 10}, sched.Grid[10])
	assert.Empty(t, sched.UnmetDemands)
}

func TestGenerateSchedule_PriorityAndCapacity(t *testing.T) {
	input := []models.Demand{
		{
			Name:                       "HighPriority",
			AverageCallDurationSeconds: 3600, // 1 hour
			StartHour:                  10,
			EndHour:                    11,
			NumberOfCalls:              10, // Needs 10 agents
			Priority:                   1,  // High priority
		},
		{
			Name:                       "LowPriority",
			AverageCallDurationSeconds: 3600, // 1 hour
			StartHour:                  10,
			EndHour:                    12,
			NumberOfCalls:              20, // Needs 10 agents per hour
			Priority:                   2,  // Low priority
		},
	}

	// Capacity 15. Hour 10 demand 20, hour 11 demand 10.
	// HighPriority should get 10, LowPriority the remaining 5.
	sched, err := scheduler.GenerateSchedule(input, 1.0, 15)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"HighPriority": 10, "LowPriority": 5}, sched.Grid[10])
	assert.Equal(t, map[string]int{"LowPriority": 10}, sched.Grid[11])

	require.Len(t, sched.UnmetDemands, 1)
	unmet := sched.UnmetDemands[0]
	assert.Equal(t, 10, unmet.Hour)
	assert.Equal(t, 20, unmet.TotalDemand, "Total demand mismatch")
	assert.Equal(t, 15, unmet.AllocatedAgents, "Allocated agents mismatch")
	assert.Equal(t, 5, unmet.UnmetAgents, "Unmet agents mismatch")
	assert.Equal(t, []models.ImpactedClient{
		{Name: "LowPriority", RequestedAgents: 10, AllocatedAgents: 5, UnmetAgents: 5, Priority: 2},
	}, unmet.ImpactedClients)
}

func TestGenerateSchedule_ZeroAllocationDropsCustomer(t *testing.T) {
	input := []models.Demand{
		{Name: "A", AverageCallDurationSeconds: 3600, StartHour: 0, EndHour: 1, NumberOfCalls: 4, Priority: 1},
		{Name: "B", AverageCallDurationSeconds: 3600, StartHour: 0, EndHour: 1, NumberOfCalls: 3, Priority: 3},
		// Same customer with a better priority on another row wins the tie-break.
		{Name: "C", AverageCallDurationSeconds: 3600, StartHour: 5, EndHour: 6, NumberOfCalls: 1, Priority: 4},
		{Name: "C", AverageCallDurationSeconds: 3600, StartHour: 0, EndHour: 1, NumberOfCalls: 2, Priority: 2},
	}

	sched, err := scheduler.GenerateSchedule(input, 1.0, 5)
	require.NoError(t, err)

	// Order: A(1)=4, C(2)=1 of 2, B(3)=0 of 3.
	assert.Equal(t, map[string]int{"A": 4, "C": 1}, sched.Grid[0])
	_, present := sched.Grid[0]["B"]
	assert.False(t, present, "zero allocations must not be stored")

	require.Len(t, sched.UnmetDemands, 1)
	assert.Equal(t, 9, sched.UnmetDemands[0].TotalDemand)
	assert.Equal(t, 4, sched.UnmetDemands[0].UnmetAgents)
	assert.Equal(t, []models.ImpactedClient{
		{Name: "C", RequestedAgents: 2, AllocatedAgents: 1, UnmetAgents: 1, Priority: 2},
		{Name: "B", RequestedAgents: 3, AllocatedAgents: 0, UnmetAgents: 3, Priority: 3},
	}, sched.UnmetDemands[0].ImpactedClients)
}

func TestGenerateSchedule_Errors(t *testing.T) {
	demands := []models.Demand{
		{Name: "Cust1", AverageCallDurationSeconds: 3600, StartHour: 10, EndHour: 11, NumberOfCalls: 1, Priority: 1},
	}

	_, err := scheduler.GenerateSchedule(demands, 1.0, -1)
	assert.True(t, errors.Is(err, customerrors.ErrInvalidCapacity))

	_, err = scheduler.GenerateSchedule(demands, 0, 0)
	assert.True(t, errors.Is(err, customerrors.ErrInvalidUtilization))
}
