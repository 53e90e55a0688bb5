package formatter

import (
	"agent-staffing/models"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// HourlyData is the per-hour view shared by all formatters.
type HourlyData struct {
	Hour        string              `json:"hour"`
	Total       int                 `json:"total"`
	Customers   map[string]int      `json:"customers"`
	UnmetDemand *models.UnmetDemand `json:"unmet_demand,omitempty"`

	names []string
}

// prepareScheduleData extracts and organizes schedule data for formatting
func prepareScheduleData(schedule *models.Schedule) []HourlyData {
	unmetByHour := make(map[int]*models.UnmetDemand, len(schedule.UnmetDemands))
	for i := range schedule.UnmetDemands {
		unmetByHour[schedule.UnmetDemands[i].Hour] = &schedule.UnmetDemands[i]
	}

	hours := make([]HourlyData, models.HoursPerDay)
	for h := 0; h < models.HoursPerDay; h++ {
		customers := make(map[string]int, len(schedule.Grid[h]))
		for name, agents := range schedule.Grid[h] {
			customers[name] = agents
		}
		hours[h] = HourlyData{
			Hour:        hourLabel(h),
			Total:       schedule.Grid.Total(h),
			Customers:   customers,
			UnmetDemand: unmetByHour[h],
			names:       schedule.Grid.Customers(h),
		}
	}
	return hours
}

// FormatText returns one line per hour, e.g. "06:00 : total=193 ; VNS=193".
func FormatText(schedule *models.Schedule) string {
	hours := prepareScheduleData(schedule)
	lines := make([]string, 0, len(hours))

	for _, hourData := range hours {
		lines = append(lines, formatTextLine(hourData))

		// Add unmet demand warning if exists
		if unmet := hourData.UnmetDemand; unmet != nil {
			lines = append(lines,
				fmt.Sprintf("  ⚠️  CAPACITY WARNING: Demand=%d, Allocated=%d, Unmet=%d",
					unmet.TotalDemand, unmet.AllocatedAgents, unmet.UnmetAgents),
				"  Impacted clients:")
			for _, client := range unmet.ImpactedClients {
				lines = append(lines, fmt.Sprintf("    • %s [Priority %d]: Requested=%d, Allocated=%d, Unmet=%d",
					client.Name, client.Priority, client.RequestedAgents,
					client.AllocatedAgents, client.UnmetAgents))
			}
		}
	}

	return strings.Join(lines, "\n")
}

// FormatJSON returns an indented JSON array of 24 {hour, total, customers}
// objects. Customer keys are emitted in sorted order.
func FormatJSON(schedule *models.Schedule) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(prepareScheduleData(schedule))
	return strings.TrimRight(buf.String(), "\n")
}

// FormatCSV returns the long-form CSV: one row per customer per hour, or a
// single zero row for an hour without demand.
func FormatCSV(schedule *models.Schedule) string {
	hours := prepareScheduleData(schedule)
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{"hour", "total", "customer", "agents"})
	for _, hourData := range hours {
		total := strconv.Itoa(hourData.Total)
		if len(hourData.names) == 0 {
			writer.Write([]string{hourData.Hour, total, "", "0"})
			continue
		}
		for _, name := range hourData.names {
			writer.Write([]string{hourData.Hour, total, name, strconv.Itoa(hourData.Customers[name])})
		}
	}

	writer.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

// formatTextLine formats a single hour line for text output
func formatTextLine(data HourlyData) string {
	if data.Total == 0 {
		return fmt.Sprintf("%s : total=0 ; none", data.Hour)
	}

	parts := make([]string, 0, len(data.names))
	for _, name := range data.names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, data.Customers[name]))
	}
	return fmt.Sprintf("%s : total=%d ; %s", data.Hour, data.Total, strings.Join(parts, ", "))
}

func hourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
