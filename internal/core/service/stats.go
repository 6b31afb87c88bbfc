package service

import (
	"fmt"

	"github.com/crmdesk/crm-system/internal/core/ports"
)

// denseMonthlySeries turns sparse (month → count) pairs into a fixed
// 12-entry series for the given year, strictly ordered January..December,
// with zero counts for months absent from the raw result. Month keys
// outside 1..12 are ignored.
func denseMonthlySeries(year int, raw map[int]int64) []ports.MonthlyCount {
	series := make([]ports.MonthlyCount, 12)
	for month := 1; month <= 12; month++ {
		series[month-1] = ports.MonthlyCount{
			Month: fmt.Sprintf("%04d-%02d", year, month),
		}
	}
	for month, count := range raw {
		if month < 1 || month > 12 {
			continue
		}
		series[month-1].Count = count
	}
	return series
}
