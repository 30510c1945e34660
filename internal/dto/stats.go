package dto

import (
	"github.com/kitir-joshi/task-manager-app/internal/repository"
	"github.com/kitir-joshi/task-manager-app/internal/services"
)

// OverviewStatsDTO represents global task statistics. Categories without
// tasks are absent from the maps.
type OverviewStatsDTO struct {
	StatusStats   map[string]int64 `json:"statusStats"`
	PriorityStats map[string]int64 `json:"priorityStats"`
	OverdueTasks  int64            `json:"overdueTasks"`
	TotalTasks    int64            `json:"totalTasks"`
}

// UserStatsDTO represents statistics scoped to a single user.
type UserStatsDTO struct {
	TotalTasks      int64            `json:"totalTasks"`
	CompletedTasks  int64            `json:"completedTasks"`
	OverdueTasks    int64            `json:"overdueTasks"`
	CompletionRate  float64          `json:"completionRate"`
	TasksByStatus   map[string]int64 `json:"tasksByStatus"`
	TasksByPriority map[string]int64 `json:"tasksByPriority"`
}

// ToOverviewStatsDTO converts repository counters to the overview response
func ToOverviewStatsDTO(stats repository.TaskStats) OverviewStatsDTO {
	return OverviewStatsDTO{
		StatusStats:   statusMap(stats),
		PriorityStats: priorityMap(stats),
		OverdueTasks:  stats.Overdue,
		TotalTasks:    stats.Total,
	}
}

// ToUserStatsDTO converts user-scoped counters to the stats response
func ToUserStatsDTO(stats services.UserStats) UserStatsDTO {
	return UserStatsDTO{
		TotalTasks:      stats.Total,
		CompletedTasks:  stats.Completed,
		OverdueTasks:    stats.Overdue,
		CompletionRate:  stats.CompletionRate,
		TasksByStatus:   statusMap(stats.TaskStats),
		TasksByPriority: priorityMap(stats.TaskStats),
	}
}

func statusMap(stats repository.TaskStats) map[string]int64 {
	out := make(map[string]int64, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		out[string(status)] = count
	}
	return out
}

func priorityMap(stats repository.TaskStats) map[string]int64 {
	out := make(map[string]int64, len(stats.ByPriority))
	for priority, count := range stats.ByPriority {
		out[string(priority)] = count
	}
	return out
}
