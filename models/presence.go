package models

// PerformanceStats is the optional hardware snapshot shared alongside
// presence. All readings are optional; a presence update replaces the whole
// block rather than merging individual readings.
type PerformanceStats struct {
	CPUUsage    *float64 `json:"cpu_usage"`
	GPUUsage    *float64 `json:"gpu_usage"`
	FPS         *float64 `json:"fps"`
	MemoryUsage *float64 `json:"memory_usage"`
}

// Presence is one row per user with upsert semantics. Status is free-form
// (clients send online/away/in_game/offline); the nullable fields are fully
// replaced on every update, there is no deep merge.
type Presence struct {
	UserID      string   `gorm:"primaryKey;size:36" json:"user_id"`
	Status      string   `gorm:"size:32" json:"status"`
	CurrentGame *string  `gorm:"size:255" json:"current_game"`
	MoodMessage *string  `gorm:"size:255" json:"mood_message"`
	CPUUsage    *float64 `json:"cpu_usage"`
	GPUUsage    *float64 `json:"gpu_usage"`
	FPS         *float64 `json:"fps"`
	MemoryUsage *float64 `json:"memory_usage"`
	UpdatedAt   int64    `json:"last_updated"`
}

func (Presence) TableName() string {
	return "presences"
}

// Performance collects the flattened columns back into the wire shape, or
// nil when no reading is set.
func (p *Presence) Performance() *PerformanceStats {
	if p.CPUUsage == nil && p.GPUUsage == nil && p.FPS == nil && p.MemoryUsage == nil {
		return nil
	}
	return &PerformanceStats{
		CPUUsage:    p.CPUUsage,
		GPUUsage:    p.GPUUsage,
		FPS:         p.FPS,
		MemoryUsage: p.MemoryUsage,
	}
}

// PresenceSnapshot is the presence shape returned to the partner, with the
// owner's username joined in.
type PresenceSnapshot struct {
	UserID           string            `json:"user_id"`
	Username         string            `json:"username"`
	Status           string            `json:"status"`
	CurrentGame      *string           `json:"current_game"`
	MoodMessage      *string           `json:"mood_message"`
	PerformanceStats *PerformanceStats `json:"performance_stats"`
	LastUpdated      int64             `json:"last_updated"`
}
