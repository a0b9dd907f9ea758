package models

// GameStat is the externally-computed aggregate for one (user, game) pair.
// Pure upsert: the latest upload wins, there is no pull history here.
type GameStat struct {
	UserID        string  `gorm:"primaryKey;size:36" json:"user_id"`
	Game          string  `gorm:"primaryKey;size:64" json:"game"`
	TotalPulls    int64   `json:"total_pulls"`
	FiveStarCount int64   `json:"five_star_count"`
	FourStarCount int64   `json:"four_star_count"`
	AveragePity   float64 `json:"average_pity"`
	CurrentPity   int64   `json:"current_pity"`
	UpdatedAt     int64   `json:"updated_at"`
}

func (GameStat) TableName() string {
	return "game_stats"
}

// GameStatWithUser is the partner-comparison read shape.
type GameStatWithUser struct {
	UserID        string  `json:"user_id"`
	Username      string  `json:"username"`
	Game          string  `json:"game"`
	TotalPulls    int64   `json:"total_pulls"`
	FiveStarCount int64   `json:"five_star_count"`
	FourStarCount int64   `json:"four_star_count"`
	AveragePity   float64 `json:"average_pity"`
	CurrentPity   int64   `json:"current_pity"`
	UpdatedAt     int64   `json:"updated_at"`
}
