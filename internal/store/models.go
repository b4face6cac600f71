// Package store persists placement run history to SQLite via gorm, the
// way the teacher's internal/database package persists simulation runs.
package store

import "time"

// Run represents one invocation of the search driver against a given
// configuration.
type Run struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	ConfigPath  string     `json:"config_path"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Status      string     `json:"status"` // running, completed, failed, infeasible
	ErrorMsg    string     `json:"error_msg"`
	Reproducible bool      `json:"reproducible"`
	Seed        int64      `json:"seed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EliteSolution is one ranked entry of a run's elite set, persisted so a
// finished run's top-K solutions can be retrieved without rerunning search.
type EliteSolution struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RunID     string    `json:"run_id" gorm:"index"`
	Rank      int       `json:"rank"`
	Cost      float64   `json:"cost"`
	Feasible  bool      `json:"feasible"`
	SolutionJSON string `json:"solution_json"` // the ioconfig.SolutionJSON document, serialized
	CreatedAt time.Time `json:"created_at"`
}

// TrialLog records one Random Greedy or Local Search trial's outcome, for
// post-hoc inspection of why a run converged the way it did.
type TrialLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RunID     string    `json:"run_id" gorm:"index"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	Phase     string    `json:"phase"` // random_greedy, local_search
	State     string    `json:"state"`
	Cost      float64   `json:"cost"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
