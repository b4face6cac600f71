package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository provides data access methods over a DB connection.
type Repository struct {
	db *DB
}

// NewRepository wraps db in a Repository.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateRun inserts a new run record.
func (r *Repository) CreateRun(run *Run) error {
	return r.db.Create(run).Error
}

// GetRun retrieves a run by ID.
func (r *Repository) GetRun(id string) (*Run, error) {
	var run Run
	if err := r.db.First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns lists all runs, most recent first.
func (r *Repository) ListRuns() ([]Run, error) {
	var runs []Run
	err := r.db.Order("created_at DESC").Find(&runs).Error
	return runs, err
}

// FinishRun marks a run completed or failed.
func (r *Repository) FinishRun(id, status, errMsg string) error {
	now := time.Now()
	return r.db.Model(&Run{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"end_time":  now,
			"status":    status,
			"error_msg": errMsg,
		}).Error
}

// SaveEliteSolution inserts one ranked elite-set entry.
func (r *Repository) SaveEliteSolution(sol *EliteSolution) error {
	return r.db.Create(sol).Error
}

// GetEliteSolutions retrieves a run's elite set ordered by rank.
func (r *Repository) GetEliteSolutions(runID string) ([]EliteSolution, error) {
	var sols []EliteSolution
	err := r.db.Where("run_id = ?", runID).Order("rank ASC").Find(&sols).Error
	return sols, err
}

// GetEliteSolutionByRank retrieves one ranked solution.
func (r *Repository) GetEliteSolutionByRank(runID string, rank int) (*EliteSolution, error) {
	var sol EliteSolution
	err := r.db.Where("run_id = ? AND rank = ?", runID, rank).First(&sol).Error
	if err != nil {
		return nil, fmt.Errorf("store: no solution at rank %d for run %s: %w", rank, runID, err)
	}
	return &sol, nil
}

// SaveTrialLog records one trial outcome.
func (r *Repository) SaveTrialLog(t *TrialLog) error {
	return r.db.Create(t).Error
}

// GetTrialLogs retrieves a run's trial log, optionally filtered by phase.
func (r *Repository) GetTrialLogs(runID, phase string) ([]TrialLog, error) {
	var logs []TrialLog
	query := r.db.Where("run_id = ?", runID)
	if phase != "" {
		query = query.Where("phase = ?", phase)
	}
	err := query.Order("timestamp ASC").Find(&logs).Error
	return logs, err
}

// DeleteRun removes a run and all its associated records.
func (r *Repository) DeleteRun(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", id).Delete(&EliteSolution{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&TrialLog{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Run{}).Error
	})
}
