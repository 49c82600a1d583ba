package competition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"gainboard/internal/evaluation"
	"gainboard/internal/repository"
)

// Registry loads competition configuration from the store and caches the
// parsed form. Competitions are immutable after creation, so a cached entry
// never needs refreshing and can be handed to concurrent evaluations as-is.
type Registry struct {
	repo repository.CompetitionRepository

	mu     sync.RWMutex
	loaded map[uint]*evaluation.CompetitionData
}

func NewRegistry(repo repository.CompetitionRepository) *Registry {
	return &Registry{
		repo:   repo,
		loaded: make(map[uint]*evaluation.CompetitionData),
	}
}

// Get returns the parsed competition data, loading and caching it on first
// use.
func (r *Registry) Get(id uint) (*evaluation.CompetitionData, error) {
	r.mu.RLock()
	data, ok := r.loaded[id]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	comp, err := r.repo.GetCompetitionByID(id)
	if err != nil {
		return nil, fmt.Errorf("loading competition %d: %w", id, err)
	}

	if len(comp.MasterData) == 0 {
		return nil, &evaluation.ConfigurationError{Reason: "no master dataset loaded"}
	}
	master, err := evaluation.LoadMasterDataset(bytes.NewReader(comp.MasterData))
	if err != nil {
		return nil, &evaluation.ConfigurationError{Reason: err.Error()}
	}

	var gainMatrix evaluation.GainMatrix
	if err := json.Unmarshal([]byte(comp.GainMatrix), &gainMatrix); err != nil {
		return nil, &evaluation.ConfigurationError{Reason: "invalid gain matrix: " + err.Error()}
	}

	var thresholds []evaluation.GainThreshold
	if comp.Thresholds != "" {
		if err := json.Unmarshal([]byte(comp.Thresholds), &thresholds); err != nil {
			return nil, &evaluation.ConfigurationError{Reason: "invalid gain thresholds: " + err.Error()}
		}
	}

	data = &evaluation.CompetitionData{
		ID:              comp.ID,
		Name:            comp.Name,
		Deadline:        comp.Deadline,
		ResultsRevealAt: comp.ResultsRevealAt,
		DatasetVersion:  comp.DatasetVersion,
		Master:          master,
		GainMatrix:      gainMatrix,
		Thresholds:      thresholds,
	}

	r.mu.Lock()
	r.loaded[id] = data
	r.mu.Unlock()

	return data, nil
}
