package handler

import (
	"net/http"

	"github.com/clinicshift/clinicshift/pkg/errors"
	"github.com/clinicshift/clinicshift/pkg/stats"
	"github.com/clinicshift/clinicshift/pkg/validator"
)

// StatsResponse 统计分析响应
type StatsResponse struct {
	SimulationID string                 `json:"simulation_id"`
	Fairness     *stats.FairnessMetrics `json:"fairness"`
	Coverage     *stats.CoverageMetrics `json:"coverage"`
	Conflicts    []validator.Conflict   `json:"conflicts,omitempty"`
}

// Stats 对已保留的模拟结果做公平性与覆盖率分析
func (h *SimulationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	id := r.URL.Query().Get("simulation_id")
	state, appErr := h.lookup(id)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	respondJSON(w, http.StatusOK, StatsResponse{
		SimulationID: id,
		Fairness:     stats.NewFairnessAnalyzer().Analyze(state.current, state.staff),
		Coverage:     stats.NewCoverageAnalyzer().Analyze(state.current),
		Conflicts:    validator.NewConflictDetector(nil).DetectAll(state.current, state.staff),
	})
}
