// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicshift/clinicshift/internal/config"
	"github.com/clinicshift/clinicshift/internal/metrics"
	"github.com/clinicshift/clinicshift/internal/repository"
	"github.com/clinicshift/clinicshift/pkg/errors"
	"github.com/clinicshift/clinicshift/pkg/model"
	"github.com/clinicshift/clinicshift/pkg/simulator"
	"github.com/clinicshift/clinicshift/pkg/validator"
)

// SimulationHandler 模拟处理器
//
// 模拟结果保留在内存中, 以 simulation_id 索引; 情景操作（替补推荐、
// 套用、撤销）都针对某个已保留的结果进行。套用走写时复制, 旧结果
// 挂在 previous 上, 支持单步撤销
type SimulationHandler struct {
	store *repository.Store // 可为 nil: 此时请求必须内联数据
	cfg   config.SimulatorConfig

	mu      sync.RWMutex
	results map[string]*simulationState
}

// simulationState 一次模拟的当前/上一个结果与其引擎
type simulationState struct {
	engine   *simulator.Engine
	staff    []model.StaffMember
	current  *model.SimulationResult
	previous *model.SimulationResult
}

// NewSimulationHandler 创建模拟处理器
func NewSimulationHandler(store *repository.Store, cfg config.SimulatorConfig) *SimulationHandler {
	return &SimulationHandler{
		store:   store,
		cfg:     cfg,
		results: make(map[string]*simulationState),
	}
}

// SimulateRequest 模拟请求
type SimulateRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	Days      int    `json:"days"`

	// 规则开关（缺省时按默认配置启用）
	UseAffinity      *bool `json:"use_affinity,omitempty"`
	UseMonopoly      *bool `json:"use_monopoly,omitempty"`
	UseWorkloadLimit *bool `json:"use_workload_limit,omitempty"`

	AffinityWeight       float64 `json:"affinity_weight,omitempty"`
	MonopolyThreshold    float64 `json:"monopoly_threshold,omitempty"`
	MaxConsecutiveShifts int     `json:"max_consecutive_shifts,omitempty"`

	BaselineEnabled *bool          `json:"baseline_enabled,omitempty"`
	BaselineCounts  map[string]int `json:"baseline_counts,omitempty"`

	// 内联数据（缺省时从数据库载入）
	Staff        []StaffInput       `json:"staff,omitempty"`
	Appointments []AppointmentInput `json:"appointments,omitempty"`
	Services     []ServiceInput     `json:"services,omitempty"`
	WorkHistory  []WorkRecordInput  `json:"work_history,omitempty"`
}

// StaffInput 员工输入
type StaffInput struct {
	Name            string `json:"name"`
	Role            string `json:"role"`
	SkillLevel      string `json:"skill_level,omitempty"`
	Status          string `json:"status,omitempty"`
	MaxHoursPerWeek int    `json:"max_hours_per_week,omitempty"`
}

// AppointmentInput 预约输入
type AppointmentInput struct {
	Date          string `json:"date"`
	Time          string `json:"time,omitempty"`
	DatetimeStart string `json:"datetime_start,omitempty"`
	TimeSlot      string `json:"time_slot,omitempty"`
	ServiceItem   string `json:"service_item"`
	Status        string `json:"status,omitempty"`
}

// ServiceInput 疗程输入
type ServiceInput struct {
	Name       string `json:"name"`
	Category   string `json:"category,omitempty"`
	Duration   int    `json:"duration"`
	BufferTime int    `json:"buffer_time,omitempty"`
}

// WorkRecordInput 过往排班记录输入（协作历史来源）
type WorkRecordInput struct {
	Date      string `json:"date"`
	Shift     string `json:"shift"`
	StaffName string `json:"staff_name"`
}

// SimulateResponse 模拟响应
type SimulateResponse struct {
	SimulationID string                  `json:"simulation_id"`
	Result       *model.SimulationResult `json:"result"`
	Duration     string                  `json:"duration"`
}

// Simulate 执行一次排班模拟
func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if req.Days == 0 {
		req.Days = h.cfg.DefaultDays
	}
	if err := h.validateSimulateRequest(&req); err != nil {
		respondError(w, err)
		return
	}

	// 组装引擎输入: 内联数据优先, 否则从数据库载入
	staff, appointments, services, pairs, appErr := h.loadInputs(r, &req)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	cfg := h.buildConfig(&req)

	start := time.Now()
	engine := simulator.NewEngine(staff, appointments, services, pairs)
	result, err := engine.Run(cfg)
	duration := time.Since(start)
	metrics.RecordSimulation(err == nil, duration)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeValidationFail, "模拟配置无效"))
		return
	}

	metrics.SetCoverageRate(float64(result.Metrics.Coverage))
	metrics.SetOverworkedCount(result.Metrics.OverworkedCount)

	id := uuid.New().String()
	h.mu.Lock()
	h.results[id] = &simulationState{engine: engine, staff: staff, current: result}
	metrics.SetActiveSimulations(len(h.results))
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, SimulateResponse{
		SimulationID: id,
		Result:       result,
		Duration:     duration.String(),
	})
}

// SubstitutesRequest 替补推荐请求
type SubstitutesRequest struct {
	SimulationID string `json:"simulation_id"`
	Date         string `json:"date"`
	Shift        string `json:"shift"`
	StaffName    string `json:"staff_name"`
	TopN         int    `json:"top_n,omitempty"`
}

// SubstitutesResponse 替补推荐响应
type SubstitutesResponse struct {
	Candidates []model.StaffAssignment `json:"candidates"`
}

// Substitutes 推荐请假情景的替补人选
func (h *SimulationHandler) Substitutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req SubstitutesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	state, appErr := h.lookup(req.SimulationID)
	if appErr != nil {
		metrics.RecordScenarioQuery("substitutes", false)
		respondError(w, appErr)
		return
	}

	candidates := state.engine.RecommendSubstitutes(
		state.current, req.Date, model.ShiftType(req.Shift), req.StaffName, req.TopN,
	)
	metrics.RecordScenarioQuery("substitutes", true)

	respondJSON(w, http.StatusOK, SubstitutesResponse{Candidates: candidates})
}

// ApplyRequest 套用替补请求
type ApplyRequest struct {
	SimulationID string `json:"simulation_id"`
	Date         string `json:"date"`
	Shift        string `json:"shift"`
	StaffName    string `json:"staff_name"` // 请假者
	Substitute   string `json:"substitute"` // 替补者
	Role         string `json:"role,omitempty"`
}

// ApplyResponse 套用替补响应
//
// 人工替补可能引入引擎自身不会产生的冲突, 检测结果随响应一并返回
type ApplyResponse struct {
	SimulationID string                  `json:"simulation_id"`
	Result       *model.SimulationResult `json:"result"`
	Conflicts    []validator.Conflict    `json:"conflicts,omitempty"`
}

// Apply 套用一次替补（旧结果保留, 可单步撤销）
func (h *SimulationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	state, appErr := h.lookup(req.SimulationID)
	if appErr != nil {
		metrics.RecordScenarioQuery("apply", false)
		respondError(w, appErr)
		return
	}

	substitute := model.StaffAssignment{
		Role:      model.Role(req.Role),
		StaffName: req.Substitute,
	}

	next, err := state.engine.ApplySubstitution(
		state.current, req.Date, model.ShiftType(req.Shift), req.StaffName, substitute,
	)
	if err != nil {
		metrics.RecordScenarioQuery("apply", false)
		respondAnyError(w, err)
		return
	}

	h.mu.Lock()
	state.previous = state.current
	state.current = next
	h.mu.Unlock()

	metrics.RecordScenarioQuery("apply", true)
	metrics.SetOverworkedCount(next.Metrics.OverworkedCount)

	conflicts := validator.NewConflictDetector(nil).DetectAll(next, state.staff)

	respondJSON(w, http.StatusOK, ApplyResponse{
		SimulationID: req.SimulationID,
		Result:       next,
		Conflicts:    conflicts,
	})
}

// UndoRequest 撤销请求
type UndoRequest struct {
	SimulationID string `json:"simulation_id"`
}

// Undo 撤销最近一次套用, 回到上一个结果
func (h *SimulationHandler) Undo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req UndoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	state, appErr := h.lookup(req.SimulationID)
	if appErr != nil {
		metrics.RecordScenarioQuery("undo", false)
		respondError(w, appErr)
		return
	}

	h.mu.Lock()
	if state.previous == nil {
		h.mu.Unlock()
		metrics.RecordScenarioQuery("undo", false)
		respondError(w, errors.New(errors.CodeInvalidInput, "没有可撤销的替补操作"))
		return
	}
	state.current = state.previous
	state.previous = nil
	current := state.current
	h.mu.Unlock()

	metrics.RecordScenarioQuery("undo", true)
	metrics.SetOverworkedCount(current.Metrics.OverworkedCount)

	respondJSON(w, http.StatusOK, SimulateResponse{
		SimulationID: req.SimulationID,
		Result:       current,
	})
}

// GetResult 按ID查询已保留的模拟结果
func (h *SimulationHandler) GetResult(w http.ResponseWriter, r *http.Request) {
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

	respondJSON(w, http.StatusOK, SimulateResponse{
		SimulationID: id,
		Result:       state.current,
	})
}

// lookup 按ID查找模拟状态
func (h *SimulationHandler) lookup(id string) (*simulationState, *errors.AppError) {
	if id == "" {
		return nil, errors.New(errors.CodeInvalidInput, "simulation_id 不能为空")
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	state, ok := h.results[id]
	if !ok {
		return nil, errors.NotFound("模拟结果", id)
	}
	return state, nil
}

// loadInputs 组装引擎输入
func (h *SimulationHandler) loadInputs(r *http.Request, req *SimulateRequest) (
	[]model.StaffMember, []model.AppointmentRecord, []model.Service, *model.PairHistory, *errors.AppError,
) {
	ctx := r.Context()

	var staff []model.StaffMember
	if len(req.Staff) > 0 {
		staff = make([]model.StaffMember, 0, len(req.Staff))
		for _, s := range req.Staff {
			status := s.Status
			if status == "" {
				status = "active"
			}
			staff = append(staff, model.StaffMember{
				Name:            s.Name,
				Role:            model.Role(s.Role),
				SkillLevel:      model.SkillLevel(s.SkillLevel),
				Status:          status,
				MaxHoursPerWeek: s.MaxHoursPerWeek,
			})
		}
	} else if h.store != nil {
		loaded, err := h.store.Staff.ListAll(ctx)
		if err != nil {
			return nil, nil, nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "载入花名册失败")
		}
		staff = loaded
	} else {
		return nil, nil, nil, nil, errors.New(errors.CodeInvalidInput, "员工列表不能为空")
	}

	var appointments []model.AppointmentRecord
	if len(req.Appointments) > 0 {
		appointments = make([]model.AppointmentRecord, 0, len(req.Appointments))
		for _, a := range req.Appointments {
			appointments = append(appointments, model.AppointmentRecord{
				Date:          a.Date,
				Time:          a.Time,
				DatetimeStart: a.DatetimeStart,
				TimeSlot:      a.TimeSlot,
				ServiceItem:   a.ServiceItem,
				Status:        model.AppointmentStatus(a.Status),
			})
		}
	} else if h.store != nil {
		loaded, err := h.store.Appointments.ListRecent(ctx, h.cfg.HistoryWindow)
		if err != nil {
			return nil, nil, nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "载入预约历史失败")
		}
		appointments = loaded
	}

	var services []model.Service
	if len(req.Services) > 0 {
		services = make([]model.Service, 0, len(req.Services))
		for _, s := range req.Services {
			services = append(services, model.Service{
				Name:       s.Name,
				Category:   model.ServiceCategory(s.Category),
				Duration:   s.Duration,
				BufferTime: s.BufferTime,
			})
		}
	} else if h.store != nil {
		loaded, err := h.store.Services.ListAll(ctx)
		if err != nil {
			return nil, nil, nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "载入疗程目录失败")
		}
		services = loaded
	}

	var pairs *model.PairHistory
	if len(req.WorkHistory) > 0 {
		records := make([]model.StaffAssignment, 0, len(req.WorkHistory))
		for _, wr := range req.WorkHistory {
			records = append(records, model.StaffAssignment{
				Date:      wr.Date,
				Shift:     model.ShiftType(wr.Shift),
				StaffName: wr.StaffName,
			})
		}
		pairs = model.BuildPairHistory(records)
	} else if h.store != nil {
		loaded, err := h.store.PairHistory.LoadRecent(ctx, h.cfg.HistoryWindow)
		if err != nil {
			return nil, nil, nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "载入协作历史失败")
		}
		pairs = loaded
	}

	return staff, appointments, services, pairs, nil
}

// buildConfig 把请求转换为模拟配置
func (h *SimulationHandler) buildConfig(req *SimulateRequest) model.SimulationConfig {
	cfg := model.DefaultSimulationConfig(req.StartDate, req.Days)

	if req.UseAffinity != nil {
		cfg.UseAffinity = *req.UseAffinity
	}
	if req.UseMonopoly != nil {
		cfg.UseMonopoly = *req.UseMonopoly
	}
	if req.UseWorkloadLimit != nil {
		cfg.UseWorkloadLimit = *req.UseWorkloadLimit
	}
	if req.AffinityWeight > 0 {
		cfg.AffinityWeight = req.AffinityWeight
	}
	if req.MonopolyThreshold > 0 {
		cfg.MonopolyThreshold = req.MonopolyThreshold
	}
	if req.MaxConsecutiveShifts > 0 {
		cfg.MaxConsecutiveShifts = req.MaxConsecutiveShifts
	}
	if req.BaselineEnabled != nil {
		cfg.BaselineEnabled = *req.BaselineEnabled
	}
	if len(req.BaselineCounts) > 0 {
		cfg.BaselineEnabled = true
		cfg.BaselineCounts = make(map[model.Role]int, len(req.BaselineCounts))
		for role, n := range req.BaselineCounts {
			cfg.BaselineCounts[model.Role(role)] = n
		}
	}

	return cfg
}

// validateSimulateRequest 验证模拟请求
func (h *SimulationHandler) validateSimulateRequest(req *SimulateRequest) *errors.AppError {
	ve := &errors.ValidationErrors{}

	if req.StartDate == "" {
		ve.Add("start_date", "开始日期不能为空")
	} else if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		ve.Add("start_date", "日期格式无效，应为YYYY-MM-DD")
	}
	if req.Days < 1 {
		ve.Add("days", "天数必须 >= 1")
	}
	if h.cfg.MaxDays > 0 && req.Days > h.cfg.MaxDays {
		ve.Add("days", "超过单次模拟允许的最大天数")
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}

// respondAnyError 返回任意错误（非 AppError 按内部错误处理）
func respondAnyError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		respondError(w, appErr)
		return
	}
	respondError(w, errors.Wrap(err, errors.CodeInternal, "内部错误"))
}
