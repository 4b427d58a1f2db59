package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clinicshift/clinicshift/internal/config"
	"github.com/clinicshift/clinicshift/pkg/model"
)

func newTestHandler() *SimulationHandler {
	return NewSimulationHandler(nil, config.SimulatorConfig{DefaultDays: 7, MaxDays: 31, HistoryWindow: 90})
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func hasAssignment(ss *model.ShiftSchedule, name string) bool {
	if ss == nil {
		return false
	}
	for i := range ss.Assignments {
		if ss.Assignments[i].StaffName == name {
			return true
		}
	}
	return false
}

func TestSimulate_InlineTimeSlotPlacement(t *testing.T) {
	h := newTestHandler()
	// 预约带预处理班次字段 PM: 需求应落在下午, 不得回落到默认的上午
	body := `{
		"start_date": "2026-03-02",
		"days": 1,
		"staff": [
			{"name": "林护理师", "role": "nurse", "skill_level": "senior"},
			{"name": "行政", "role": "admin"}
		],
		"appointments": [
			{"date": "2026-03-02", "time_slot": "PM", "service_item": "点滴", "status": "completed"}
		],
		"services": [
			{"name": "点滴", "category": "drip", "duration": 60}
		]
	}`

	rec := postJSON(t, h.Simulate, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 响应 %s", rec.Code, rec.Body.String())
	}

	var resp SimulateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.SimulationID == "" {
		t.Error("simulation_id 不能为空")
	}
	if resp.Result == nil || len(resp.Result.Schedule) != 1 {
		t.Fatalf("排班结果 = %+v, 期望 1 天", resp.Result)
	}

	shifts := resp.Result.Schedule[0].Shifts
	if !hasAssignment(shifts[model.ShiftPM], "林护理师") {
		t.Error("下午预约应产生下午护理师排班")
	}
	if hasAssignment(shifts[model.ShiftAM], "林护理师") {
		t.Error("护理师不应被排入无需求的上午班")
	}
}

func TestSimulate_Validation(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "缺少开始日期",
			body: `{"days": 1, "staff": [{"name": "A", "role": "nurse"}]}`,
		},
		{
			name: "超过最大天数",
			body: `{"start_date": "2026-03-02", "days": 60, "staff": [{"name": "A", "role": "nurse"}]}`,
		},
		{
			name: "无数据库时必须内联员工",
			body: `{"start_date": "2026-03-02", "days": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.Simulate, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("状态码 = %d, 期望 400, 响应 %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSimulate_ResultRetrievable(t *testing.T) {
	h := newTestHandler()
	body := `{
		"start_date": "2026-03-02",
		"days": 1,
		"staff": [{"name": "行政", "role": "admin"}]
	}`

	rec := postJSON(t, h.Simulate, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 响应 %s", rec.Code, rec.Body.String())
	}
	var created SimulateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?simulation_id="+created.SimulationID, nil)
	getRec := httptest.NewRecorder()
	h.GetResult(getRec, req)

	if getRec.Code != http.StatusOK {
		t.Fatalf("查询状态码 = %d", getRec.Code)
	}
	var fetched SimulateResponse
	if err := json.Unmarshal(getRec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("解析查询响应失败: %v", err)
	}
	if fetched.SimulationID != created.SimulationID {
		t.Errorf("simulation_id = %s, 期望 %s", fetched.SimulationID, created.SimulationID)
	}

	// 未知 ID 返回 404
	req = httptest.NewRequest(http.MethodGet, "/?simulation_id=ghost", nil)
	getRec = httptest.NewRecorder()
	h.GetResult(getRec, req)
	if getRec.Code != http.StatusNotFound {
		t.Errorf("未知 ID 状态码 = %d, 期望 404", getRec.Code)
	}
}
