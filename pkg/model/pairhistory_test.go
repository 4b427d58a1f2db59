package model

import "testing"

func TestPairKey(t *testing.T) {
	if PairKey("王医师", "林护理师") != PairKey("林护理师", "王医师") {
		t.Error("键应与姓名顺序无关")
	}
	if PairKey("A", "B") != "A|B" {
		t.Errorf("PairKey = %s, 期望 A|B", PairKey("A", "B"))
	}
}

func TestPairHistory_Count(t *testing.T) {
	p := NewPairHistory()
	p.Add("A", "B", 3)
	p.Add("B", "A", 2)

	if p.Count("A", "B") != 5 {
		t.Errorf("Count = %d, 期望对称累加后为 5", p.Count("A", "B"))
	}
	if p.Count("A", "C") != 0 {
		t.Errorf("无记录的组合应为 0, 实际 %d", p.Count("A", "C"))
	}

	// 自身配对无意义
	p.Add("A", "A", 10)
	if p.Count("A", "A") != 0 {
		t.Error("不应记录自身配对")
	}
}

func TestPairHistory_TotalFor(t *testing.T) {
	p := NewPairHistory()
	p.Add("A", "B", 3)
	p.Add("A", "C", 2)
	p.Add("B", "C", 7)

	if p.TotalFor("A") != 5 {
		t.Errorf("TotalFor(A) = %d, 期望 5", p.TotalFor("A"))
	}
	if p.TotalFor("D") != 0 {
		t.Errorf("TotalFor(D) = %d, 期望 0", p.TotalFor("D"))
	}
}

func TestPairHistory_NilSafe(t *testing.T) {
	var p *PairHistory
	if p.Count("A", "B") != 0 || p.TotalFor("A") != 0 || p.Len() != 0 {
		t.Error("nil 历史的查询应返回 0")
	}
}

func TestBuildPairHistory(t *testing.T) {
	assignments := []StaffAssignment{
		{Date: "2026-03-02", Shift: ShiftAM, StaffName: "A"},
		{Date: "2026-03-02", Shift: ShiftAM, StaffName: "B"},
		{Date: "2026-03-02", Shift: ShiftAM, StaffName: "C"},
		{Date: "2026-03-02", Shift: ShiftPM, StaffName: "A"},
		{Date: "2026-03-02", Shift: ShiftPM, StaffName: "B"},
		{Date: "2026-03-03", Shift: ShiftAM, StaffName: "A"},
	}

	p := BuildPairHistory(assignments)

	// AM 班 A-B/A-C/B-C 各 1 次, PM 班 A-B 再 1 次
	if p.Count("A", "B") != 2 {
		t.Errorf("A-B = %d, 期望 2", p.Count("A", "B"))
	}
	if p.Count("A", "C") != 1 {
		t.Errorf("A-C = %d, 期望 1", p.Count("A", "C"))
	}
	if p.Count("B", "C") != 1 {
		t.Errorf("B-C = %d, 期望 1", p.Count("B", "C"))
	}
	// 单人班次不产生配对
	if p.Len() != 3 {
		t.Errorf("姓名对数量 = %d, 期望 3", p.Len())
	}
}
