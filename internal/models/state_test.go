package models

import (
	"encoding/json"
	"testing"
)

func TestNextStatus_CycleWrapsAround(t *testing.T) {
	s := StatusNotStarted
	for i := 0; i < len(StatusCycle); i++ {
		s = NextStatus(s)
	}
	if s != StatusNotStarted {
		t.Errorf("full cycle should return to not_started, got %s", s)
	}
}

func TestCycleIndex_UnknownValueIsZero(t *testing.T) {
	if got := CycleIndex(SyllabusStatus("bogus")); got != 0 {
		t.Errorf("unknown status index = %d, want 0", got)
	}
}

func TestEmpty(t *testing.T) {
	if !Default().Empty() {
		t.Errorf("default document should be empty")
	}

	s := Default()
	s.Theme = "light"
	s.DailyGoalHours = 4
	if !s.Empty() {
		t.Errorf("preferences alone do not make a document non-empty")
	}

	s.Tasks = []Task{{ID: "t"}}
	if s.Empty() {
		t.Errorf("a task makes the document non-empty")
	}
}

func TestProgressFor(t *testing.T) {
	s := AppState{Progress: []ChapterProgress{
		{ClassID: 11, Subject: SubjectPhysics, Chapter: "Gravitation", Status: StatusCompleted},
	}}

	if _, ok := s.ProgressFor(ProgressKey{ClassID: 11, Subject: SubjectPhysics, Chapter: "Gravitation"}); !ok {
		t.Errorf("expected to find the entry")
	}
	if _, ok := s.ProgressFor(ProgressKey{ClassID: 12, Subject: SubjectPhysics, Chapter: "Gravitation"}); ok {
		t.Errorf("class is part of the identity")
	}
}

func TestAppState_JSONFieldNames(t *testing.T) {
	s := Default()
	s.Timer = TimerState{IsRunning: true, StartTime: 1700000000000, AccumulatedMs: 5000, Subject: SubjectPhysics, IsLockInActive: true}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"currentClass", "logs", "progress", "lastUsedTab", "timer", "isLockInModeEnabled", "allowList", "tasks", "dailyGoalHours"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("missing field %q in document", field)
		}
	}

	timer, ok := raw["timer"].(map[string]any)
	if !ok {
		t.Fatalf("timer should be an object")
	}
	for _, field := range []string{"isRunning", "startTime", "accumulatedMs", "isLockInActive"} {
		if _, ok := timer[field]; !ok {
			t.Errorf("missing timer field %q", field)
		}
	}
}
