package rotation

import (
	"testing"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

func TestNewEngine_OffsetSpread(t *testing.T) {
	tests := []struct {
		name          string
		cycleLength   int
		employeeCount int
		expected      []int
	}{
		{"两人八天周期", 8, 2, []int{0, 4}},
		{"四人八天周期", 8, 4, []int{0, 2, 4, 6}},
		{"三人七天周期", 7, 3, []int{0, 2, 4}},
		{"人多于周期", 4, 6, []int{0, 0, 1, 2, 2, 3}},
		{"单人", 5, 1, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cycle := make([]int, tt.cycleLength)
			for i := range cycle {
				cycle[i] = 1
			}
			eng := NewEngine(&model.RotationPattern{Code: "test", Cycle: cycle}, tt.employeeCount)

			offsets := eng.Offsets()
			if len(offsets) != len(tt.expected) {
				t.Fatalf("偏移表长度 = %d, expected %d", len(offsets), len(tt.expected))
			}
			for i, want := range tt.expected {
				if offsets[i] != want {
					t.Errorf("offset(%d) = %d, expected %d", i, offsets[i], want)
				}
			}
		})
	}
}

func TestEngine_FourOnFourOff(t *testing.T) {
	// 四班四休，两名员工应错开半个周期形成互补覆盖
	pattern := &model.RotationPattern{
		Code:  "4on4off",
		Cycle: []int{1, 1, 1, 1, 0, 0, 0, 0},
	}
	eng := NewEngine(pattern, 2)

	if got := eng.Offsets(); got[0] != 0 || got[1] != 4 {
		t.Fatalf("偏移 = %v, expected [0 4]", got)
	}

	for d := 0; d < 8; d++ {
		on0 := eng.IsOnCycle(0, d)
		on1 := eng.IsOnCycle(1, d)

		expected0 := d < 4
		if on0 != expected0 {
			t.Errorf("员工0第%d天在岗 = %v, expected %v", d, on0, expected0)
		}
		if on1 == on0 {
			t.Errorf("第%d天两名员工不应同时在岗或同时轮休", d)
		}
	}

	// 周期回绕
	if !eng.IsOnCycle(0, 8) || !eng.IsOnCycle(1, 12) {
		t.Error("周期应按模回绕")
	}
}

func TestEngine_NoPattern(t *testing.T) {
	eng := NewEngine(nil, 3)

	for e := 0; e < 3; e++ {
		for d := 0; d < 30; d++ {
			if !eng.IsOnCycle(e, d) {
				t.Fatalf("无模式时员工%d第%d天应在岗", e, d)
			}
		}
	}
}

func TestEngine_FiveOnTwoOff(t *testing.T) {
	pattern := &model.RotationPattern{
		Code:  "5on2off",
		Cycle: []int{1, 1, 1, 1, 1, 0, 0},
	}
	eng := NewEngine(pattern, 1)

	onDays := 0
	for d := 0; d < 7; d++ {
		if eng.IsOnCycle(0, d) {
			onDays++
		}
	}
	if onDays != 5 {
		t.Errorf("一个周期在岗天数 = %d, expected 5", onDays)
	}
}
