package streak

import "testing"

func TestRecordActivityIsIdempotent(t *testing.T) {
	h := RecordActivity(nil, "2026-03-01")
	if h["2026-03-01"] != 1 {
		t.Fatalf("count=%d, want 1", h["2026-03-01"])
	}
	h = RecordActivity(h, "2026-03-01")
	if h["2026-03-01"] != 1 {
		t.Fatalf("second call changed count to %d", h["2026-03-01"])
	}
	h["2026-03-01"] = 4
	h = RecordActivity(h, "2026-03-01")
	if h["2026-03-01"] != 4 {
		t.Fatalf("RecordActivity overwrote larger count: %d", h["2026-03-01"])
	}
}

func TestUpdateStreakNoActivityIsNoOp(t *testing.T) {
	before := Streak{CurrentStreak: 5, LongestStreak: 9, LastActiveDate: "2026-03-01", GraceTokens: 2}
	h := History{"2026-03-01": 3}

	after, outcome, err := UpdateStreak(h, before, "2026-03-02")
	if err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}
	if outcome != NoActivity {
		t.Fatalf("outcome=%q, want %q", outcome, NoActivity)
	}
	if after != before {
		t.Fatalf("streak changed on no-op: %+v -> %+v", before, after)
	}
}

func TestUpdateStreakConsecutiveDayIncrementsByOne(t *testing.T) {
	cases := []Streak{
		{CurrentStreak: 0, LongestStreak: 0},
		{CurrentStreak: 1, LongestStreak: 1, LastActiveDate: "2026-03-01"},
		{CurrentStreak: 41, LongestStreak: 100, LastActiveDate: "2026-03-01"},
	}
	h := History{"2026-03-01": 1, "2026-03-02": 2}
	for _, before := range cases {
		after, outcome, err := UpdateStreak(h, before, "2026-03-02")
		if err != nil {
			t.Fatalf("UpdateStreak: %v", err)
		}
		if outcome != Updated {
			t.Fatalf("outcome=%q, want updated", outcome)
		}
		if after.CurrentStreak != before.CurrentStreak+1 {
			t.Fatalf("current=%d, want %d", after.CurrentStreak, before.CurrentStreak+1)
		}
		if after.LongestStreak < before.LongestStreak {
			t.Fatalf("longest decreased: %d -> %d", before.LongestStreak, after.LongestStreak)
		}
	}
}

func TestUpdateStreakAfterGapResetsToOne(t *testing.T) {
	h := History{"2026-02-20": 1, "2026-03-02": 1}
	for _, prior := range []int{0, 1, 17, 364} {
		before := Streak{CurrentStreak: prior, LongestStreak: prior, LastActiveDate: "2026-02-20"}
		after, _, err := UpdateStreak(h, before, "2026-03-02")
		if err != nil {
			t.Fatalf("UpdateStreak: %v", err)
		}
		if after.CurrentStreak != 1 {
			t.Fatalf("prior=%d: current=%d, want 1", prior, after.CurrentStreak)
		}
		if after.LongestStreak != max(prior, 1) {
			t.Fatalf("prior=%d: longest=%d", prior, after.LongestStreak)
		}
	}
}

func TestUpdateStreakSameDayDoesNotDoubleIncrement(t *testing.T) {
	h := History{"2026-03-01": 1, "2026-03-02": 1}
	s, _, _ := UpdateStreak(h, Streak{CurrentStreak: 3, LongestStreak: 3, LastActiveDate: "2026-03-01"}, "2026-03-02")

	h["2026-03-02"] = 7
	again, outcome, err := UpdateStreak(h, s, "2026-03-02")
	if err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}
	if outcome != AlreadyCounted {
		t.Fatalf("outcome=%q, want already_counted", outcome)
	}
	if again.CurrentStreak != 4 {
		t.Fatalf("current=%d, want 4", again.CurrentStreak)
	}
}

func TestLongestStreakNeverDecreases(t *testing.T) {
	h := History{}
	s := Streak{}
	longest := 0
	dates := []string{
		"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-05",
		"2026-01-06", "2026-01-10", "2026-01-11", "2026-01-12", "2026-01-13",
	}
	for _, d := range dates {
		h = RecordActivity(h, d)
		var err error
		s, _, err = UpdateStreak(h, s, d)
		if err != nil {
			t.Fatalf("UpdateStreak(%s): %v", d, err)
		}
		if s.LongestStreak < longest {
			t.Fatalf("longest decreased at %s: %d -> %d", d, longest, s.LongestStreak)
		}
		longest = s.LongestStreak
	}
	if s.CurrentStreak != 4 || s.LongestStreak != 4 {
		t.Fatalf("final streak=%+v, want current=4 longest=4", s)
	}
}

func TestUpdateStreakAcrossMonthBoundary(t *testing.T) {
	h := History{"2026-02-28": 1, "2026-03-01": 1}
	s, _, err := UpdateStreak(h, Streak{CurrentStreak: 2, LongestStreak: 2, LastActiveDate: "2026-02-28"}, "2026-03-01")
	if err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}
	if s.CurrentStreak != 3 {
		t.Fatalf("current=%d, want 3", s.CurrentStreak)
	}
}

func TestBoost(t *testing.T) {
	s := Boost(Streak{CurrentStreak: 4, LongestStreak: 5}, 3)
	if s.CurrentStreak != 7 || s.LongestStreak != 7 {
		t.Fatalf("boosted=%+v, want 7/7", s)
	}
	s = Boost(Streak{CurrentStreak: 1, LongestStreak: 10}, 2)
	if s.CurrentStreak != 3 || s.LongestStreak != 10 {
		t.Fatalf("boosted=%+v, want 3/10", s)
	}
}

func TestLast30Days(t *testing.T) {
	h := History{"2026-03-30": 2, "2026-03-01": 1, "2026-02-28": 5}
	days, err := Last30Days(h, "2026-03-30")
	if err != nil {
		t.Fatalf("Last30Days: %v", err)
	}
	if len(days) != WindowDays {
		t.Fatalf("len=%d, want %d", len(days), WindowDays)
	}
	if days[0].Date != "2026-03-01" || !days[0].Completed || days[0].ChaptersRead != 1 {
		t.Fatalf("first day=%+v", days[0])
	}
	last := days[len(days)-1]
	if last.Date != "2026-03-30" || !last.Completed || last.ChaptersRead != 2 {
		t.Fatalf("last day=%+v", last)
	}
	completed := 0
	for _, d := range days {
		if d.Completed {
			completed++
		}
	}
	if completed != 2 {
		t.Fatalf("completed=%d, want 2 (2026-02-28 is outside the window)", completed)
	}
}
