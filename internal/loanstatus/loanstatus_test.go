package loanstatus

import (
	"testing"
	"time"

	"laptoploan/pkg/model"
)

var seoul = time.FixedZone("KST", 9*60*60)

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04", s, seoul)
	if err != nil {
		panic(err)
	}
	return t
}

func reservation(date string, slot model.TimeSlot, status model.ReservationStatus) *model.Reservation {
	return &model.Reservation{Date: date, TimeSlot: slot, Status: status}
}

// ────────────────────────────────────────────────
// DisplayStatus
// ────────────────────────────────────────────────

func TestDisplayStatus(t *testing.T) {
	tests := []struct {
		name string
		r    *model.Reservation
		now  time.Time
		want model.DisplayStatus
	}{
		{"morning today before nine", reservation("2024-05-01", model.Morning, model.StatusWaiting), at("2024-05-01T08:59"), model.DisplayWaiting},
		{"morning today at nine", reservation("2024-05-01", model.Morning, model.StatusWaiting), at("2024-05-01T09:00"), model.DisplayOnLoan},
		{"morning today late", reservation("2024-05-01", model.Morning, model.StatusApproved), at("2024-05-01T23:59"), model.DisplayOnLoan},
		{"afternoon today before one", reservation("2024-05-01", model.Afternoon, model.StatusApproved), at("2024-05-01T12:59"), model.DisplayWaiting},
		{"afternoon today at one", reservation("2024-05-01", model.Afternoon, model.StatusApproved), at("2024-05-01T13:00"), model.DisplayOnLoan},
		{"future date", reservation("2024-05-10", model.Morning, model.StatusApproved), at("2024-05-01T12:00"), model.DisplayWaiting},
		{"morning yesterday", reservation("2024-04-30", model.Morning, model.StatusApproved), at("2024-05-01T00:01"), model.DisplayReturnDue},
		{"afternoon yesterday before due", reservation("2024-04-30", model.Afternoon, model.StatusApproved), at("2024-05-01T00:00"), model.DisplayOnLoan},
		{"afternoon yesterday after due", reservation("2024-04-30", model.Afternoon, model.StatusApproved), at("2024-05-01T10:00"), model.DisplayReturnDue},
		{"afternoon two days ago", reservation("2024-04-29", model.Afternoon, model.StatusWaiting), at("2024-05-01T10:00"), model.DisplayReturnDue},
		{"returned in the past", reservation("2024-04-01", model.Morning, model.StatusReturned), at("2024-05-01T10:00"), model.DisplayReturned},
		{"returned in the future", reservation("2024-06-01", model.Afternoon, model.StatusReturned), at("2024-05-01T10:00"), model.DisplayReturned},
		{"rejected", reservation("2024-04-01", model.Morning, model.StatusRejected), at("2024-05-01T10:00"), model.DisplayRejected},
		{"malformed date", reservation("01/05/2024", model.Morning, model.StatusApproved), at("2024-05-01T10:00"), model.DisplayWaiting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayStatus(tt.r, tt.now)
			if got != tt.want {
				t.Errorf("DisplayStatus(%s %s, %s) = %s, want %s", tt.r.Date, tt.r.TimeSlot, tt.now.Format(time.RFC3339), got, tt.want)
			}
		})
	}
}

func TestDisplayStatus_Deterministic(t *testing.T) {
	r := reservation("2024-05-01", model.Afternoon, model.StatusApproved)
	now := at("2024-05-02T10:00")
	first := DisplayStatus(r, now)
	for i := 0; i < 100; i++ {
		if got := DisplayStatus(r, now); got != first {
			t.Fatalf("iteration %d: got %s, first call returned %s", i, got, first)
		}
	}
}

func TestDisplayStatus_ReturnedIgnoresClock(t *testing.T) {
	r := reservation("2024-05-01", model.Morning, model.StatusReturned)
	start := at("2024-04-01T00:00")
	for h := 0; h < 24*90; h += 7 {
		now := start.Add(time.Duration(h) * time.Hour)
		if got := DisplayStatus(r, now); got != model.DisplayReturned {
			t.Fatalf("at %s: got %s", now, got)
		}
	}
}

func TestDisplayStatus_HourThresholds(t *testing.T) {
	for _, slot := range []model.TimeSlot{model.Morning, model.Afternoon} {
		r := reservation("2024-05-01", slot, model.StatusApproved)
		threshold := pickupHour(slot)
		for h := 0; h < 24; h++ {
			now := time.Date(2024, 5, 1, h, 30, 0, 0, seoul)
			want := model.DisplayOnLoan
			if h < threshold {
				want = model.DisplayWaiting
			}
			if got := DisplayStatus(r, now); got != want {
				t.Errorf("%s at %02d:30: got %s, want %s", slot, h, got, want)
			}
		}
	}
}

// ────────────────────────────────────────────────
// OverdueDays
// ────────────────────────────────────────────────

func TestOverdueDays(t *testing.T) {
	tests := []struct {
		name string
		rs   []*model.Reservation
		now  time.Time
		want int
	}{
		{"empty", nil, at("2024-05-03T10:00"), 0},
		{"morning two days", []*model.Reservation{reservation("2024-05-01", model.Morning, model.StatusApproved)}, at("2024-05-03T10:00"), 2},
		{"afternoon due today", []*model.Reservation{reservation("2024-05-01", model.Afternoon, model.StatusApproved)}, at("2024-05-02T10:00"), 0},
		{"afternoon one day", []*model.Reservation{reservation("2024-05-01", model.Afternoon, model.StatusApproved)}, at("2024-05-03T00:00"), 1},
		{"today before pickup", []*model.Reservation{reservation("2024-05-03", model.Morning, model.StatusWaiting)}, at("2024-05-03T08:00"), 0},
		{"future", []*model.Reservation{reservation("2024-06-01", model.Morning, model.StatusWaiting)}, at("2024-05-03T08:00"), 0},
		{"returned never counts", []*model.Reservation{reservation("2024-01-01", model.Morning, model.StatusReturned)}, at("2024-05-03T10:00"), 0},
		{"rejected never counts", []*model.Reservation{reservation("2024-01-01", model.Morning, model.StatusRejected)}, at("2024-05-03T10:00"), 0},
		{"malformed never counts", []*model.Reservation{reservation("garbage", model.Morning, model.StatusApproved)}, at("2024-05-03T10:00"), 0},
		{
			"sum across history",
			[]*model.Reservation{
				reservation("2024-05-01", model.Morning, model.StatusApproved),   // 2
				reservation("2024-04-30", model.Afternoon, model.StatusWaiting),  // 2
				reservation("2024-04-20", model.Morning, model.StatusReturned),   // 0
				reservation("2024-05-03", model.Afternoon, model.StatusApproved), // 0
				nil,
			},
			at("2024-05-03T10:00"),
			4,
		},
		{"across month boundary", []*model.Reservation{reservation("2024-02-28", model.Morning, model.StatusApproved)}, at("2024-03-01T09:00"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverdueDays(tt.rs, tt.now); got != tt.want {
				t.Errorf("OverdueDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverdueDays_Monotonic(t *testing.T) {
	rs := []*model.Reservation{
		reservation("2024-05-01", model.Morning, model.StatusApproved),
		reservation("2024-05-02", model.Afternoon, model.StatusWaiting),
		reservation("2024-05-05", model.Morning, model.StatusApproved),
		reservation("2024-04-15", model.Afternoon, model.StatusReturned),
	}
	prev := 0
	start := at("2024-04-25T00:00")
	for h := 0; h < 24*30; h += 5 {
		now := start.Add(time.Duration(h) * time.Hour)
		got := OverdueDays(rs, now)
		if got < prev {
			t.Fatalf("overdue days decreased at %s: %d -> %d", now, prev, got)
		}
		prev = got
	}
}

func TestOverdueDays_DaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	r := reservation("2024-03-09", model.Morning, model.StatusApproved)
	now := time.Date(2024, 3, 11, 8, 0, 0, 0, ny)
	if got := ReservationOverdueDays(r, now); got != 2 {
		t.Errorf("expected 2 days across DST change, got %d", got)
	}
}

func TestDueDate(t *testing.T) {
	date := at("2024-12-31T15:00")
	if got := DueDate(date, model.Morning); !got.Equal(at("2024-12-31T00:00")) {
		t.Errorf("morning due = %s", got)
	}
	if got := DueDate(date, model.Afternoon); !got.Equal(at("2025-01-01T00:00")) {
		t.Errorf("afternoon due = %s", got)
	}
}

func TestViews(t *testing.T) {
	rs := []*model.Reservation{
		reservation("2024-05-01", model.Morning, model.StatusApproved),
		reservation("2024-05-03", model.Afternoon, model.StatusWaiting),
	}
	views, total := Views(rs, at("2024-05-03T14:00"))
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if views[0].DisplayStatus != model.DisplayReturnDue || views[0].OverdueDays != 2 {
		t.Errorf("unexpected first view: %+v", views[0])
	}
	if views[1].DisplayStatus != model.DisplayOnLoan || views[1].OverdueDays != 0 {
		t.Errorf("unexpected second view: %+v", views[1])
	}
}
