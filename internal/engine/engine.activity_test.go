package engine

import (
	"context"
	"testing"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/models"
)

func TestDailyActivityAggregation(t *testing.T) {
	pings := &fakePingRepo{}
	snapshots := &fakeSnapshotRepo{}
	eng := newTestEngine(t, pings, snapshots, newFakeScreenshotStore())
	ctx := context.Background()

	day := ts(t, "2026-08-10T00:00:00Z")
	pings.pings = append(pings.pings,
		newPing("w1", day.Add(9*time.Hour)),
		newPing("w1", day.Add(9*time.Hour+10*time.Minute)),
	)

	s1 := newSnapshot("w1", day.Add(9*time.Hour+5*time.Minute))
	s1.Activity = []byte(`{"active_minutes":25,"idle_minutes":5,"app_usage":{"mail":30}}`)
	s1.ScreenshotPath = "w1/w1_20260810_090500.png"
	s2 := newSnapshot("w1", day.Add(9*time.Hour+10*time.Minute))
	s2.Activity = []byte(`{"active_minutes":15,"idle_minutes":10,"app_usage":{"mail":10,"docs":20},"sites_visited":[{"browser":"chrome","url":"https://wiki.example"}]}`)
	snapshots.snapshots = append(snapshots.snapshots, s1, s2)

	days, err := eng.DailyActivity(ctx, "w1", day, day)
	if err != nil {
		t.Fatalf("DailyActivity failed: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("Expected 1 day, got %d", len(days))
	}

	got := days[0]
	if got.Date != "2026-08-10" {
		t.Errorf("Expected date 2026-08-10, got %s", got.Date)
	}
	if got.PingCount != 2 {
		t.Errorf("Expected 2 pings, got %d", got.PingCount)
	}
	if got.ActiveMinutes != 40 || got.IdleMinutes != 15 {
		t.Errorf("Expected 40/15 minutes, got %d/%d", got.ActiveMinutes, got.IdleMinutes)
	}
	if got.AppUsage["mail"] != 40 || got.AppUsage["docs"] != 20 {
		t.Errorf("Unexpected app usage: %v", got.AppUsage)
	}
	if len(got.SitesVisited) != 1 {
		t.Errorf("Expected 1 site visit, got %d", len(got.SitesVisited))
	}
	if len(got.Screenshots) != 1 || got.Screenshots[0] != s1.ScreenshotPath {
		t.Errorf("Unexpected screenshots: %v", got.Screenshots)
	}
	if got.WorkLocation != models.WorkLocationRemote {
		t.Errorf("Expected remote day, got %s", got.WorkLocation)
	}
	if got.SkippedSnapshots != 0 {
		t.Errorf("Expected no skipped snapshots, got %d", got.SkippedSnapshots)
	}
	// 09:00 to 09:10 with no gap over 15m
	if got.WorkingHours != 0.2 {
		t.Errorf("Expected 0.2 working hours, got %v", got.WorkingHours)
	}
}

func TestDailyActivityFillsEmptyDays(t *testing.T) {
	pings := &fakePingRepo{}
	eng := newTestEngine(t, pings, &fakeSnapshotRepo{}, newFakeScreenshotStore())

	pings.pings = append(pings.pings, newPing("w1", ts(t, "2026-08-11T09:00:00Z")))

	days, err := eng.DailyActivity(context.Background(), "w1",
		ts(t, "2026-08-10T00:00:00Z"), ts(t, "2026-08-12T23:00:00Z"))
	if err != nil {
		t.Fatalf("DailyActivity failed: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("Expected 3 days in range, got %d", len(days))
	}

	for i, date := range []string{"2026-08-10", "2026-08-11", "2026-08-12"} {
		if days[i].Date != date {
			t.Errorf("Expected day %d to be %s, got %s", i, date, days[i].Date)
		}
	}
	if days[0].PingCount != 0 || days[0].WorkingHours != 0 {
		t.Errorf("Expected zero-filled empty day, got %+v", days[0])
	}
	if days[0].AppUsage == nil || days[0].Screenshots == nil {
		t.Error("Empty day must carry empty collections, not nil")
	}
	if days[1].PingCount != 1 {
		t.Errorf("Expected 1 ping on the 11th, got %d", days[1].PingCount)
	}
}

func TestDailyActivitySkipsMalformedPayloads(t *testing.T) {
	snapshots := &fakeSnapshotRepo{}
	eng := newTestEngine(t, &fakePingRepo{}, snapshots, newFakeScreenshotStore())

	day := ts(t, "2026-08-10T00:00:00Z")
	good := newSnapshot("w1", day.Add(9*time.Hour))
	good.Activity = []byte(`{"active_minutes":30}`)
	bad := newSnapshot("w1", day.Add(9*time.Hour+5*time.Minute))
	bad.Activity = []byte(`{"active_minutes":`)
	snapshots.snapshots = append(snapshots.snapshots, good, bad)

	days, err := eng.DailyActivity(context.Background(), "w1", day, day)
	if err != nil {
		t.Fatalf("Expected aggregation to survive a malformed payload, got %v", err)
	}

	got := days[0]
	if got.SkippedSnapshots != 1 {
		t.Errorf("Expected 1 skipped snapshot, got %d", got.SkippedSnapshots)
	}
	if got.ActiveMinutes != 30 {
		t.Errorf("Expected the parseable payload to still count, got %d minutes", got.ActiveMinutes)
	}
	// The malformed snapshot's timestamp still counts toward working time
	if got.WorkingHours != 0.1 {
		t.Errorf("Expected 0.1 working hours, got %v", got.WorkingHours)
	}
}

func TestDailyActivityOfficeClassification(t *testing.T) {
	snapshots := &fakeSnapshotRepo{}
	eng := newTestEngine(t, &fakePingRepo{}, snapshots, newFakeScreenshotStore())

	day := ts(t, "2026-08-10T00:00:00Z")
	remote := newSnapshot("w1", day.Add(9*time.Hour))
	remote.PublicIP = "198.51.100.7"
	office := newSnapshot("w1", day.Add(14*time.Hour))
	office.PublicIP = "203.0.113.10"
	snapshots.snapshots = append(snapshots.snapshots, remote, office)

	days, err := eng.DailyActivity(context.Background(), "w1", day, day)
	if err != nil {
		t.Fatalf("DailyActivity failed: %v", err)
	}
	if days[0].WorkLocation != models.WorkLocationOffice {
		t.Errorf("One office-address event should classify the day as office, got %s", days[0].WorkLocation)
	}
}

func TestRecentSnapshotsNewestFirst(t *testing.T) {
	snapshots := &fakeSnapshotRepo{}
	eng := newTestEngine(t, &fakePingRepo{}, snapshots, newFakeScreenshotStore())

	now := time.Now()
	old := newSnapshot("w1", now.Add(-10*24*time.Hour))
	recent := newSnapshot("w1", now.Add(-2*time.Hour))
	older := newSnapshot("w1", now.Add(-26*time.Hour))
	snapshots.snapshots = append(snapshots.snapshots, old, recent, older)

	got, err := eng.RecentSnapshots(context.Background(), "w1", 0)
	if err != nil {
		t.Fatalf("RecentSnapshots failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 snapshots within the default 7 days, got %d", len(got))
	}
	if got[0].ID != recent.ID || got[1].ID != older.ID {
		t.Errorf("Expected newest-first order, got %s then %s", got[0].ID, got[1].ID)
	}
}
