package hours

import (
	"testing"
	"time"
)

func TestLocationAmsterdam(t *testing.T) {
	// Winter date, Amsterdam is at UTC+1.
	tmWinter := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	_, offsetWinter := LocationAmsterdam(tmWinter).Zone()
	if offsetWinter != 3600 {
		t.Errorf("LocationAmsterdam() on winter date expected offset 3600 seconds, got %d", offsetWinter)
	}

	// Summer date, Amsterdam is at UTC+2.
	tmSummer := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	_, offsetSummer := LocationAmsterdam(tmSummer).Zone()
	if offsetSummer != 7200 {
		t.Errorf("LocationAmsterdam() on summer date expected offset 7200 seconds, got %d", offsetSummer)
	}
}

func TestLocationAmsterdamDstTransition(t *testing.T) {
	// CET to CEST on 2024-03-31: clocks jump from 02:00 to 03:00 at 01:00 UTC.
	tests := []struct {
		name       string
		instant    time.Time
		wantOffset int
		wantHour   int
	}{
		{
			name:       "half an hour before the jump",
			instant:    time.Date(2024, time.March, 31, 0, 30, 0, 0, time.UTC),
			wantOffset: 3600,
			wantHour:   1,
		},
		{
			name:       "half an hour after the jump",
			instant:    time.Date(2024, time.March, 31, 1, 30, 0, 0, time.UTC),
			wantOffset: 7200,
			wantHour:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := LocationAmsterdam(tt.instant)
			_, offset := local.Zone()
			if offset != tt.wantOffset {
				t.Errorf("expected offset %d, got %d", tt.wantOffset, offset)
			}
			if local.Hour() != tt.wantHour {
				t.Errorf("expected local hour %d, got %d", tt.wantHour, local.Hour())
			}
		})
	}
}

func TestStartOfDay(t *testing.T) {
	// 23:30 UTC on Jan 1 is already Jan 2 in Amsterdam.
	tm := time.Date(2024, time.January, 1, 23, 30, 0, 0, time.UTC)
	got := StartOfDay(tm)
	want := time.Date(2024, time.January, 2, 0, 0, 0, 0, amsterdamLoc)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() expected %v, got %v", want, got)
	}
}

func TestStartOfHour(t *testing.T) {
	tm := time.Date(2024, time.June, 15, 13, 45, 12, 0, time.UTC)
	got := StartOfHour(tm)
	want := time.Date(2024, time.June, 15, 15, 0, 0, 0, amsterdamLoc)
	if !got.Equal(want) {
		t.Errorf("StartOfHour() expected %v, got %v", want, got)
	}
}
