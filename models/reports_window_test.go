package models_test

import (
	"testing"
	"time"

	"github.com/mmdatafocus/storestock_backend/models"
)

func TestMonthWindow(t *testing.T) {
	start, end := models.MonthWindow(2025, time.January)
	if !start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}

	// December rolls into the next year
	start, end = models.MonthWindow(2025, time.December)
	if !end.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("december end = %v", end)
	}
	if end.Sub(start) != 31*24*time.Hour {
		t.Errorf("december span = %v", end.Sub(start))
	}

	// leap february
	start, end = models.MonthWindow(2024, time.February)
	if end.Sub(start) != 29*24*time.Hour {
		t.Errorf("leap february span = %v", end.Sub(start))
	}
}

func TestYearWindow(t *testing.T) {
	start, end := models.YearWindow(2025)
	if !start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestDayWindow(t *testing.T) {
	at := time.Date(2025, 6, 15, 13, 45, 12, 0, time.UTC)
	start, end := models.DayWindow(at)
	if !start.Equal(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
	// boundary instants belong to exactly one window
	if !start.Before(end) || end.Sub(start) != 24*time.Hour {
		t.Errorf("window [%v, %v)", start, end)
	}
}
