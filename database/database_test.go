package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"visibility-scan-pipeline/models"
)

func newMock(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func sampleResult() *models.ScanResult {
	return &models.ScanResult{
		ScanID:    "11111111-2222-3333-4444-555555555555",
		BrandName: "Zylo",
		Status:    models.StatusRecommended,
		Score:     models.VisibilityScore{Overall: 80},
		Runs:      1,
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveScanResult(t *testing.T) {
	d, mock := newMock(t)
	result := sampleResult()

	mock.ExpectExec("INSERT INTO scan_results").
		WithArgs(result.ScanID, result.BrandName, "recommended", 80, 1, sqlmock.AnyArg(), result.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := d.SaveScanResult(context.Background(), result); err != nil {
		t.Fatalf("SaveScanResult: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetScanResult(t *testing.T) {
	d, mock := newMock(t)
	want := sampleResult()
	payload, _ := json.Marshal(want)

	mock.ExpectQuery("SELECT result FROM scan_results WHERE scan_id").
		WithArgs(want.ScanID).
		WillReturnRows(sqlmock.NewRows([]string{"result"}).AddRow(payload))

	got, err := d.GetScanResult(context.Background(), want.ScanID)
	if err != nil {
		t.Fatalf("GetScanResult: %v", err)
	}
	if got.ScanID != want.ScanID || got.Status != want.Status || got.Score.Overall != want.Score.Overall {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetScanResultMissing(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectQuery("SELECT result FROM scan_results WHERE scan_id").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	if _, err := d.GetScanResult(context.Background(), "nope"); err != sql.ErrNoRows {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestGetScanStats(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(AVG\(overall_score\), 0\) FROM scan_results`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(5, 42.5))
	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("recommended", 2).
			AddRow("low_visibility", 3))

	stats, err := d.GetScanStats(context.Background())
	if err != nil {
		t.Fatalf("GetScanStats: %v", err)
	}
	if stats.TotalScans != 5 || stats.AverageScore != 42.5 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByStatus["recommended"] != 2 || stats.ByStatus["low_visibility"] != 3 {
		t.Errorf("by status = %+v", stats.ByStatus)
	}
}
