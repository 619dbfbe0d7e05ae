package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
)

func newTestSettingsRepo(t *testing.T) (*settingsRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &settingsRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestGetSetting_Success(t *testing.T) {
	repo, mock, db := newTestSettingsRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(SettingTeamBinding).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"server_id":"s1"}`))

	raw, err := repo.GetSetting(context.Background(), SettingTeamBinding)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"server_id":"s1"}` {
		t.Errorf("unexpected raw value: %s", raw)
	}
}

func TestGetSetting_NotFound(t *testing.T) {
	repo, mock, db := newTestSettingsRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs("never.written").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSetting(context.Background(), "never.written")
	if !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}
}

func TestSetSetting_MarshalsValue(t *testing.T) {
	repo, mock, db := newTestSettingsRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO settings").
		WithArgs(SettingTokenSignSecret, `"deadbeef"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetSetting(context.Background(), SettingTokenSignSecret, "deadbeef"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetSetting_UnmarshalableValue(t *testing.T) {
	repo, _, db := newTestSettingsRepo(t)
	defer db.Close()

	err := repo.SetSetting(context.Background(), "bad.value", make(chan int))
	if err == nil {
		t.Fatal("expected marshal error, got nil")
	}
}

func TestDeleteSetting(t *testing.T) {
	repo, mock, db := newTestSettingsRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM settings").
		WithArgs(SettingVaultSettings).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteSetting(context.Background(), SettingVaultSettings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
