package database_test

import (
	"testing"

	"github.com/mroshb/duo_finder/internal/database/dbtest"
	"github.com/mroshb/duo_finder/internal/models"
)

func TestAutoMigrate_CreatesTables(t *testing.T) {
	db := dbtest.New(t)

	for _, model := range []interface{}{
		&models.UserProfile{},
		&models.QueueEntry{},
		&models.Match{},
		&models.Notification{},
	} {
		if !db.Migrator().HasTable(model) {
			t.Errorf("HasTable(%T) = false, want true", model)
		}
	}
	if !db.Migrator().HasIndex(&models.QueueEntry{}, "idx_queue_waiting_user") {
		t.Error("waiting-user unique index was not created")
	}
}

func TestAutoMigrate_OneWaitingRowPerUser(t *testing.T) {
	db := dbtest.New(t)

	profile := &models.UserProfile{Nickname: "ana"}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}

	first := &models.QueueEntry{UserID: profile.ID, Status: models.QueueStatusWaiting}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("create first entry: %v", err)
	}
	second := &models.QueueEntry{UserID: profile.ID, Status: models.QueueStatusWaiting}
	if err := db.Create(second).Error; err == nil {
		t.Error("second waiting entry for the same user was accepted")
	}
}
