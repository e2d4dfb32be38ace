//go:build integration

package testhelper

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"hr-approval-backend/db"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// SetupTestDB поднимает общий контейнер PostgreSQL (один на прогон), применяет миграции
// и возвращает подключение с пустыми таблицами
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(func() {
		sharedDSN, initErr = startContainer()
	})
	if initErr != nil {
		t.Fatalf("testhelper: failed to setup test DB: %v", initErr)
	}

	tx, err := db.Open(sharedDSN, false)
	if err != nil {
		t.Fatalf("testhelper: failed to connect: %v", err)
	}
	if err = db.AutoMigrateDB(tx); err != nil {
		t.Fatalf("testhelper: failed to migrate: %v", err)
	}
	err = tx.Exec("TRUNCATE approval_histories, timeoff_requests, approval_lines, approval_docs RESTART IDENTITY").Error
	if err != nil {
		t.Fatalf("testhelper: failed to truncate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := tx.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return tx
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	return fmt.Sprintf("host=%s port=%s user=testuser dbname=testdb sslmode=disable password=testpass", host, port.Port()), nil
}
