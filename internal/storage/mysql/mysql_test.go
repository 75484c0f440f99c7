package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests de integración contra una base real. Se saltan si PLANNER_TEST_DSN
// no está definido.
var testStorage *Storage

func TestMain(m *testing.M) {
	dsn := os.Getenv("PLANNER_TEST_DSN")
	if dsn == "" {
		fmt.Println("PLANNER_TEST_DSN no definido, tests de mysql omitidos")
		os.Exit(0)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		panic(fmt.Errorf("no se pudo abrir la BD de test: %w", err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		panic(fmt.Errorf("ping failed: %w", err))
	}

	testStorage = &Storage{db: db}
	os.Exit(m.Run())
}

func TestGetProgramStateSmoke(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orders, err := testStorage.GetProgramState(ctx, 1)
	require.NoError(t, err)

	for _, o := range orders {
		assert.NotEmpty(t, o.Code)
		for _, p := range o.Steps {
			assert.Equal(t, o.ID, p.WorkOrderID)
		}
	}
}

func TestSaveStandardPrincipalUniqueness(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// dos máquinas marcadas como principal en la misma ruta: debe quedar
	// solo la última
	require.NoError(t, testStorage.SaveStandard(ctx, 1, 1, 100, true))
	require.NoError(t, testStorage.SaveStandard(ctx, 1, 2, 90, true))

	stds, err := testStorage.GetStandards(ctx, 1, "ot", 1)
	require.NoError(t, err)

	principales := 0
	for _, s := range stds {
		if s.IsPrincipal {
			principales++
			assert.Equal(t, int64(2), s.MachineID)
		}
	}
	assert.Equal(t, 1, principales)
}
