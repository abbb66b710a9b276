package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lefade-api/internal/audit"
	"github.com/BruksfildServices01/lefade-api/internal/db/dbtest"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/infra/repository"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

func TestChangeRole(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()

	owner := dbtest.CreateUser(t, gdb, "auth0|owner", "OWNER")
	target := dbtest.CreateUser(t, gdb, "auth0|target", "CLIENT")

	d := audit.NewDispatcher(audit.New(gdb))
	uc := NewChangeRole(repository.NewUserGormRepository(gdb), d)

	u, err := uc.Execute(ctx, owner.ID, target.ID, "barber")
	require.NoError(t, err)
	assert.Equal(t, "BARBER", u.Role)
	d.Close()

	var stored models.User
	require.NoError(t, gdb.First(&stored, target.ID).Error)
	assert.Equal(t, "BARBER", stored.Role)

	var logs []models.AuditLog
	require.NoError(t, gdb.Where("action = ?", "role_changed").Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"from":"CLIENT","to":"BARBER"}`, logs[0].Metadata)
}

func TestChangeRoleRejections(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()

	owner := dbtest.CreateUser(t, gdb, "auth0|owner", "OWNER")
	target := dbtest.CreateUser(t, gdb, "auth0|target", "CLIENT")
	uc := NewChangeRole(repository.NewUserGormRepository(gdb), nil)

	tests := []struct {
		name   string
		target uint
		role   string
		code   string
	}{
		{"unknown role", target.ID, "ADMIN", httperr.CodeValidation},
		{"own role", owner.ID, "CLIENT", httperr.CodeValidation},
		{"missing user", 9999, "BARBER", httperr.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, owner.ID, tt.target, tt.role)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
}
