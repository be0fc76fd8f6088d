package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("owner@example.com", "s3cret-pw", "Cafe Central")
	require.NoError(t, err)

	assert.Equal(t, PLAN_FREE, u.Plan)
	assert.Equal(t, PlanQRLimits[PLAN_FREE], u.QRLimit)
	assert.NotEqual(t, "s3cret-pw", u.PasswordHash)
	assert.True(t, u.CheckPassword("s3cret-pw"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCreateUser_InvalidEmail(t *testing.T) {
	_, err := CreateUser("not-an-email", "s3cret-pw", "Cafe Central")
	assert.Error(t, err)
}

func TestSetPlan(t *testing.T) {
	u := &User{Plan: PLAN_FREE, QRLimit: PlanQRLimits[PLAN_FREE]}

	u.SetPlan(PLAN_PRO)
	assert.Equal(t, PLAN_PRO, u.Plan)
	assert.Equal(t, PlanQRLimits[PLAN_PRO], u.QRLimit)

	// unknown plans are ignored
	u.SetPlan("platinum")
	assert.Equal(t, PLAN_PRO, u.Plan)
}
