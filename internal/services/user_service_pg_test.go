package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusurko/freak/internal/repositories"
	"github.com/yusurko/freak/utils/snowflake"
)

func TestUserService_RegisterDisplayName(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()
	svc := NewUserService(repositories.NewUserRepository(db), reportTestIDGen)

	suffix := func() string {
		id, err := reportTestIDGen.NextID()
		require.NoError(t, err)
		return snowflake.EncodeB32L(id)
	}

	user, err := svc.Register(ctx, "anna"+suffix(), "Anna K", "S3cretpass", "", "127.0.0.1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Delete(user) })
	assert.Equal(t, "Anna K", user.DisplayName)

	// 未给展示名时缺省取用户名
	name := "bert" + suffix()
	user2, err := svc.Register(ctx, name, "", "S3cretpass", "", "127.0.0.1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Delete(user2) })
	assert.Equal(t, name, user2.DisplayName)
}
