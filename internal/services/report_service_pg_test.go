package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
	"github.com/yusurko/freak/internal/repositories"
	"github.com/yusurko/freak/internal/storage"
	"github.com/yusurko/freak/utils/snowflake"
)

var reportTestIDGen, _ = snowflake.NewGenerator(snowflake.Config{MachineID: 30, ProcessID: 30})

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	host := os.Getenv("TEST_PG_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	dsn := storage.BuildDSN(host, "5432", "postgres", "postgres", "freak_test")
	db, err := storage.InitPostgres(dsn, 2, 4)
	if err != nil {
		t.Skipf("Skipping test: postgres not available: %v", err)
	}
	return db
}

func setupReportService(t *testing.T) (*ReportService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)

	userRepo := repositories.NewUserRepository(db)
	guildRepo := repositories.NewGuildRepository(db)
	blockRepo := repositories.NewBlockRepository(db)
	postRepo := repositories.NewPostRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	membership := NewMembershipService(guildRepo, userRepo, blockRepo)

	return NewReportService(reportRepo, postRepo, userRepo, guildRepo, membership, nil, reportTestIDGen, nil), db
}

func newReportTestUser(t *testing.T, db *gorm.DB, name string, admin bool) *models.User {
	t.Helper()
	id, err := reportTestIDGen.NextID()
	require.NoError(t, err)
	user := &models.User{
		ID:              id,
		Username:        name + "-" + snowflake.EncodeB32L(id),
		Passhash:        "x",
		IsAdministrator: admin,
		JoinedAt:        time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	t.Cleanup(func() { db.Delete(user) })
	return user
}

// 举报与处分行的主键也来自标识符生成器，而不是数据库自增序列，
// 因此同样能以 b32l 文本形式对外呈现
func TestReportService_SnowflakeIDs(t *testing.T) {
	svc, db := setupReportService(t)
	ctx := context.Background()

	reporter := newReportTestUser(t, db, "reporter", false)
	author := newReportTestUser(t, db, "offender", false)
	admin := newReportTestUser(t, db, "admin", true)

	postID, err := reportTestIDGen.NextID()
	require.NoError(t, err)
	post := &models.Post{ID: postID, Title: "reported", AuthorID: &author.ID}
	require.NoError(t, db.Create(post).Error)
	t.Cleanup(func() { db.Delete(post) })

	report, err := svc.Submit(ctx, reporter, PostTarget{Post: post}, 122, "127.0.0.1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Delete(report) })

	// 时间戳位非零：自增序列的小整数不可能落在这个区间
	assert.Greater(t, report.ID, int64(1)<<22, "report ID 应由生成器签发")

	require.NoError(t, svc.Transition(ctx, admin, report.ID, ReportActionStrike))

	var strike models.UserStrike
	require.NoError(t, db.First(&strike, "user_id = ? AND target_id = ?", author.ID, post.ID).Error)
	t.Cleanup(func() { db.Delete(&strike) })

	assert.Greater(t, strike.ID, int64(1)<<22, "strike ID 应由生成器签发")
	assert.Equal(t, post.Title+"\n\n"+post.TextContent, strike.TargetContent)
}
