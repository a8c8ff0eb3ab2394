package repositories

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
	"github.com/yusurko/freak/internal/storage"
	"github.com/yusurko/freak/utils/snowflake"
)

var testIDGen, _ = snowflake.NewGenerator(snowflake.Config{MachineID: 31, ProcessID: 31})

func setupTestDB(t *testing.T) *gorm.DB {
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

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	id, err := testIDGen.NextID()
	require.NoError(t, err)
	user := &models.User{
		ID:       id,
		Username: username + "-" + snowflake.EncodeB32L(id),
		Passhash: "x",
		JoinedAt: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	t.Cleanup(func() { db.Delete(user) })
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, authorID int64) *models.Post {
	t.Helper()
	id, err := testIDGen.NextID()
	require.NoError(t, err)
	post := &models.Post{
		ID:       id,
		Title:    "test post",
		AuthorID: &authorID,
	}
	require.NoError(t, db.Create(post).Error)
	t.Cleanup(func() { db.Delete(post) })
	return post
}

func TestVoteRepository_Apply(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	voteRepo := NewVoteRepository(db)
	author := createTestUser(t, db, "author")
	voter := createTestUser(t, db, "voter")
	post := createTestPost(t, db, author.ID)

	t.Cleanup(func() {
		db.Where("post_id = ?", post.ID).Delete(&models.PostUpvote{})
	})

	upvote := func(current int) (bool, bool, bool, error) {
		return true, false, current != 0, nil
	}
	downvote := func(current int) (bool, bool, bool, error) {
		return true, true, current != 0, nil
	}
	retract := func(current int) (bool, bool, bool, error) {
		return false, false, current != 0, nil
	}

	// none -> up
	require.NoError(t, voteRepo.Apply(ctx, post.ID, voter.ID, upvote))
	current, err := voteRepo.CurrentVote(ctx, post.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current)

	// up -> down（单事务删旧插新）
	require.NoError(t, voteRepo.Apply(ctx, post.ID, voter.ID, downvote))
	current, err = voteRepo.CurrentVote(ctx, post.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, current)

	// down -> none
	require.NoError(t, voteRepo.Apply(ctx, post.ID, voter.ID, retract))
	current, err = voteRepo.CurrentVote(ctx, post.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current)

	score, err := voteRepo.Upvotes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), score)
}

func TestVoteRepository_ConcurrentSameVoter(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	voteRepo := NewVoteRepository(db)
	author := createTestUser(t, db, "author")
	voter := createTestUser(t, db, "voter")
	post := createTestPost(t, db, author.ID)
	t.Cleanup(func() {
		db.Where("post_id = ?", post.ID).Delete(&models.PostUpvote{})
	})

	// 同一用户并发点赞：复合主键兜底，落败方重试一次后解出空操作，
	// 冲突不外泄，最终只允许一行存在
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- voteRepo.Apply(ctx, post.ID, voter.ID, func(current int) (bool, bool, bool, error) {
				// 已是赞票时空操作，对应真实转移语义
				return current == 0, false, false, nil
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.PostUpvote{}).
		Where("post_id = ? AND voter_id = ?", post.ID, voter.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_KarmaConvergence(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	userRepo := NewUserRepository(db)
	voteRepo := NewVoteRepository(db)
	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.ID)
	t.Cleanup(func() {
		db.Where("post_id = ?", post.ID).Delete(&models.PostUpvote{})
	})

	// 发帖 +1
	require.NoError(t, userRepo.Reward(ctx, author.ID, 1))

	voters := make([]*models.User, 3)
	for i := range voters {
		voters[i] = createTestUser(t, db, "voter")
		isDown := i == 2
		require.NoError(t, voteRepo.Apply(ctx, post.ID, voters[i].ID, func(current int) (bool, bool, bool, error) {
			return true, isDown, current != 0, nil
		}))
		delta := int64(1)
		if isDown {
			delta = -1
		}
		require.NoError(t, userRepo.Reward(ctx, author.ID, delta))
	}

	incremental, err := userRepo.GetByID(ctx, author.ID)
	require.NoError(t, err)

	// 全量重算必须与增量路径收敛，且重复执行结果一致
	recomputed, err := userRepo.RecomputeKarma(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, incremental.Karma, recomputed)

	again, err := userRepo.RecomputeKarma(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, recomputed, again)
}

// 评论流与逐条判定口径一致：被站级封禁作者的评论不出现在分页里
func TestPostRepository_CommentsHideSuspendedAuthor(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	postRepo := NewPostRepository(db)
	author := createTestUser(t, db, "author")
	suspended := createTestUser(t, db, "banned")
	post := createTestPost(t, db, author.ID)

	now := time.Now()
	require.NoError(t, db.Model(suspended).Update("banned_at", now).Error)

	newComment := func(authorID int64) *models.Comment {
		id, err := testIDGen.NextID()
		require.NoError(t, err)
		comment := &models.Comment{
			ID:           id,
			AuthorID:     &authorID,
			ParentPostID: post.ID,
			TextContent:  "c-" + snowflake.EncodeB32L(id),
			CreatedAt:    time.Now(),
		}
		require.NoError(t, db.Create(comment).Error)
		t.Cleanup(func() { db.Delete(comment) })
		return comment
	}
	visible := newComment(author.ID)
	hidden := newComment(suspended.ID)

	comments, err := postRepo.TopLevelComments(ctx, post.ID, 0, 25, 0)
	require.NoError(t, err)

	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	assert.Contains(t, ids, visible.ID)
	assert.NotContains(t, ids, hidden.ID)
}

func TestGuildRepository_UpdateMemberUpsert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	guildRepo := NewGuildRepository(db)
	owner := createTestUser(t, db, "owner")
	user := createTestUser(t, db, "member")

	guildID, err := testIDGen.NextID()
	require.NoError(t, err)
	guild := &models.Guild{
		ID:      guildID,
		Name:    "g-" + snowflake.EncodeB32L(guildID),
		OwnerID: &owner.ID,
	}
	require.NoError(t, guildRepo.Create(ctx, guild))
	t.Cleanup(func() {
		db.Where("guild_id = ?", guild.ID).Delete(&models.Member{})
		db.Delete(guild)
	})

	// 首次 upsert 建行
	member, err := guildRepo.UpdateMember(ctx, guild.ID, user.ID, map[string]any{"is_subscribed": true})
	require.NoError(t, err)
	assert.True(t, member.IsSubscribed)

	// 重复执行幂等
	member, err = guildRepo.UpdateMember(ctx, guild.ID, user.ID, map[string]any{"is_subscribed": true})
	require.NoError(t, err)
	assert.True(t, member.IsSubscribed)

	// 其他字段不被覆盖
	member, err = guildRepo.UpdateMember(ctx, guild.ID, user.ID, map[string]any{"is_moderator": true})
	require.NoError(t, err)
	assert.True(t, member.IsSubscribed)
	assert.True(t, member.IsModerator)

	var count int64
	require.NoError(t, db.Model(&models.Member{}).
		Where("guild_id = ? AND user_id = ?", guild.ID, user.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBlockRepository_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	blockRepo := NewBlockRepository(db)
	actor := createTestUser(t, db, "actor")
	target := createTestUser(t, db, "target")
	t.Cleanup(func() {
		db.Where("actor_id = ?", actor.ID).Delete(&models.UserBlock{})
	})

	already, err := blockRepo.Block(ctx, actor.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, already)

	// 重复屏蔽幂等，报告"已存在"而不是报错
	already, err = blockRepo.Block(ctx, actor.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, already)

	blocked, err := blockRepo.HasBlocked(ctx, actor.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	// 方向性：反向不成立
	blocked, err = blockRepo.HasBlocked(ctx, target.ID, actor.ID)
	require.NoError(t, err)
	assert.False(t, blocked)

	existed, err := blockRepo.Unblock(ctx, actor.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = blockRepo.Unblock(ctx, actor.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestReportRepository_ResolveStrike(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	reportRepo := NewReportRepository(db)
	author := createTestUser(t, db, "author")
	reporter := createTestUser(t, db, "reporter")
	admin := createTestUser(t, db, "admin")
	post := createTestPost(t, db, author.ID)

	report := &models.PostReport{
		AuthorID:   &reporter.ID,
		TargetType: models.ReportTargetPost,
		TargetID:   post.ID,
		ReasonCode: 141, // doxing, critical
	}
	require.NoError(t, reportRepo.Create(ctx, report))
	t.Cleanup(func() {
		db.Where("user_id = ?", author.ID).Delete(&models.UserStrike{})
		db.Delete(report)
		db.Model(&models.User{}).Where("id = ?", author.ID).
			Updates(map[string]any{"banned_at": nil, "banned_by_id": nil, "banned_until": nil})
	})

	strike := &models.UserStrike{
		UserID:        author.ID,
		TargetType:    models.ReportTargetPost,
		TargetID:      post.ID,
		TargetContent: post.Title,
		ReasonCode:    report.ReasonCode,
		IssuedByID:    admin.ID,
	}
	require.NoError(t, reportRepo.ResolveStrike(ctx, report, strike, true))

	// 内容软删 + 处分记录 + 封禁 + 举报完成，缺一不可
	var got models.Post
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.True(t, got.IsRemoved())

	var strikeCount int64
	require.NoError(t, db.Model(&models.UserStrike{}).
		Where("user_id = ? AND target_id = ?", author.ID, post.ID).
		Count(&strikeCount).Error)
	assert.Equal(t, int64(1), strikeCount)

	var bannedAuthor models.User
	require.NoError(t, db.First(&bannedAuthor, "id = ?", author.ID).Error)
	assert.True(t, bannedAuthor.IsSuspended(time.Now()))
	assert.Nil(t, bannedAuthor.BannedUntil, "critical 封禁无限期")

	var updated models.PostReport
	require.NoError(t, db.First(&updated, "id = ?", report.ID).Error)
	assert.Equal(t, models.ReportUpdateComplete, updated.UpdateStatus)
	assert.False(t, updated.IsOpen())
}
