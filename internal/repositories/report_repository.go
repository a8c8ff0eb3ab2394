package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.PostReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*models.PostReport, error) {
	var report models.PostReport
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// OpenReports 待处理举报列表（pending 与 on_hold），最新优先
func (r *ReportRepository) OpenReports(ctx context.Context, limit, offset int) ([]models.PostReport, error) {
	var reports []models.PostReport
	err := r.db.WithContext(ctx).
		Where("update_status NOT IN ?", []int16{models.ReportUpdateComplete, models.ReportUpdateRejected}).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	return reports, err
}

// OpenReportCount 某目标上仍未了结的举报数
func (r *ReportRepository) OpenReportCount(ctx context.Context, targetType int16, targetID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostReport{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Where("update_status NOT IN ?", []int16{models.ReportUpdateComplete, models.ReportUpdateRejected}).
		Count(&count).Error
	return count, err
}

// SetStatus 标记举报状态；非事务调用方专用（withhold/reject）
func (r *ReportRepository) SetStatus(ctx context.Context, reportID int64, status int16) error {
	return r.db.WithContext(ctx).Model(&models.PostReport{}).
		Where("id = ?", reportID).
		Update("update_status", status).Error
}

// ResolveRemoval 受理：软删内容并标记举报完成，单事务。
// removal 里按 target_type 更新对应表
func (r *ReportRepository) ResolveRemoval(ctx context.Context, report *models.PostReport, removedByID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := softRemoveTarget(tx, report, removedByID); err != nil {
			return err
		}
		return tx.Model(&models.PostReport{}).
			Where("id = ?", report.ID).
			Update("update_status", models.ReportUpdateComplete).Error
	})
}

// ResolveStrike 处分：软删内容 + 写入处分记录 + （critical 时）封禁作者
// + 标记举报完成。必须整体成功或整体回滚，不允许删了内容却没有处分记录
func (r *ReportRepository) ResolveStrike(ctx context.Context, report *models.PostReport, strike *models.UserStrike, suspend bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := softRemoveTarget(tx, report, strike.IssuedByID); err != nil {
			return err
		}
		if err := tx.Create(strike).Error; err != nil {
			return err
		}
		if suspend {
			err := tx.Model(&models.User{}).
				Where("id = ?", strike.UserID).
				Updates(map[string]any{
					"banned_at":     time.Now(),
					"banned_by_id":  strike.IssuedByID,
					"banned_reason": strike.ReasonCode,
					"banned_until":  nil, // 无限期
				}).Error
			if err != nil {
				return err
			}
		}
		return tx.Model(&models.PostReport{}).
			Where("id = ?", report.ID).
			Update("update_status", models.ReportUpdateComplete).Error
	})
}

func softRemoveTarget(tx *gorm.DB, report *models.PostReport, removedByID int64) error {
	updates := map[string]any{
		"removed_at":     time.Now(),
		"removed_by_id":  removedByID,
		"removed_reason": report.ReasonCode,
	}
	switch report.TargetType {
	case models.ReportTargetPost:
		return tx.Model(&models.Post{}).Where("id = ?", report.TargetID).Updates(updates).Error
	case models.ReportTargetComment:
		return tx.Model(&models.Comment{}).Where("id = ?", report.TargetID).Updates(updates).Error
	default:
		return gorm.ErrRecordNotFound
	}
}
