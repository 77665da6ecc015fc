package repository

import (
	"github.com/weibaohui/startupnavigator/internal/model"
	"gorm.io/gorm"
)

type consultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) ConsultationRepository {
	return &consultationRepository{db: db}
}

func (r *consultationRepository) Create(c *model.Consultation) error {
	return r.db.Create(c).Error
}

// ListBySessionRole 按写入顺序返回某会话下某角色的问答
func (r *consultationRepository) ListBySessionRole(sessionID, roleID string) ([]model.Consultation, error) {
	var items []model.Consultation
	err := r.db.Where("session_id = ? AND role_id = ?", sessionID, roleID).Order("id").Find(&items).Error
	return items, err
}

func (r *consultationRepository) CountBySession(sessionID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Consultation{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, err
}

func (r *consultationRepository) Delete(id uint) error {
	return r.db.Delete(&model.Consultation{}, id).Error
}

func (r *consultationRepository) DeleteBySession(sessionID string) (int64, error) {
	result := r.db.Where("session_id = ?", sessionID).Delete(&model.Consultation{})
	return result.RowsAffected, result.Error
}
