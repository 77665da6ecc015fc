package repository

import (
	"github.com/weibaohui/startupnavigator/internal/model"
)

// ConsultationRepository 咨询记录仓储，只追加不修改
type ConsultationRepository interface {
	Create(c *model.Consultation) error
	ListBySessionRole(sessionID, roleID string) ([]model.Consultation, error)
	CountBySession(sessionID string) (int64, error)
	// Delete 删除单条记录，用于撤销与会话清空并发写入的记录
	Delete(id uint) error
	DeleteBySession(sessionID string) (int64, error)
}
