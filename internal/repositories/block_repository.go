package repositories

import (
	"errors"

	"github.com/buzzline/backend/internal/models"
	"gorm.io/gorm"
)

// BlockRepository defines the interface for block edge operations
type BlockRepository interface {
	CreateBlock(block *models.Block) error
	DeleteBlock(blockerID, blockedID uint) error
	IsBlocked(blockerID, blockedID uint) (bool, error)
	GetBlockerIDs(blockedID uint) ([]uint, error)
}

// PostgresBlockRepository implements BlockRepository for PostgreSQL
type PostgresBlockRepository struct {
	db *gorm.DB
}

// NewPostgresBlockRepository creates a new PostgresBlockRepository
func NewPostgresBlockRepository(db *gorm.DB) *PostgresBlockRepository {
	return &PostgresBlockRepository{db: db}
}

// CreateBlock inserts a block edge, with the unique index as the backstop
// against concurrent duplicate blocks.
func (r *PostgresBlockRepository) CreateBlock(block *models.Block) error {
	if err := r.db.Create(block).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrAlreadyBlocked
		}
		return err
	}
	return nil
}

func (r *PostgresBlockRepository) DeleteBlock(blockerID, blockedID uint) error {
	res := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&models.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotBlocked
	}
	return nil
}

func (r *PostgresBlockRepository) IsBlocked(blockerID, blockedID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Block{}).Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetBlockerIDs returns the IDs of users who have blocked the given user.
// The explore feed uses this to drop posts authored by them.
func (r *PostgresBlockRepository) GetBlockerIDs(blockedID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Block{}).Where("blocked_id = ?", blockedID).Pluck("blocker_id", &ids).Error
	return ids, err
}
