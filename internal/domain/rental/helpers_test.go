package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/shared"
)

func newTestEntity(createdAt time.Time) shared.BaseEntity {
	return shared.BaseEntity{ID: uuid.New(), CreatedAt: createdAt, UpdatedAt: createdAt}
}
