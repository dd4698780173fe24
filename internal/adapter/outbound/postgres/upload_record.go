package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/uniedit/uploader/internal/model"
	"github.com/uniedit/uploader/internal/port/outbound"
)

// QueryObserver receives database timings.
type QueryObserver interface {
	RecordDBQuery(operation string, duration time.Duration)
}

// uploadRecordAdapter implements outbound.UploadRecordDatabasePort.
type uploadRecordAdapter struct {
	db       *gorm.DB
	observer QueryObserver
}

// NewUploadRecordAdapter creates a new upload record database adapter. observer may be nil.
func NewUploadRecordAdapter(db *gorm.DB, observer QueryObserver) outbound.UploadRecordDatabasePort {
	return &uploadRecordAdapter{db: db, observer: observer}
}

func (a *uploadRecordAdapter) Create(ctx context.Context, record *model.UploadRecord) error {
	defer a.observe("insert", time.Now())
	return a.db.WithContext(ctx).Create(record).Error
}

func (a *uploadRecordAdapter) observe(operation string, start time.Time) {
	if a.observer != nil {
		a.observer.RecordDBQuery(operation, time.Since(start))
	}
}

// Compile-time check
var _ outbound.UploadRecordDatabasePort = (*uploadRecordAdapter)(nil)
