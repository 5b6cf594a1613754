package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// countByStatus groups the rows of model's table by their status column.
func countByStatus(ctx context.Context, db *gorm.DB, model interface{}) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := db.WithContext(ctx).Model(model).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}
