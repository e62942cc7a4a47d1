package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"siakad_go/database"
	"siakad_go/models"
)

// FlushCachedLogs drains the Redis activity-log queue into the database.
// Returns the number of logs persisted.
func FlushCachedLogs() (int, error) {
	rc := database.GetRedisClient()
	if rc == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	ctx := context.Background()

	keys, err := rc.ZRange(ctx, "logs:queue", 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read log queue: %v", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	flushed := 0
	for _, key := range keys {
		data, err := rc.Get(ctx, key).Result()
		if err != nil {
			// Entry expired before flush; drop the queue reference
			rc.ZRem(ctx, "logs:queue", key)
			continue
		}

		var al models.ActivityLog
		if err := json.Unmarshal([]byte(data), &al); err != nil {
			logrus.WithError(err).Warn("Skipping malformed cached log")
			rc.ZRem(ctx, "logs:queue", key)
			rc.Del(ctx, key)
			continue
		}

		al.ID = 0 // let the database assign the key
		if err := database.DB.Create(&al).Error; err != nil {
			logrus.WithError(err).Error("Failed to persist cached log")
			continue
		}

		rc.ZRem(ctx, "logs:queue", key)
		rc.Del(ctx, key)
		flushed++
	}

	return flushed, nil
}
