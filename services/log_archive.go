package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"gymbuddy_go/config"
	"gymbuddy_go/database"
	"gymbuddy_go/models"
)

// LogArchiveService flushes Redis-cached activity logs into the database
// and archives old rows to S3 as zipped JSON.
type LogArchiveService struct {
	redisClient *redis.Client
	awsConfig   aws.Config
	cron        *cron.Cron
}

func NewLogArchiveService() *LogArchiveService {
	cfg, err := awscfg.LoadDefaultConfig(context.Background(),
		awscfg.WithRegion(config.AppConfig.AWSRegion))
	if err != nil {
		logrus.WithError(err).Warn("Failed to load AWS config; S3 archiving disabled until configured")
	}

	return &LogArchiveService{
		redisClient: database.GetRedisClient(),
		awsConfig:   cfg,
		cron:        cron.New(),
	}
}

// StartMaintenanceScheduler flushes cached logs hourly and archives rows
// older than 90 days once a day.
func (las *LogArchiveService) StartMaintenanceScheduler() {
	if _, err := las.cron.AddFunc("0 * * * *", func() {
		if err := las.FlushCachedLogs(); err != nil {
			logrus.WithError(err).Warn("Cached log flush failed")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to register log flush job")
	}
	if _, err := las.cron.AddFunc("30 3 * * *", func() {
		if err := las.ArchiveOldLogs(90); err != nil {
			logrus.WithError(err).Warn("Log archive failed")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to register log archive job")
	}
	las.cron.Start()
}

// FlushCachedLogs moves aged entries from the Redis write-behind queue
// into the activity_logs table.
func (las *LogArchiveService) FlushCachedLogs() error {
	if las.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	cutoff := time.Now().Add(-1 * time.Hour)

	keys, err := las.redisClient.ZRangeByScore(ctx, "logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", cutoff.Unix()),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to read log queue: %v", err)
	}

	var flushed int
	for _, key := range keys {
		data, err := las.redisClient.Get(ctx, key).Result()
		if err != nil {
			if err != redis.Nil {
				logrus.WithError(err).WithField("key", key).Error("Failed to read cached log")
			}
			continue
		}

		var entry models.ActivityLog
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			logrus.WithError(err).WithField("key", key).Error("Failed to decode cached log")
			continue
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			logrus.WithError(err).Error("Failed to persist cached log")
			continue
		}

		pipe := las.redisClient.Pipeline()
		pipe.Del(ctx, key)
		pipe.ZRem(ctx, "logs:queue", key)
		if _, err := pipe.Exec(ctx); err != nil {
			logrus.WithError(err).WithField("key", key).Error("Failed to drop flushed log from cache")
		}
		flushed++
	}

	if flushed > 0 {
		logrus.WithField("count", flushed).Info("Flushed cached activity logs")
	}
	return nil
}

// ArchiveOldLogs exports rows older than daysOld to S3 and deletes them,
// recording the result as a LogArchive row.
func (las *LogArchiveService) ArchiveOldLogs(daysOld int) error {
	cutoff := time.Now().AddDate(0, 0, -daysOld)

	var logs []models.ActivityLog
	if err := database.DB.Where("created_at < ?", cutoff).Order("created_at ASC").Find(&logs).Error; err != nil {
		return fmt.Errorf("failed to load old logs: %v", err)
	}
	if len(logs) == 0 {
		return nil
	}

	fileName := fmt.Sprintf("activity_logs_%s.zip", time.Now().Format("20060102_150405"))
	archive := models.LogArchive{
		FileName:    fileName,
		S3Key:       "log-archives/" + fileName,
		StartDate:   logs[0].CreatedAt,
		EndDate:     logs[len(logs)-1].CreatedAt,
		RecordCount: len(logs),
		Status:      "pending",
	}
	if err := database.DB.Create(&archive).Error; err != nil {
		return err
	}

	buf, err := zipLogs(logs, fileName)
	if err != nil {
		database.DB.Model(&archive).Updates(map[string]interface{}{"status": "failed", "error": err.Error()})
		return err
	}

	if err := las.uploadToS3(archive.S3Key, buf); err != nil {
		database.DB.Model(&archive).Updates(map[string]interface{}{"status": "failed", "error": err.Error()})
		return err
	}

	if err := database.DB.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{}).Error; err != nil {
		logrus.WithError(err).Error("Archived logs uploaded but deletion failed")
	}

	return database.DB.Model(&archive).Updates(map[string]interface{}{
		"status":    "completed",
		"file_size": int64(buf.Len()),
	}).Error
}

func zipLogs(logs []models.ActivityLog, fileName string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	entry, err := zw.Create(fileName[:len(fileName)-4] + ".json")
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(entry).Encode(logs); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

func (las *LogArchiveService) uploadToS3(key string, data *bytes.Buffer) error {
	client := s3.NewFromConfig(las.awsConfig)
	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(config.AppConfig.S3BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data.Bytes()),
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload archive: %v", err)
	}
	return nil
}

// ListArchives returns archive metadata, newest first.
func (las *LogArchiveService) ListArchives() ([]models.LogArchive, error) {
	var archives []models.LogArchive
	err := database.DB.Order("created_at DESC").Find(&archives).Error
	return archives, err
}
