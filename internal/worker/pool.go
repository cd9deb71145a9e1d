package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tubertify-backend/internal/services"
)

const durationQueue = "queue:duration-backfill"

// DurationJob asks the pool to resolve a module's video duration that
// the playlist listing left at zero.
type DurationJob struct {
	ModuleID uuid.UUID `json:"module_id"`
	VideoID  string    `json:"video_id"`
}

// Queue is the producer side of the backfill queue.
type Queue struct {
	redis *redis.Client
}

func NewQueue(redisClient *redis.Client) *Queue {
	return &Queue{redis: redisClient}
}

func (q *Queue) Enqueue(ctx context.Context, moduleID uuid.UUID, videoID string) error {
	payload, err := json.Marshal(DurationJob{ModuleID: moduleID, VideoID: videoID})
	if err != nil {
		return err
	}
	return q.redis.LPush(ctx, durationQueue, string(payload)).Err()
}

type durationUpdater interface {
	UpdateDuration(ctx context.Context, id uuid.UUID, durationSeconds int) error
}

type videoResolver interface {
	GetVideoInfo(ctx context.Context, videoID string) (*services.VideoInfo, error)
}

// Pool consumes duration-backfill jobs from redis. Blocking pop with a
// short timeout so Stop is observed promptly.
type Pool struct {
	redis       *redis.Client
	youtube     videoResolver
	modules     durationUpdater
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, youtube videoResolver, modules durationUpdater, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		youtube:     youtube,
		modules:     modules,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d duration-backfill workers", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Backfill worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		result, err := p.redis.BLPop(ctx, 30*time.Second, durationQueue).Result()
		if err != nil {
			continue // timeout or transient error, retry
		}
		if len(result) < 2 {
			continue
		}

		var job DurationJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Backfill worker %d: bad job payload: %v", id, err)
			continue
		}

		p.process(ctx, id, job)
	}
}

func (p *Pool) process(ctx context.Context, workerID int, job DurationJob) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	info, err := p.youtube.GetVideoInfo(ctx, job.VideoID)
	if err != nil {
		log.Printf("Backfill worker %d: metadata fetch for video %s failed: %v", workerID, job.VideoID, err)
		return
	}
	if info.DurationSeconds <= 0 {
		return
	}

	if err := p.modules.UpdateDuration(ctx, job.ModuleID, info.DurationSeconds); err != nil {
		log.Printf("Backfill worker %d: duration update for module %s failed: %v", workerID, job.ModuleID, err)
	}
}
