package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

// BattleLogRepository implements ports.BattleLogRepository using MongoDB.
type BattleLogRepository struct {
	coll *mongo.Collection
}

func NewBattleLogRepository(db *mongo.Database) *BattleLogRepository {
	return &BattleLogRepository{coll: db.Collection(battleLogsCollection)}
}

// Insert persists a log and fills in its generated ID.
func (r *BattleLogRepository) Insert(ctx context.Context, log *domain.BattleLog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	id := primitive.NewObjectID()
	doc := bson.M{
		"_id":          id,
		"user_id":      log.UserID,
		"winner_id":    log.WinnerID,
		"loser_id":     log.LoserID,
		"total_rounds": log.TotalRounds,
		"created_at":   log.CreatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return unavailable("insert battle log", err)
	}
	log.ID = id.Hex()
	return nil
}
