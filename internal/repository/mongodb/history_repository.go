package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionStatusHistory - коллекция журнала смены статусов.
const CollectionStatusHistory = "status_history"

const writeTimeout = 5 * time.Second

// HistoryRepository - журнал смены статусов RFQ, предложений и заказов.
type HistoryRepository interface {
	SaveStatusChange(ctx context.Context, change models.StatusChange) error
	ListStatusChanges(ctx context.Context, entity, entityID string) ([]models.StatusChange, error)
}

type historyRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository создаёт журнал в базе database.
func NewHistoryRepository(client *mongo.Client, database string) HistoryRepository {
	return &historyRepository{
		collection: client.Database(database).Collection(CollectionStatusHistory),
	}
}

// Connect подключается к MongoDB и проверяет соединение.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// SaveStatusChange сохраняет запись о смене статуса.
func (r *historyRepository) SaveStatusChange(ctx context.Context, change models.StatusChange) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, change); err != nil {
		return fmt.Errorf("failed to insert status change to Mongo: %w", err)
	}
	return nil
}

// ListStatusChanges возвращает историю сущности в хронологическом порядке.
func (r *historyRepository) ListStatusChanges(ctx context.Context, entity, entityID string) ([]models.StatusChange, error) {
	filter := bson.D{
		{Key: "entity", Value: entity},
		{Key: "entity_id", Value: entityID},
	}
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer cursor.Close(ctx)

	changes := []models.StatusChange{}
	if err := cursor.All(ctx, &changes); err != nil {
		return nil, fmt.Errorf("failed to decode status history: %w", err)
	}
	return changes, nil
}

// NopHistoryRepository используется, когда MongoDB не настроена.
type NopHistoryRepository struct{}

var _ HistoryRepository = NopHistoryRepository{}

func (NopHistoryRepository) SaveStatusChange(context.Context, models.StatusChange) error {
	return nil
}

func (NopHistoryRepository) ListStatusChanges(context.Context, string, string) ([]models.StatusChange, error) {
	return []models.StatusChange{}, nil
}
