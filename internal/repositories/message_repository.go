package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for direct message storage
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetConversations(ctx context.Context, userID uint) ([]models.Conversation, error)
	GetThread(ctx context.Context, userID, partnerID uint, page models.Page) ([]models.Message, int64, error)
	MarkThreadRead(ctx context.Context, receiverID, senderID uint) (int64, error)
	GetUnreadCount(ctx context.Context, userID uint) (int64, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// EnsureIndexes creates the indexes thread and inbox queries rely on
func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "is_read", Value: 1}}},
	})
	return translate("ensure message indexes", err)
}

// CreateMessage inserts a new message
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, msg)
	return translate("create message", err)
}

func threadFilter(a, b uint) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}}
}

// GetConversations returns one entry per partner with the latest message and
// the number of unread messages addressed to userID, newest conversation first.
func (r *MongoMessageRepository) GetConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"receiver_id": userID},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$sender_id", userID}}, "$receiver_id", "$sender_id",
			}},
			"last_message": bson.M{"$first": "$$ROOT"},
			"unread_count": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$receiver_id", userID}},
					bson.M{"$eq": bson.A{"$is_read", false}},
				}}, 1, 0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_message.created_at", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate("get conversations", err)
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, translate("decode conversations", err)
	}
	return conversations, nil
}

// GetThread returns one page of messages between two users, newest first
func (r *MongoMessageRepository) GetThread(ctx context.Context, userID, partnerID uint, page models.Page) ([]models.Message, int64, error) {
	filter := threadFilter(userID, partnerID)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate("count thread", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translate("get thread", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, translate("decode thread", err)
	}
	return messages, total, nil
}

// MarkThreadRead marks every unread message from senderID to receiverID as read
func (r *MongoMessageRepository) MarkThreadRead(ctx context.Context, receiverID, senderID uint) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"sender_id": senderID, "receiver_id": receiverID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, translate("mark thread read", err)
	}
	return res.ModifiedCount, nil
}

// GetUnreadCount counts unread messages addressed to userID
func (r *MongoMessageRepository) GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"receiver_id": userID, "is_read": false})
	if err != nil {
		return 0, translate("count unread messages", err)
	}
	return count, nil
}
