package mongodb

import (
	"context"
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a client and checks the server is reachable.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	return client, client.Database(dbName), nil
}

// referenceIndexes lists the reverse-reference fields queried per collection.
var referenceIndexes = map[string][]string{
	domain.CollectionCompanies:    {"nextActionDate", "isArchived"},
	domain.CollectionContacts:     {"companyId"},
	domain.CollectionDeals:        {"companyId", "nextActionDate", "stage"},
	domain.CollectionProposals:    {"dealId", "companyId"},
	domain.CollectionWorkOrders:   {"companyId", "dealId", "status"},
	domain.CollectionDeliverables: {"workOrderId", "status"},
	domain.CollectionTasks:        {"workOrderId", "deliverableId"},
	domain.CollectionTimeEntries:  {"workOrderId", "deliverableId", "taskId", "status"},
	domain.CollectionActivities:   {"contactId", "companyId", "dealId", "workOrderId", "occurredAt"},
}

// EnsureIndexes creates the single-field lookup indexes for every collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for collection, fields := range referenceIndexes {
		models := make([]mongo.IndexModel, 0, len(fields))
		for _, field := range fields {
			models = append(models, mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}})
		}
		if _, err := db.Collection(collection).Indexes().CreateMany(indexTimeout, models); err != nil {
			return err
		}
	}
	return nil
}
