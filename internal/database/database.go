package database

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoDatabase = "serenify"

// Connect opens a Mongo client and returns it with the database named in
// the URI path, or "serenify" when the URI names none.
func Connect(ctx context.Context, mongoURI string, logger logrus.FieldLogger) (*mongo.Client, *mongo.Database, error) {
	// Atlas connections can be slow to establish
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	logger.Info("connecting to MongoDB")
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	dbName := MongoDatabaseName(mongoURI)
	logger.WithField("database", dbName).Info("connected to MongoDB")
	return client, client.Database(dbName), nil
}

// MongoDatabaseName extracts the database from mongodb://host/name?opts.
func MongoDatabaseName(mongoURI string) string {
	parts := strings.Split(mongoURI, "/")
	if len(parts) > 3 {
		if name := strings.Split(parts[len(parts)-1], "?")[0]; name != "" {
			return name
		}
	}
	return defaultMongoDatabase
}

func Disconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
