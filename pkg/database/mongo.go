package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const documentsCollection = "documents"

// storedDocument is how a document sits in MongoDB: the JSON body as a string under
// the document name.
type storedDocument struct {
	Name      string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoBackend keeps every document in one collection, one record per document name.
type MongoBackend struct {
	client      *mongo.Client
	collection  *mongo.Collection
	mu          sync.RWMutex
	IsConnected bool
}

// ConnectMongo establishes a connection to MongoDB and verifies it with a ping
func ConnectMongo(mongoURL, dbName string) (*MongoBackend, error) {
	logger.System("Intentando conectar a la base de datos...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical("Fallo al conectar con la base de datos.", "DB")
		return nil, err
	}

	// Ping to verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("Fallo al verificar conexión con la base de datos.", "DB")
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Success("Conectado exitosamente a la base de datos.", "DB")

	return &MongoBackend{
		client:      client,
		collection:  client.Database(dbName).Collection(documentsCollection),
		IsConnected: true,
	}, nil
}

func (m *MongoBackend) Name() string { return "mongo" }

func (m *MongoBackend) Read(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc storedDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Body), nil
}

// Write replaces the whole record; a single-document replace is atomic in MongoDB.
func (m *MongoBackend) Write(ctx context.Context, name string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := storedDocument{Name: name, Body: string(data), UpdatedAt: time.Now().UTC()}
	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	return err
}

// Disconnect closes the database connection
func (m *MongoBackend) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		return err
	}
	m.IsConnected = false
	logger.Warn("La base de datos ha sido desconectada", "DB")
	return nil
}

// Ping measures the database response time
func (m *MongoBackend) Ping() (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.IsConnected || m.client == nil {
		return 0, fmt.Errorf("not connected to database")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := m.client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns the database connection status
func (m *MongoBackend) GetStatus() (string, bool) {
	if _, err := m.Ping(); err != nil {
		return "🔴 | Offline", false
	}
	return "🟢 | Online", true
}
