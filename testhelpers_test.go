//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/siamroads/service-trip/internal/application"
	"github.com/siamroads/service-trip/internal/catalog"
	"github.com/siamroads/service-trip/internal/contracts"
	tripEvents "github.com/siamroads/service-trip/internal/events"
	"github.com/siamroads/service-trip/internal/platform/database"
	"github.com/siamroads/service-trip/internal/platform/kafka"
	"github.com/siamroads/service-trip/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// tripStack holds wired-up trip service components.
type tripStack struct {
	Trips           *application.TripService
	Reviews         *application.ReviewService
	Leads           *application.LeadService
	Consumer        *tripEvents.CRMEventConsumer
	CleanupProducer func()
}

// setupPostgres starts a PostgreSQL container and applies the SQL migrations.
func setupPostgres(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_trip",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_trip",
		SSLMode:  "disable",
	}

	logger := zap.NewNop()
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(cfg, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(cfg.DatabaseURL(), "migrations", logger))

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}
	return db, cleanup
}

// setupContainers starts PostgreSQL and Kafka testcontainers.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	db, cleanupPG := setupPostgres(t)

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, contracts.TopicLeadEvents, contracts.TopicCRMEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		cleanupPG()
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupTripStack wires up the services over the real repositories and seeds the catalogue.
func setupTripStack(t *testing.T, db *gorm.DB, brokers []string) *tripStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	cat, err := catalog.Load()
	require.NoError(t, err)

	tripRepo := repository.NewGormTripRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	leadRepo := repository.NewGormLeadRepository(db)

	stack := &tripStack{
		Trips:           application.NewTripService(tripRepo, reviewRepo, cat.Places, logger),
		Reviews:         application.NewReviewService(reviewRepo, tripRepo, logger),
		CleanupProducer: func() {},
	}

	var publisher application.EventPublisher
	if len(brokers) > 0 {
		producer := kafka.NewProducer(brokers, logger)
		publisher = producer
		stack.CleanupProducer = func() { _ = producer.Close() }
	}
	stack.Leads = application.NewLeadService(leadRepo, tripRepo, publisher, logger)

	if len(brokers) > 0 {
		groupID := fmt.Sprintf("test-trip-%s", uuid.New().String()[:8])
		stack.Consumer = tripEvents.NewCRMEventConsumer(brokers, groupID, stack.Leads, logger)
	}

	_, err = stack.Trips.SeedCatalog(context.Background(), cat.Trips)
	require.NoError(t, err)
	return stack
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForLeadStatus polls the leads table until the status matches.
func waitForLeadStatus(t *testing.T, db *gorm.DB, reference, expectedStatus string, timeout time.Duration) repository.LeadModel {
	t.Helper()
	var result repository.LeadModel
	require.Eventually(t, func() bool {
		var model repository.LeadModel
		if err := db.Where("reference = ?", reference).First(&model).Error; err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "lead did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	require.NoError(t, controllerConn.CreateTopics(topicConfigs...), "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
