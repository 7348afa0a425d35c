package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/santiago072004/Tienda/pkg/messaging"
	"github.com/santiago072004/Tienda/pkg/messaging/events"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"
)

// skipIntegrationTests is the environment variable that controls whether to skip integration tests.
const skipIntegrationTests = "STOREFRONT_SKIP_INTEGRATION_TESTS"
const natsImg = "nats:2.11.6-alpine"

// PublisherSuite publishes storefront events to a real JetStream server.
type PublisherSuite struct {
	suite.Suite
	ctx           context.Context
	logger        *slog.Logger
	natsContainer *tcnats.NATSContainer
	nc            *natsgo.Conn
	js            jetstream.JetStream
}

func (s *PublisherSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var err error
	s.natsContainer, err = tcnats.Run(s.ctx, natsImg)
	require.NoError(s.T(), err, "Failed to run NATS container")

	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err, "Failed to get NATS connection string")

	s.nc, err = NewClient(natsURL, 5*time.Second)
	require.NoError(s.T(), err, "Failed to connect to NATS")
	s.js, err = NewJetStreamContext(s.nc)
	require.NoError(s.T(), err, "Failed to get JetStream context")

	require.NoError(s.T(), EnsureStream(s.ctx, s.js, "STOREFRONT", messaging.StreamSubjects))
	// updating an existing stream is allowed
	require.NoError(s.T(), EnsureStream(s.ctx, s.js, "STOREFRONT", messaging.StreamSubjects))
	s.logger.Info("Initialization complete for PublisherSuite")
}

func (s *PublisherSuite) TearDownSuite() {
	if s.nc != nil {
		s.nc.Close()
	}
	if s.natsContainer != nil {
		if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
			s.logger.Error("Failed to terminate NATS container", "error", err)
		}
	}
}

func TestPublisherIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) TestPublish() {
	testCases := []struct {
		name    string
		event   messaging.Event
		subject string
	}{
		{
			name:    "user registered",
			event:   events.UserRegisteredEvent{UserID: "u-1", Name: "Ana", Email: "ana@example.com", RegisteredAt: time.Now().UTC()},
			subject: messaging.UsersRegisteredSubject,
		},
		{
			name:    "contact submitted",
			event:   events.ContactSubmittedEvent{Name: "Ana", Email: "ana@example.com", Topic: "Hola", Message: "Ayuda", SubmittedAt: time.Now().UTC()},
			subject: messaging.ContactSubmittedSubject,
		},
	}

	publisher := NewJetStreamPublisher(s.js)
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// given
			consumer, err := s.js.OrderedConsumer(s.ctx, "STOREFRONT", jetstream.OrderedConsumerConfig{
				FilterSubjects: []string{tc.subject},
				DeliverPolicy:  jetstream.DeliverNewPolicy,
			})
			s.Require().NoError(err)

			// when
			s.Require().NoError(publisher.Publish(s.ctx, tc.event))

			// then
			msg, err := consumer.Next(jetstream.FetchMaxWait(5 * time.Second))
			s.Require().NoError(err)
			s.Equal(tc.subject, msg.Subject())
			s.NotEmpty(msg.Headers().Get(natsgo.MsgIdHdr))

			expected, err := tc.event.Payload()
			s.Require().NoError(err)
			var got, want map[string]any
			s.Require().NoError(json.Unmarshal(msg.Data(), &got))
			s.Require().NoError(json.Unmarshal(expected, &want))
			s.Equal(want, got)
		})
	}
}
