package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-marketplace-indexer/internal/adapter"
	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/logger"
	"github.com/feral-file/ff-marketplace-indexer/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc            adapter.NatsConn
	js            adapter.JetStream
	streamName    string
	subjectPrefix string
	json          adapter.JSON
}

// NewPublisher creates a new NATS JetStream publisher and makes sure the activity stream exists
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	err = js.EnsureStream(ctx, natsjs.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.SubjectPrefix + ".>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
	}

	return &publisher{
		nc:            nc,
		js:            js,
		streamName:    cfg.StreamName,
		subjectPrefix: cfg.SubjectPrefix,
		json:          jsonAdapter,
	}, nil
}

// PublishActivity publishes a persisted marketplace activity to NATS JetStream
func (p *publisher) PublishActivity(ctx context.Context, msg *domain.ActivityMessage) error {
	if !msg.Valid() {
		logger.WarnCtx(ctx, "Skipping invalid activity message", zap.Any("message", msg))
		return nil
	}

	data, err := p.json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	// Format: {prefix}.{marketplace}.{standard_event_type}
	// e.g., marketplace.wapal.place_listing
	subject := msg.Subject(p.subjectPrefix)
	logger.DebugCtx(ctx, "Publishing activity", zap.String("subject", subject), zap.Uint64("version", msg.TxnVersion))

	// The msg id lets JetStream drop duplicates when a round is replayed
	msgID := fmt.Sprintf("%s:%d:%d", msg.Marketplace, msg.TxnVersion, msg.EventIndex)
	_, err = p.js.Publish(ctx, subject, data, natsjs.WithMsgID(msgID))
	if err != nil {
		return fmt.Errorf("failed to publish activity: %w", err)
	}

	return nil
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
