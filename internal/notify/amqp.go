package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/litovel-minicup/matchlive/internal/domain"
	"github.com/litovel-minicup/matchlive/internal/logging"
	"github.com/litovel-minicup/matchlive/internal/snapshot"
)

// Publisher mirrors committed match events onto a topic exchange so other
// services (result archiving, push notifications) can react without polling.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

// NewPublisher dials the broker and declares the topic exchange. The exchange
// is durable so bindings survive broker restarts.
func NewPublisher(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing amqp broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening amqp channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %q: %w", exchange, err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// MatchEventCommitted publishes the event under match.{id}.{type} so
// consumers can bind to a single match, a single event type, or everything.
func (p *Publisher) MatchEventCommitted(ctx context.Context, detail domain.MatchDetail, event domain.TimelineEvent) {
	payload := snapshot.Event(event.Event, event.Player, detail.HomeTeam, detail.AwayTeam)
	payload["match_id"] = detail.Match.ID
	payload["state"] = string(detail.Match.EffectiveState())

	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error(p.logger, "marshaling amqp payload", err,
			slog.Int64(logging.FieldMatchID, detail.Match.ID))
		return
	}

	routingKey := fmt.Sprintf("match.%d.%s", detail.Match.ID, event.Event.Type)
	err = p.channel.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		logging.Error(p.logger, "publishing match event", err,
			slog.Int64(logging.FieldMatchID, detail.Match.ID),
			slog.String(logging.FieldEventType, string(event.Event.Type)))
		return
	}

	logging.Info(p.logger, "match event published",
		slog.Int64(logging.FieldMatchID, detail.Match.ID),
		slog.String("routing_key", routingKey))
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
