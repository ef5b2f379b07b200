package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/resilience"
)

const workerQueueGroup = "docverify-workers"

type Queue struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url, subject string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("recruitment-docverify"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:     conn,
		subject:  subject,
		executor: options.ResilienceExecutor,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

// verificationRequested is the event body published per submitted batch.
type verificationRequested struct {
	BatchID     string    `json:"batch_id"`
	RequestedAt time.Time `json:"requested_at"`
}

func encodeVerificationRequested(batchID string, at time.Time) ([]byte, error) {
	if strings.TrimSpace(batchID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "encode verification event", errors.New("batch id is empty"))
	}
	return json.Marshal(verificationRequested{BatchID: batchID, RequestedAt: at.UTC()})
}

// decodeVerificationRequested also accepts a bare batch id payload, which
// carries no request time.
func decodeVerificationRequested(data []byte) (verificationRequested, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return verificationRequested{}, errors.New("empty verification event")
	}
	if !strings.HasPrefix(raw, "{") {
		return verificationRequested{BatchID: raw}, nil
	}
	var event verificationRequested
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return verificationRequested{}, fmt.Errorf("decode verification event: %w", err)
	}
	event.BatchID = strings.TrimSpace(event.BatchID)
	if event.BatchID == "" {
		return verificationRequested{}, errors.New("verification event without batch id")
	}
	return event, nil
}

type requestedAtKey struct{}

// RequestedAt returns the publish time of the event being handled, when the
// event carried one.
func RequestedAt(ctx context.Context) (time.Time, bool) {
	at, ok := ctx.Value(requestedAtKey{}).(time.Time)
	return at, ok && !at.IsZero()
}

func (q *Queue) PublishVerificationRequested(ctx context.Context, batchID string) error {
	payload, err := encodeVerificationRequested(batchID, time.Now())
	if err != nil {
		return err
	}

	msg := nats.NewMsg(q.subject)
	msg.Data = payload
	msg.Header.Set(nats.MsgIdHdr, batchID)

	call := func(_ context.Context) error {
		if err := q.conn.PublishMsg(msg); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

func (q *Queue) SubscribeVerificationRequested(ctx context.Context, handler func(context.Context, string) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, workerQueueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		event, err := decodeVerificationRequested(msg.Data)
		if err != nil {
			slog.Error("verification_event_invalid", "subject", msg.Subject, "error", err)
			return
		}

		handlerCtx, cancel := context.WithCancel(context.WithValue(ctx, requestedAtKey{}, event.RequestedAt))
		defer cancel()
		if err := handler(handlerCtx, event.BatchID); err != nil {
			slog.Error("verification_event_failed", "batch_id", event.BatchID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
