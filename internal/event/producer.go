package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	pkgkafka "github.com/barisbll/influshop-backend-sub000/pkg/kafka"
)

// Kafka topic constants for influshop domain events.
const (
	TopicUserRegistered       = "influshop.user.registered"
	TopicInfluencerRegistered = "influshop.influencer.registered"
	TopicItemCreated          = "influshop.item.created"
	TopicItemRated            = "influshop.item.rated"
	TopicReportSubmitted      = "influshop.report.submitted"
	TopicReportRetracted      = "influshop.report.retracted"
)

// Aggregate type constants.
const (
	AggregateTypeUser       = "user"
	AggregateTypeInfluencer = "influencer"
	AggregateTypeItem       = "item"
	AggregateTypeReport     = "report"
)

// Source identifier for events originating from this service.
const SourceBackend = "influshop-backend"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// InfluencerRegisteredData is the payload for an influencer.registered event.
type InfluencerRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ItemCreatedData is the payload for an item.created event.
type ItemCreatedData struct {
	ID           string  `json:"id"`
	InfluencerID string  `json:"influencer_id"`
	ItemGroupID  *string `json:"item_group_id,omitempty"`
	Name         string  `json:"name"`
	Price        int64   `json:"price"`
}

// ItemRatedData is the payload for an item.rated event.
type ItemRatedData struct {
	ItemID string `json:"item_id"`
	UserID string `json:"user_id"`
	Stars  int    `json:"stars"`
}

// ReportData is the payload for report.submitted and report.retracted events.
type ReportData struct {
	TargetKind   string `json:"target_kind"`
	TargetID     string `json:"target_id"`
	ReporterKind string `json:"reporter_kind"`
	ReporterID   string `json:"reporter_id"`
	Reason       string `json:"reason,omitempty"`
}

// Producer publishes influshop domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceBackend, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
	)

	return nil
}

// PublishInfluencerRegistered publishes an influencer.registered event.
func (p *Producer) PublishInfluencerRegistered(ctx context.Context, inf *domain.Influencer) error {
	data := InfluencerRegisteredData{
		ID:       inf.ID,
		Username: inf.Username,
		Email:    inf.Email,
	}

	event, err := pkgkafka.NewEvent(TopicInfluencerRegistered, inf.ID, AggregateTypeInfluencer, SourceBackend, data)
	if err != nil {
		return fmt.Errorf("create influencer.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicInfluencerRegistered, event); err != nil {
		return fmt.Errorf("publish influencer.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published influencer.registered event",
		slog.String("influencer_id", inf.ID),
	)

	return nil
}

// PublishItemCreated publishes an item.created event.
func (p *Producer) PublishItemCreated(ctx context.Context, item *domain.Item) error {
	data := ItemCreatedData{
		ID:           item.ID,
		InfluencerID: item.InfluencerID,
		ItemGroupID:  item.ItemGroupID,
		Name:         item.Name,
		Price:        item.Price,
	}

	event, err := pkgkafka.NewEvent(TopicItemCreated, item.ID, AggregateTypeItem, SourceBackend, data)
	if err != nil {
		return fmt.Errorf("create item.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicItemCreated, event); err != nil {
		return fmt.Errorf("publish item.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published item.created event",
		slog.String("item_id", item.ID),
	)

	return nil
}

// PublishItemRated publishes an item.rated event.
func (p *Producer) PublishItemRated(ctx context.Context, itemID, userID string, stars int) error {
	data := ItemRatedData{
		ItemID: itemID,
		UserID: userID,
		Stars:  stars,
	}

	event, err := pkgkafka.NewEvent(TopicItemRated, itemID, AggregateTypeItem, SourceBackend, data)
	if err != nil {
		return fmt.Errorf("create item.rated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicItemRated, event); err != nil {
		return fmt.Errorf("publish item.rated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published item.rated event",
		slog.String("item_id", itemID),
		slog.Int("stars", stars),
	)

	return nil
}

// PublishReportSubmitted publishes a report.submitted event.
func (p *Producer) PublishReportSubmitted(ctx context.Context, report *domain.Report) error {
	data := ReportData{
		TargetKind:   string(report.TargetKind),
		TargetID:     report.TargetID,
		ReporterKind: string(report.ReporterKind),
		ReporterID:   report.ReporterID,
		Reason:       report.Reason,
	}

	event, err := pkgkafka.NewEvent(TopicReportSubmitted, report.ID, AggregateTypeReport, SourceBackend, data)
	if err != nil {
		return fmt.Errorf("create report.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReportSubmitted, event); err != nil {
		return fmt.Errorf("publish report.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published report.submitted event",
		slog.String("report_id", report.ID),
	)

	return nil
}

// PublishReportRetracted publishes a report.retracted event.
func (p *Producer) PublishReportRetracted(ctx context.Context, report *domain.Report) error {
	data := ReportData{
		TargetKind:   string(report.TargetKind),
		TargetID:     report.TargetID,
		ReporterKind: string(report.ReporterKind),
		ReporterID:   report.ReporterID,
	}

	event, err := pkgkafka.NewEvent(TopicReportRetracted, report.ID, AggregateTypeReport, SourceBackend, data)
	if err != nil {
		return fmt.Errorf("create report.retracted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReportRetracted, event); err != nil {
		return fmt.Errorf("publish report.retracted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published report.retracted event",
		slog.String("report_id", report.ID),
	)

	return nil
}
