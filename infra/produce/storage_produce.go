package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	CloudletExchange = "cloudlet.exchange"

	FileRegisteredRoutingKey = "file.registered"
	FileDeletedRoutingKey    = "file.deleted"
	FolderDeletedRoutingKey  = "folder.deleted"

	// ReconcileQueue is consumed by the reconcile worker
	ReconcileQueue      = "storage.reconcile"
	ReconcileRoutingKey = "storage.reconcile"
)

// FileEventMessage is published after a file row is created or removed
type FileEventMessage struct {
	FileID    string `json:"file_id"`
	OwnerID   string `json:"owner_id"`
	StorageID string `json:"storage_id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	ParentID  string `json:"parent_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type FolderEventMessage struct {
	FolderID  string `json:"folder_id"`
	OwnerID   string `json:"owner_id"`
	Timestamp int64  `json:"timestamp"`
}

// ReconcileRequestMessage asks the worker to sweep one owner's prefix. An empty OwnerID means every owner.
type ReconcileRequestMessage struct {
	OwnerID   string `json:"owner_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type StorageEventService struct {
	channel channelPublisher
}

func InitStorageEventService(channel *amqp.Channel) *StorageEventService {
	err := channel.ExchangeDeclare(
		CloudletExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Cloudlet exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		ReconcileQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Reconcile queue: " + err.Error())
	}

	err = channel.QueueBind(
		ReconcileQueue,
		ReconcileRoutingKey,
		CloudletExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Reconcile queue: " + err.Error())
	}

	return newStorageEventService(channel)
}

func newStorageEventService(channel channelPublisher) *StorageEventService {
	return &StorageEventService{channel: channel}
}

func (s *StorageEventService) PublishFileRegistered(ctx context.Context, msg FileEventMessage) error {
	msg.Timestamp = time.Now().Unix()
	return s.publish(ctx, FileRegisteredRoutingKey, msg)
}

func (s *StorageEventService) PublishFileDeleted(ctx context.Context, msg FileEventMessage) error {
	msg.Timestamp = time.Now().Unix()
	return s.publish(ctx, FileDeletedRoutingKey, msg)
}

func (s *StorageEventService) PublishFolderDeleted(ctx context.Context, msg FolderEventMessage) error {
	msg.Timestamp = time.Now().Unix()
	return s.publish(ctx, FolderDeletedRoutingKey, msg)
}

func (s *StorageEventService) PublishReconcileRequest(ctx context.Context, ownerID uuid.UUID) error {
	msg := ReconcileRequestMessage{Timestamp: time.Now().Unix()}
	if ownerID != uuid.Nil {
		msg.OwnerID = ownerID.String()
	}
	return s.publish(ctx, ReconcileRoutingKey, msg)
}

func (s *StorageEventService) publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", routingKey, err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		CloudletExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s message: %w", routingKey, err)
	}

	return nil
}
