package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lecturenotes-be/internal/dto"
	"lecturenotes-be/internal/entity"
	"lecturenotes-be/internal/pkg/logger"
	"lecturenotes-be/internal/repository/specification"
	"lecturenotes-be/internal/repository/unitofwork"
	"lecturenotes-be/pkg/embedding"
	"lecturenotes-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService reindexes note embeddings off the in-process queue so note
// generation does not block on the embedding provider.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "Failed to unmarshal embed message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payload never becomes valid, do not retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: payload.NoteId})
	if err != nil {
		cs.log.Error("consumer", "Failed to load note for embedding", map[string]interface{}{
			"noteId": payload.NoteId.String(),
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}
	if note == nil {
		// Note deleted between publish and consume.
		msg.Ack()
		return
	}

	noteUpdatedAt := "-"
	if note.UpdatedAt != nil {
		noteUpdatedAt = note.UpdatedAt.Format(time.RFC3339)
	}

	content := fmt.Sprintf(`Note Title: %s
Source Type: %s

%s

Created At: %s
Updated At: %s`,
		note.Title,
		note.SourceType,
		note.Content,
		note.CreatedAt.Format(time.RFC3339),
		noteUpdatedAt,
	)

	// 1500 chars per chunk keeps us well inside embedding context limits.
	chunks := utils.SplitText(content, 1500, 200)

	var newEmbeddings []*entity.NoteEmbedding
	for i, chunk := range chunks {
		values, err := cs.embeddingProvider.Embed(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			cs.log.Error("consumer", "Failed to generate chunk embedding", map[string]interface{}{
				"noteId": payload.NoteId.String(),
				"chunk":  i,
				"error":  err.Error(),
			})
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.NoteEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: values,
			NoteId:         note.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.NoteEmbeddingRepository().DeleteByNoteId(ctx, note.Id); err != nil {
		cs.log.Error("consumer", "Failed to delete stale embeddings", map[string]interface{}{
			"noteId": note.Id.String(),
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.NoteEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		cs.log.Error("consumer", "Failed to store embeddings", map[string]interface{}{
			"noteId": note.Id.String(),
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		msg.Nack()
		return
	}

	cs.log.Info("consumer", "Note embeddings refreshed", map[string]interface{}{
		"noteId": note.Id.String(),
		"chunks": len(newEmbeddings),
	})
	msg.Ack()
}
