package interfaces

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/pkg/mq"
	"tavolo/internal/service/order/application"
	"tavolo/internal/service/order/domain"
)

// CompletionConsumer 消费异步完成请求，驱动完成流水线。
// 处理失败的消息转入死信主题后照常提交位点，坏消息不能堵住分区。
type CompletionConsumer struct {
	reader   *kafka.Reader
	svc      *application.OrderApplicationService
	failures *mq.FailureHandler
}

func NewCompletionConsumer(reader *kafka.Reader, svc *application.OrderApplicationService, failures *mq.FailureHandler) *CompletionConsumer {
	return &CompletionConsumer{reader: reader, svc: svc, failures: failures}
}

// Start 阻塞消费直到 ctx 取消。
func (c *CompletionConsumer) Start(ctx context.Context) {
	logger.Ctx(ctx).Info().Msg("完成请求消费者启动")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Ctx(ctx).Error().Err(err).Msg("拉取完成请求失败")
			continue
		}

		msgCtx := mq.ExtractTraceContext(ctx, msg.Headers)
		c.handle(msgCtx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logger.Ctx(msgCtx).Error().Err(err).Msg("提交位点失败")
		}
	}
}

func (c *CompletionConsumer) handle(ctx context.Context, msg kafka.Message) {
	var req domain.OrderCompletionRequested
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		c.failures.Handle(ctx, msg, err)
		return
	}

	status, err := c.svc.CompleteOrder(ctx, req.OrderID)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Int64("order_id", req.OrderID).
			Str("request_id", req.RequestID).
			Msg("完成流水线执行失败")
		c.failures.Handle(ctx, msg, err)
		return
	}

	logger.Ctx(ctx).Info().
		Int64("order_id", req.OrderID).
		Str("request_id", req.RequestID).
		Str("status", string(status)).
		Msg("完成请求处理完毕")
}

func (c *CompletionConsumer) Stop() error {
	return c.reader.Close()
}
