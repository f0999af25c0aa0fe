package mq

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"tavolo/internal/pkg/logger"
)

// NewKafkaWriter 创建一个指定 topic 的生产者。
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// NewKafkaReader 创建一个消费组 reader。
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
}

// KafkaHeaderCarrier 让 kafka 消息头适配 OTel 的 TextMapCarrier 接口，
// 使追踪上下文可以随消息跨进程传递。
type KafkaHeaderCarrier []kafka.Header

func (c *KafkaHeaderCarrier) Get(key string) string {
	for _, h := range *c {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *KafkaHeaderCarrier) Set(key, value string) {
	for i, h := range *c {
		if h.Key == key {
			(*c)[i].Value = []byte(value)
			return
		}
	}
	*c = append(*c, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *KafkaHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(*c))
	for _, h := range *c {
		keys = append(keys, h.Key)
	}
	return keys
}

// ProduceMessage 发送一条消息，并把当前追踪上下文注入消息头。
func ProduceMessage(ctx context.Context, writer *kafka.Writer, key, value []byte) error {
	carrier := KafkaHeaderCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, &carrier)

	return writer.WriteMessages(ctx, kafka.Message{
		Key:     key,
		Value:   value,
		Headers: carrier,
	})
}

// ExtractTraceContext 从消息头中还原追踪上下文。
func ExtractTraceContext(ctx context.Context, headers []kafka.Header) context.Context {
	carrier := KafkaHeaderCarrier(headers)
	return otel.GetTextMapPropagator().Extract(ctx, &carrier)
}

// FailureHandler 把处理失败的消息转投到死信 topic，避免毒消息卡住消费组。
type FailureHandler struct {
	dlt *kafka.Writer
}

func NewFailureHandler(dlt *kafka.Writer) *FailureHandler {
	return &FailureHandler{dlt: dlt}
}

// Handle 记录失败原因并转投死信。转投本身失败只能记日志，等人工介入。
func (h *FailureHandler) Handle(ctx context.Context, msg kafka.Message, processingErr error) {
	headers := append(msg.Headers, kafka.Header{
		Key:   "x-failure-reason",
		Value: []byte(processingErr.Error()),
	})
	err := h.dlt.WriteMessages(ctx, kafka.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	})
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("original_error", processingErr.Error()).
			Msg("CRITICAL: failed to forward message to dead letter topic")
		return
	}
	logger.Ctx(ctx).Error().Err(processingErr).Msg("message forwarded to dead letter topic")
}
