package adapter

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"tavolo/internal/pkg/mq"
	"tavolo/internal/service/order/domain"
)

// KafkaStatusProducer 实现了 domain.StatusEventProducer 接口。
// 状态变更事件以顾客 id 作为分区键，同一顾客的事件严格有序，
// 追踪网关按顾客维度消费。
type KafkaStatusProducer struct {
	writer *kafka.Writer
}

func NewKafkaStatusProducer(writer *kafka.Writer) *KafkaStatusProducer {
	return &KafkaStatusProducer{writer: writer}
}

func (p *KafkaStatusProducer) PublishStatusChanged(ctx context.Context, order *domain.Order) error {
	event := domain.OrderStatusChanged{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		VendorID:   order.VendorID,
		Status:     string(order.Status),
		At:         time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal status event")
	}
	key := []byte(strconv.FormatInt(order.CustomerID, 10))
	return mq.ProduceMessage(ctx, p.writer, key, payload)
}
