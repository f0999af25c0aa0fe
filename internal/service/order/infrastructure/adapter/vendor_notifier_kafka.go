package adapter

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/pkg/mq"
	"tavolo/internal/service/order/domain"
	"tavolo/internal/service/order/domain/port"
)

// KafkaVendorNotifier 实现了 port.VendorNotifier 接口。
// 备餐通知走 Kafka 异步投递，以商家 id 作为分区键保证同一商家的通知有序。
type KafkaVendorNotifier struct {
	writer *kafka.Writer
}

func NewKafkaVendorNotifier(writer *kafka.Writer) *KafkaVendorNotifier {
	return &KafkaVendorNotifier{writer: writer}
}

func (n *KafkaVendorNotifier) NotifyOrderAccepted(ctx context.Context, order *domain.Order) error {
	// 收件方校验先于投递：没有商家或没有订单号的通知发出去也没人认领
	if order.VendorID == 0 || order.ID == 0 {
		return port.ErrMissingRecipient
	}

	names := make([]string, len(order.Dishes))
	for i, d := range order.Dishes {
		names[i] = d.Name
	}
	notice := domain.VendorNotice{
		VendorID:            order.VendorID,
		OrderID:             order.ID,
		Dishes:              names,
		SpecialRequirements: order.SpecialRequirements,
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return errors.Wrap(err, "marshal vendor notice")
	}

	key := []byte(strconv.FormatInt(order.VendorID, 10))
	if err := mq.ProduceMessage(ctx, n.writer, key, payload); err != nil {
		return errors.Wrap(err, "produce vendor notice")
	}
	logger.Ctx(ctx).Info().
		Int64("vendor_id", order.VendorID).
		Int64("order_id", order.ID).
		Msg("备餐通知已投递")
	return nil
}
