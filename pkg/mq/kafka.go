package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"github.com/yusurko/freak/config"
	"github.com/yusurko/freak/internal/services"
)

// KafkaAuditProducer 把版务处理事件投递到 kafka，供站外审计
// 消费端归档。实现 services.AuditEmitter
type KafkaAuditProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaAuditProducer(cfg *config.KafkaConfig) (*KafkaAuditProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Net.DialTimeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("启动 Sarama 生产者失败: %w", err)
	}

	return &KafkaAuditProducer{
		producer: producer,
		topic:    cfg.Topic,
	}, nil
}

// EmitModeration 按举报 ID 分区，同一举报的事件保序
func (k *KafkaAuditProducer) EmitModeration(ctx context.Context, event services.ModerationEvent) error {
	bytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化审计事件失败: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.ReportID, 10)),
		Value: sarama.ByteEncoder(bytes),
	}
	if _, _, err := k.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("发送审计事件到 kafka 失败: %w", err)
	}
	return nil
}

func (k *KafkaAuditProducer) Close() error {
	return k.producer.Close()
}
