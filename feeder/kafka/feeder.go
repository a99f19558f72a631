package kafkafeed

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/Shopify/sarama"
	"github.com/rs/zerolog/log"

	"github.com/usherasnick/resumable-input/resumable"
)

// Feeder 将一个分区的消息依次作为数据源送入Handle, 并驱动读取算法.
type Feeder struct {
	conf         *Cfg
	consumer     sarama.Consumer
	ownsConsumer bool
	pc           sarama.PartitionConsumer
	driver       *resumable.Driver
	closeOnce    sync.Once
}

// NewFeeder 连接kafka并返回Feeder实例.
func NewFeeder(cfg *Cfg, fn resumable.ReadFunc, sink resumable.Sink) (*Feeder, error) {
	conf, err := NewConfig(cfg)
	if err != nil {
		log.Error().Err(err).Msg("invalid kafka config")
		return nil, err
	}
	consumer, err := sarama.NewConsumer(cfg.Brokers, conf)
	if err != nil {
		log.Error().Err(err).Msg("failed to create kafka consumer")
		return nil, err
	}
	f, err := NewFeederFromConsumer(consumer, cfg, fn, sink)
	if err != nil {
		consumer.Close() // nolint
		return nil, err
	}
	f.ownsConsumer = true
	return f, nil
}

// NewFeederFromConsumer 使用已有的consumer返回Feeder实例, consumer由调用方关闭.
func NewFeederFromConsumer(consumer sarama.Consumer, cfg *Cfg, fn resumable.ReadFunc, sink resumable.Sink) (*Feeder, error) {
	pc, err := consumer.ConsumePartition(cfg.Topic, cfg.Partition, cfg.offset())
	if err != nil {
		log.Error().Err(err).Msgf("failed to consume partition %d of %s", cfg.Partition, cfg.Topic)
		return nil, err
	}

	h := resumable.NewHandle(&resumable.HandleCfg{
		Name: fmt.Sprintf("%s/%d", cfg.Topic, cfg.Partition),
	})
	log.Info().Msgf("create kafka feeder, topic: %s, partition: %d", cfg.Topic, cfg.Partition)

	return &Feeder{
		conf:     cfg,
		consumer: consumer,
		pc:       pc,
		driver:   resumable.NewDriver(h, fn, sink),
	}, nil
}

// Run 消费消息直到分区消费者关闭、收到结束消息或者读取出错.
func (f *Feeder) Run() error {
	log.Info().Msgf("feeder is running, partition: %d", f.conf.Partition)
	h := f.driver.Handle()

	for msg := range f.pc.Messages() {
		if f.conf.EndOfStreamKey != "" && string(msg.Key) == f.conf.EndOfStreamKey {
			log.Info().Msgf("end of stream at offset %d", msg.Offset)
			break
		}
		if len(msg.Value) > 0 {
			h.Extend(bytes.NewReader(msg.Value))
		}
		if err := f.driver.Drive(); err != nil {
			log.Error().Err(err).Msgf("failed to read message at offset %d", msg.Offset)
			return err
		}
		if f.driver.Done() {
			return nil
		}
	}

	h.SoftClose()
	if err := f.driver.Drive(); err != nil {
		log.Error().Err(err).Msg("failed to read the rest of the stream")
		return err
	}
	log.Info().Msgf("feeder has been stopped, partition: %d", f.conf.Partition)
	return nil
}

// Close 关闭分区消费者, Run随后返回.
func (f *Feeder) Close() {
	f.closeOnce.Do(func() {
		if err := f.pc.Close(); err != nil {
			log.Warn().Err(err).Msgf("failed to close partition consumer, partition: %d", f.conf.Partition)
		}
		if !f.ownsConsumer {
			return
		}
		if err := f.consumer.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close consumer")
		}
	})
}
