package kafkafeed

import (
	"fmt"
	"os"

	"github.com/Shopify/sarama"
	"github.com/rs/zerolog/log"
)

const (
	__DefaultClientID        = "resumable-input-feeder"
	__DefaultSASLUserEnv     = "KAFKA_USERNAME"
	__DefaultSASLPasswordEnv = "KAFKA_PASSWORD"
)

// Cfg kafka输入配置
type Cfg struct {
	Brokers        []string `json:"brokers"`
	Topic          string   `json:"topic"`
	Partition      int32    `json:"partition"`
	FromOldest     bool     `json:"from_oldest"`
	ClientID       string   `json:"client_id"`
	EndOfStreamKey string   `json:"end_of_stream_key"` // 收到该key的消息后结束输入

	SASLUserEnv     string `json:"sasl_user_env"`     // 保存SASL账号的环境变量名
	SASLPasswordEnv string `json:"sasl_password_env"` // 保存SASL密码的环境变量名
}

func (cfg *Cfg) offset() int64 {
	if cfg.FromOldest {
		return sarama.OffsetOldest
	}
	return sarama.OffsetNewest
}

// NewConfig 按照cfg生成sarama配置, SASL账号从环境变量读取.
func NewConfig(cfg *Cfg) (*sarama.Config, error) {
	conf := sarama.NewConfig()
	if cfg.ClientID == "" {
		cfg.ClientID = __DefaultClientID
	}
	conf.ClientID = cfg.ClientID
	if cfg.FromOldest {
		conf.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	if err := setSASLFromEnv(conf, cfg); err != nil {
		return nil, err
	}
	return conf, nil
}

// setSASLFromEnv 账号和密码都没有设置时不启用SASL, 只设置了一个视为配置错误.
func setSASLFromEnv(conf *sarama.Config, cfg *Cfg) error {
	if cfg.SASLUserEnv == "" {
		cfg.SASLUserEnv = __DefaultSASLUserEnv
	}
	if cfg.SASLPasswordEnv == "" {
		cfg.SASLPasswordEnv = __DefaultSASLPasswordEnv
	}

	usr := os.Getenv(cfg.SASLUserEnv)
	pwd := os.Getenv(cfg.SASLPasswordEnv)
	switch {
	case usr == "" && pwd == "":
		log.Debug().Msgf("%s and %s are unset, access kafka without SASL", cfg.SASLUserEnv, cfg.SASLPasswordEnv)
		return nil
	case usr == "":
		return fmt.Errorf("kafka SASL password is set in %s but %s is empty", cfg.SASLPasswordEnv, cfg.SASLUserEnv)
	case pwd == "":
		return fmt.Errorf("kafka SASL user is set in %s but %s is empty", cfg.SASLUserEnv, cfg.SASLPasswordEnv)
	}

	conf.Net.SASL.Enable = true
	conf.Net.SASL.Mechanism = sarama.SASLTypePlaintext
	conf.Net.SASL.User = usr
	conf.Net.SASL.Password = pwd
	conf.Net.SASL.Version = sarama.SASLHandshakeV1
	return nil
}
