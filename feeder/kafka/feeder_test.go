package kafkafeed

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"

	"github.com/usherasnick/resumable-input/readers"
)

func TestFeederEndOfStreamKey(t *testing.T) {
	consumer := mocks.NewConsumer(t, nil)
	pc := consumer.ExpectConsumePartition("lines", 0, sarama.OffsetOldest)
	pc.YieldMessage(&sarama.ConsumerMessage{Value: []byte("aa\nb")})
	pc.YieldMessage(&sarama.ConsumerMessage{Value: []byte("b\ncc")})
	pc.YieldMessage(&sarama.ConsumerMessage{Key: []byte("eos")})

	var got []interface{}
	cfg := &Cfg{Topic: "lines", FromOldest: true, EndOfStreamKey: "eos"}
	f, err := NewFeederFromConsumer(consumer, cfg, readers.Line, func(v interface{}) error {
		got = append(got, v)
		return nil
	})
	assert.Empty(t, err)

	err = f.Run()
	assert.Empty(t, err)
	assert.Equal(t, []interface{}{"aa", "bb", "cc"}, got)
	f.Close()
}

func TestFeederStopsOnClose(t *testing.T) {
	consumer := mocks.NewConsumer(t, nil)
	pc := consumer.ExpectConsumePartition("values", 3, sarama.OffsetNewest)
	pc.YieldMessage(&sarama.ConsumerMessage{Value: []byte(`{"a": 1} [`)})
	pc.YieldMessage(&sarama.ConsumerMessage{Value: []byte(`2] "tail"`)})

	results := make(chan interface{}, 4)
	cfg := &Cfg{Topic: "values", Partition: 3}
	f, err := NewFeederFromConsumer(consumer, cfg, readers.JSONValues(), func(v interface{}) error {
		results <- v
		return nil
	})
	assert.Empty(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- f.Run()
	}()

	// the trailing string only completes once the stream is closed
	var got []interface{}
	for len(got) < 2 {
		select {
		case v := <-results:
			got = append(got, v)
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for decoded values")
		}
	}
	select {
	case v := <-results:
		t.Fatalf("unexpected value before close: %v", v)
	case <-time.After(50 * time.Millisecond):
	}
	f.Close()

	select {
	case err := <-errCh:
		assert.Empty(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for feeder to stop")
	}
	close(results)
	for v := range results {
		got = append(got, v)
	}
	assert.Len(t, got, 3)
	assert.Equal(t, "tail", got[2])
}

func TestFeederSinkError(t *testing.T) {
	stop := errors.New("stop")
	consumer := mocks.NewConsumer(t, nil)
	pc := consumer.ExpectConsumePartition("lines", 0, sarama.OffsetOldest)
	pc.YieldMessage(&sarama.ConsumerMessage{Value: []byte("x\n")})

	cfg := &Cfg{Topic: "lines", FromOldest: true}
	f, err := NewFeederFromConsumer(consumer, cfg, readers.Line, func(v interface{}) error {
		return stop
	})
	assert.Empty(t, err)

	assert.Equal(t, stop, f.Run())
	f.Close()
}

func TestNewConfig(t *testing.T) {
	cfg := &Cfg{FromOldest: true, SASLUserEnv: "FEEDER_TEST_UNSET_USER", SASLPasswordEnv: "FEEDER_TEST_UNSET_PASSWORD"}
	conf, err := NewConfig(cfg)
	assert.Empty(t, err)
	assert.False(t, conf.Net.SASL.Enable)
	assert.Equal(t, __DefaultClientID, conf.ClientID)
	assert.Equal(t, sarama.OffsetOldest, conf.Consumer.Offsets.Initial)
	assert.Equal(t, sarama.OffsetOldest, cfg.offset())
	assert.Equal(t, sarama.OffsetNewest, (&Cfg{}).offset())
}

func TestNewConfigSASLFromEnv(t *testing.T) {
	const (
		userEnv = "FEEDER_TEST_SASL_USER"
		pwdEnv  = "FEEDER_TEST_SASL_PASSWORD"
	)
	defer os.Unsetenv(userEnv) // nolint
	defer os.Unsetenv(pwdEnv)  // nolint

	assert.Empty(t, os.Setenv(userEnv, "alice"))
	assert.Empty(t, os.Setenv(pwdEnv, "secret"))
	conf, err := NewConfig(&Cfg{SASLUserEnv: userEnv, SASLPasswordEnv: pwdEnv})
	assert.Empty(t, err)
	assert.True(t, conf.Net.SASL.Enable)
	assert.Equal(t, "alice", conf.Net.SASL.User)
	assert.Equal(t, "secret", conf.Net.SASL.Password)
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypePlaintext), conf.Net.SASL.Mechanism)

	assert.Empty(t, os.Unsetenv(pwdEnv))
	conf, err = NewConfig(&Cfg{SASLUserEnv: userEnv, SASLPasswordEnv: pwdEnv})
	assert.NotNil(t, err)
	assert.Nil(t, conf)

	assert.Empty(t, os.Unsetenv(userEnv))
	assert.Empty(t, os.Setenv(pwdEnv, "secret"))
	_, err = NewConfig(&Cfg{SASLUserEnv: userEnv, SASLPasswordEnv: pwdEnv})
	assert.NotNil(t, err)

	cfg := &Cfg{}
	_ = setSASLFromEnv(sarama.NewConfig(), cfg)
	assert.Equal(t, __DefaultSASLUserEnv, cfg.SASLUserEnv)
	assert.Equal(t, __DefaultSASLPasswordEnv, cfg.SASLPasswordEnv)
}
