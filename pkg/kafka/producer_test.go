package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

func TestNewProducerBalancer(t *testing.T) {
	p, err := NewProducer(WithBrokers([]string{"localhost:9092"}))
	if err != nil {
		t.Fatalf("new producer: %v", err)
	}
	if _, ok := p.writer.Balancer.(*kafka.LeastBytes); !ok {
		t.Fatalf("expected default LeastBytes balancer, got %T", p.writer.Balancer)
	}

	// Per-key partition affinity so keyed topics compact cleanly.
	p, err = NewProducer(WithBrokers([]string{"localhost:9092"}), WithHashByKey(true))
	if err != nil {
		t.Fatalf("new producer: %v", err)
	}
	if _, ok := p.writer.Balancer.(*kafka.Hash); !ok {
		t.Fatalf("expected Hash balancer with hash-by-key, got %T", p.writer.Balancer)
	}
}
