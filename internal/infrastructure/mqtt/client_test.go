package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nerrad567/devicekeeper/internal/infrastructure/config"
)

// testConfig returns an MQTT configuration pointing at a local broker.
// Only the integration tests actually dial it.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "devicekeeper-test",
		},
		QoS:         1,
		TopicPrefix: "devicekeeper-test",
	}
}

func TestConnectDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	client, err := Connect(cfg)
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("Connect() error = %v, want ErrDisabled", err)
	}
	if client != nil {
		t.Error("Connect() returned a client when disabled")
	}
}

func TestBuildClientOptions(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*config.MQTTConfig)
		wantBroker string
		wantUser   string
		wantTLS    bool
	}{
		{
			name:       "plain tcp",
			mutate:     func(*config.MQTTConfig) {},
			wantBroker: "tcp://127.0.0.1:1883",
		},
		{
			name: "tls with credentials",
			mutate: func(c *config.MQTTConfig) {
				c.Broker.TLS = true
				c.Broker.Port = 8883
				c.Auth.Username = "keeper"
				c.Auth.Password = "secret"
			},
			wantBroker: "ssl://127.0.0.1:8883",
			wantUser:   "keeper",
			wantTLS:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			opts := buildClientOptions(cfg)

			if len(opts.Servers) != 1 || opts.Servers[0].String() != tt.wantBroker {
				t.Errorf("Servers = %v, want [%s]", opts.Servers, tt.wantBroker)
			}
			if opts.ClientID != cfg.Broker.ClientID {
				t.Errorf("ClientID = %q, want %q", opts.ClientID, cfg.Broker.ClientID)
			}
			if opts.Username != tt.wantUser {
				t.Errorf("Username = %q, want %q", opts.Username, tt.wantUser)
			}
			if (opts.TLSConfig != nil) != tt.wantTLS {
				t.Errorf("TLSConfig set = %v, want %v", opts.TLSConfig != nil, tt.wantTLS)
			}
			if !opts.AutoReconnect {
				t.Error("AutoReconnect = false, want true")
			}
			if opts.ConnectRetry {
				t.Error("ConnectRetry = true, want false")
			}
		})
	}
}

func TestConfigureLWT(t *testing.T) {
	cfg := testConfig()
	opts := buildClientOptions(cfg)
	topics := Topics{Prefix: cfg.TopicPrefix}

	configureLWT(opts, topics, cfg.Broker.ClientID)

	if !opts.WillEnabled {
		t.Fatal("WillEnabled = false")
	}
	if opts.WillTopic != "devicekeeper-test/status" {
		t.Errorf("WillTopic = %q", opts.WillTopic)
	}
	if !opts.WillRetained {
		t.Error("WillRetained = false, want true")
	}

	var payload statusPayload
	if err := json.Unmarshal(opts.WillPayload, &payload); err != nil {
		t.Fatalf("will payload is not JSON: %v", err)
	}
	if payload.Status != statusOffline || payload.Reason != "unexpected_disconnect" {
		t.Errorf("will payload = %+v", payload)
	}
	if payload.ClientID != cfg.Broker.ClientID {
		t.Errorf("will client_id = %q", payload.ClientID)
	}
}

func TestTopics(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"status", Topics{Prefix: "dk"}.Status(), "dk/status"},
		{"audit", Topics{Prefix: "dk"}.Audit("device", "created"), "dk/audit/device/created"},
		{"all audit", Topics{Prefix: "dk"}.AllAudit(), "dk/audit/#"},
		{"default prefix", Topics{}.Status(), "devicekeeper/status"},
		{"trimmed prefix", Topics{Prefix: "/site/a/"}.Audit("user", "registered"), "site/a/audit/user/registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{cfg: testConfig()}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid qos", "a/b", []byte("x"), 3, ErrInvalidQoS},
		{"oversized payload", "a/b", []byte(strings.Repeat("x", maxPayloadSize+1)), 1, ErrPublishFailed},
		{"not connected", "a/b", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublishJSONNotConnected(t *testing.T) {
	c := &Client{cfg: testConfig()}

	err := c.PublishJSON("a/b", map[string]string{"k": "v"})
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishJSON() error = %v, want ErrNotConnected", err)
	}

	err = c.PublishJSON("a/b", make(chan int))
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("PublishJSON(chan) error = %v, want ErrPublishFailed", err)
	}
}

func TestNilAndUnconnectedClient(t *testing.T) {
	var nilClient *Client
	if nilClient.IsConnected() {
		t.Error("nil client reports connected")
	}
	if err := nilClient.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}

	c := &Client{}
	if c.IsConnected() {
		t.Error("zero client reports connected")
	}
	if err := c.Publish("devicekeeper/audit/device/created", []byte("{}"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}
