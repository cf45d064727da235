package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/fairwaydispatch/caddie/core/model"
	"github.com/fairwaydispatch/caddie/core/monitoring"
	"github.com/fairwaydispatch/caddie/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client used by
// a production (non-simulation) deployment to publish asset telemetry and
// receive externally created orders (spec §6's `update_asset_location`,
// `update_asset_status`, and `create_order` adapter contract).
type Config struct {
	Broker     string          `json:"broker"`
	ClientID   string          `json:"client_id"`
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	UseTLS     bool            `json:"use_tls"`
	ClientCert string          `json:"client_cert"`
	ClientKey  string          `json:"client_key"`
	CABundle   string          `json:"ca_bundle"`
	AuthMethod string          `json:"auth_method"`
	QoS        map[string]byte `json:"qos"`
	LWTTopic   string          `json:"lwt_topic"`
	LWTPayload string          `json:"lwt_payload"`
	LWTQoS     byte            `json:"lwt_qos"`
	LWTRetain  bool            `json:"lwt_retain"`
	MaxRetries int             `json:"max_retries"`
	BackoffMS  int             `json:"backoff_ms"`
	// OrderCreateTopic, when set, is subscribed to on connect; inbound
	// messages are decoded as a new order and handed to the OnOrderCreate
	// callback.
	OrderCreateTopic string      `json:"order_create_topic"`
	TLSConfig        *tls.Config `json:"-"`
}

// pahoClient is the subset of paho.Client this package depends on, narrowed
// so tests can substitute a fake without a live broker.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// PahoClient publishes asset location/status telemetry and relays inbound
// order-creation messages, using Eclipse Paho as the wire client.
type PahoClient struct {
	cli pahoClient
	qos map[string]byte

	mu           sync.Mutex
	orderHandler func(model.Order)

	logger     logger.Logger
	lwtTopic   string
	lwtPayload string
	lwtQoS     byte
	lwtRetain  bool
	maxRetries int
	backoff    time.Duration

	orderCreateTopic string
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPahoClient connects to the broker and, if cfg.OrderCreateTopic is set,
// subscribes to it for inbound order-creation messages.
func NewPahoClient(cfg Config) (*PahoClient, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	logg := logger.New("mqtt_client")
	pc := &PahoClient{
		qos:              cfg.QoS,
		logger:           logg,
		lwtTopic:         cfg.LWTTopic,
		lwtPayload:       cfg.LWTPayload,
		lwtQoS:           cfg.LWTQoS,
		lwtRetain:        cfg.LWTRetain,
		maxRetries:       cfg.MaxRetries,
		backoff:          time.Duration(cfg.BackoffMS) * time.Millisecond,
		orderCreateTopic: cfg.OrderCreateTopic,
	}

	opts.OnConnect = func(c paho.Client) {
		logg.Infof("MQTT connected")
		if pc.orderCreateTopic == "" {
			return
		}
		qos := byte(0)
		if q, ok := pc.qos["order_create"]; ok {
			qos = q
		}
		if token := c.Subscribe(pc.orderCreateTopic, qos, pc.onOrderMessage); token.Wait() && token.Error() != nil {
			logg.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		logg.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		logg.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	pc.cli = c
	return pc, nil
}

// NewClientOptions builds paho client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in Config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}

// OnOrderCreate registers the callback invoked for every inbound message on
// the order-create topic. Safe to call any time after NewPahoClient.
func (p *PahoClient) OnOrderCreate(handler func(model.Order)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orderHandler = handler
}

func (p *PahoClient) onOrderMessage(_ paho.Client, msg paho.Message) {
	var wire struct {
		OrderID    string       `json:"order_id"`
		TargetHole int          `json:"target_hole"`
		Items      []model.Item `json:"items"`
	}
	if err := json.Unmarshal(msg.Payload(), &wire); err != nil {
		p.logger.Errorf("failed to decode inbound order: %v", err)
		return
	}
	p.mu.Lock()
	handler := p.orderHandler
	p.mu.Unlock()
	if handler == nil {
		return
	}
	handler(model.Order{ID: wire.OrderID, TargetHole: wire.TargetHole, Items: wire.Items})
}

// PublishAssetLocation publishes assetID's current location.
func (p *PahoClient) PublishAssetLocation(assetID string, loc model.Location) error {
	return p.publishJSON(fmt.Sprintf("course/asset/%s/location", assetID), "location", loc, map[string]string{"asset_id": assetID})
}

// PublishAssetStatus publishes assetID's current operational status.
func (p *PahoClient) PublishAssetStatus(assetID string, status model.AssetStatus) error {
	payload := struct {
		Status string `json:"status"`
	}{Status: status.String()}
	return p.publishJSON(fmt.Sprintf("course/asset/%s/status", assetID), "status", payload, map[string]string{"asset_id": assetID})
}

// PublishOrderCreated announces a newly placed order to external listeners.
func (p *PahoClient) PublishOrderCreated(order model.Order) error {
	payload := struct {
		OrderID    string       `json:"order_id"`
		TargetHole int          `json:"target_hole"`
		Items      []model.Item `json:"items"`
	}{OrderID: order.ID, TargetHole: order.TargetHole, Items: order.Items}
	return p.publishJSON(fmt.Sprintf("course/order/%s/created", order.ID), "order_created", payload, map[string]string{"order_id": order.ID})
}

// publishJSON marshals v and publishes it, retrying with exponential
// backoff on transport failure before reporting to the monitor.
func (p *PahoClient) publishJSON(topic, qosKey string, v interface{}, tags map[string]string) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	qos := byte(0)
	if q, ok := p.qos[qosKey]; ok {
		qos = q
	}
	maxRetries := p.maxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	backoff := p.backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	var publishErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		token := p.cli.Publish(topic, qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Infof("published %s to %s", qosKey, topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(backoff * time.Duration(1<<attempt))
	}
	tags["module"] = "mqtt"
	monitoring.CaptureException(publishErr, tags)
	return publishErr
}

// Disconnect gracefully closes the MQTT connection.
func (p *PahoClient) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
