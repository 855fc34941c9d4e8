// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aamcrae/nixie/tube"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig selects the broker and topic that frames are published to.
type MQTTConfig struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Topic    string // Frames go to <Topic>/frame
}

// MQTT publishes changed frames as retained JSON messages.
type MQTT struct {
	client  mqtt.Client
	topic   string
	log     *slog.Logger
	publish func([]byte) error

	mu        sync.Mutex // Guards the fields below
	connected bool
	last      []byte
}

const publishTimeout = 5 * time.Second

// NewMQTT creates a publisher. Connect must be called before frames are sent.
func NewMQTT(cfg MQTTConfig, log *slog.Logger) *MQTT {
	m := &MQTT{topic: cfg.Topic + "/frame", log: log}
	m.publish = m.send
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		m.setConnected(true)
		log.Info("mqtt connected", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		m.setConnected(false)
		log.Warn("mqtt connection lost", "error", err)
	})
	m.client = mqtt.NewClient(opts)
	return m
}

func (m *MQTT) setConnected(c bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = c
	if !c {
		// Publish the next frame when the connection returns.
		m.last = nil
	}
}

// Connect waits for the first connection to the broker, or until ctx is done.
func (m *MQTT) Connect(ctx context.Context) error {
	token := m.client.Connect()
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// Render publishes the frame if it differs from the last one published.
// Frames are skipped while disconnected, and a frame that fails to
// publish is sent again on the next call.
func (m *MQTT) Render(f tube.Frame) error {
	b := Marshal(f)
	m.mu.Lock()
	if !m.connected || bytes.Equal(b, m.last) {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()
	if err := m.publish(b); err != nil {
		return err
	}
	m.mu.Lock()
	if m.connected {
		m.last = b
	}
	m.mu.Unlock()
	return nil
}

// send publishes b as the retained frame.
func (m *MQTT) send(b []byte) error {
	token := m.client.Publish(m.topic, 0, true, b)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}

// Disconnect closes the connection to the broker.
func (m *MQTT) Disconnect() {
	m.client.Disconnect(250)
	m.setConnected(false)
}
