/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package rt

import (
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/bittoy/xdevs/types"
)

// MqttHandler bridges a real-time simulation with an MQTT broker:
// messages published under <rootTopic>/input/<port> are injected into
// the root model through an InputQueue, and ejected root outputs are
// published under <rootTopic>/output/<port>. Payloads are the textual
// value forms of the event boundary.
//
// MqttHandler 在实时仿真与 MQTT 代理之间架桥：
// 发布在 <rootTopic>/input/<port> 下的消息通过 InputQueue 注入根模型，
// 弹出的根输出发布在 <rootTopic>/output/<port> 下。
// 负载是事件边界的文本值形式。
type MqttHandler struct {
	rootTopic string

	// Opts configures the underlying MQTT client and may be adjusted
	// before Start (credentials, TLS, last will).
	Opts *mqtt.ClientOptions

	InputQoS     byte
	OutputQoS    byte
	OutputRetain bool

	client mqtt.Client
	logger types.Logger
	done   chan struct{}
}

// NewMqttHandler creates a handler for the given root topic, client id,
// and broker URI (e.g. "tcp://localhost:1883").
func NewMqttHandler(rootTopic, id, broker string) *MqttHandler {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(id).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	return &MqttHandler{
		rootTopic:    rootTopic,
		Opts:         opts,
		InputQoS:     0,
		OutputQoS:    1,
		OutputRetain: true,
		logger:       types.DefaultLogger(),
	}
}

// Start connects to the broker and wires both directions. Either side
// may be nil when only input or only output is bridged.
// Start 连接代理并接通两个方向。只桥接输入或输出时，另一侧可为 nil。
func (h *MqttHandler) Start(config types.Config, inputs *InputQueue, outputs <-chan types.Event) error {
	if inputs == nil && outputs == nil {
		return fmt.Errorf("no input or output queue provided")
	}
	if config.Logger != nil {
		h.logger = config.Logger
	}
	h.done = make(chan struct{})
	h.client = mqtt.NewClient(h.Opts)
	if token := h.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	if inputs != nil {
		inputTopic := h.rootTopic + "/input/+"
		h.logger.Printf("subscribing to MQTT topic %s", inputTopic)
		token := h.client.Subscribe(inputTopic, h.InputQoS, func(_ mqtt.Client, msg mqtt.Message) {
			segments := strings.Split(msg.Topic(), "/")
			port := segments[len(segments)-1]
			inputs.Send(types.NewEvent(port, string(msg.Payload())))
		})
		if token.Wait() && token.Error() != nil {
			h.client.Disconnect(250)
			return fmt.Errorf("failed to subscribe to MQTT topic %s: %w", inputTopic, token.Error())
		}
	}

	if outputs != nil {
		go h.publishLoop(outputs, h.done)
	}
	return nil
}

func (h *MqttHandler) publishLoop(outputs <-chan types.Event, done <-chan struct{}) {
	client := h.client
	for {
		select {
		case event, ok := <-outputs:
			if !ok {
				h.logger.Printf("output queue closed, stopping MQTT publisher")
				return
			}
			topic := fmt.Sprintf("%s/output/%s", h.rootTopic, event.Port())
			token := client.Publish(topic, h.OutputQoS, h.OutputRetain, event.Value())
			token.Wait()
			if err := token.Error(); err != nil {
				h.logger.Printf("failed to publish to MQTT topic %s: %s", topic, err)
			}
		case <-done:
			return
		}
	}
}

// Stop disconnects from the broker.
func (h *MqttHandler) Stop() {
	if h.done != nil {
		close(h.done)
		h.done = nil
	}
	if h.client != nil {
		h.client.Disconnect(250)
		h.client = nil
	}
}
