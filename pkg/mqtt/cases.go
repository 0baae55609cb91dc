package mqtt

import (
	"fmt"

	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// Case event names
const (
	EventCaseAdded   = "case.added"
	EventCaseRemoved = "case.removed"
)

// CaseEvent is the payload published for every case change
type CaseEvent struct {
	Event string      `json:"event"`
	Case  models.Case `json:"case"`
}

// Publisher is the part of MqttCommunicator the case publisher needs
type Publisher interface {
	Publish(topic string, payload interface{}) error
	Topic(parts ...string) string
}

// CasePublisher forwards ledger case notifications to <prefix>/cases/<guild_id>
type CasePublisher struct {
	pub   Publisher
	async bool
}

// NewCasePublisher publishes through pub without blocking the caller
func NewCasePublisher(pub Publisher) *CasePublisher {
	return &CasePublisher{pub: pub, async: true}
}

// CaseAdded publishes a case.added event
func (p *CasePublisher) CaseAdded(c models.Case) {
	p.send(EventCaseAdded, c)
}

// CaseRemoved publishes a case.removed event
func (p *CasePublisher) CaseRemoved(c models.Case) {
	p.send(EventCaseRemoved, c)
}

func (p *CasePublisher) send(event string, c models.Case) {
	publish := func() {
		topic := p.pub.Topic("cases", c.GuildID)
		if err := p.pub.Publish(topic, CaseEvent{Event: event, Case: c}); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo publicar %s del caso %s: %v", event, c.CaseID, err), "MQTT")
		}
	}
	if p.async {
		go publish()
		return
	}
	publish()
}
