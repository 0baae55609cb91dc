package mqtt

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/r-4-e/Elura-Utility/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	prefix string
	sent   []published
	err    error
}

func (f *fakePublisher) Topic(parts ...string) string { return joinTopic(f.prefix, parts...) }

func (f *fakePublisher) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.sent = append(f.sent, published{topic: topic, payload: data})
	return f.err
}

func TestJoinTopic(t *testing.T) {
	assert.Equal(t, "elura/cases/1", joinTopic("elura", "cases", "1"))
	assert.Equal(t, "cases/1", joinTopic("", "cases", "1"))
}

func TestCasePublisherTopicsAndPayload(t *testing.T) {
	fake := &fakePublisher{prefix: "elura"}
	p := &CasePublisher{pub: fake}

	c := models.Case{CaseID: "AB12CD34", GuildID: "42", Type: models.CaseWarn, UserID: "7", ModeratorID: "8", Reason: "spam"}
	p.CaseAdded(c)
	p.CaseRemoved(c)

	require.Len(t, fake.sent, 2)
	assert.Equal(t, "elura/cases/42", fake.sent[0].topic)

	var ev CaseEvent
	require.NoError(t, json.Unmarshal(fake.sent[0].payload, &ev))
	assert.Equal(t, EventCaseAdded, ev.Event)
	assert.Equal(t, c, ev.Case)

	require.NoError(t, json.Unmarshal(fake.sent[1].payload, &ev))
	assert.Equal(t, EventCaseRemoved, ev.Event)
}

func TestCasePublisherSwallowsErrors(t *testing.T) {
	fake := &fakePublisher{err: errors.New("broker down")}
	p := &CasePublisher{pub: fake}

	assert.NotPanics(t, func() {
		p.CaseAdded(models.Case{CaseID: "X", GuildID: "1"})
	})
	assert.Len(t, fake.sent, 1)
}
