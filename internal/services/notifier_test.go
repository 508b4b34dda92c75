package services

import (
	"testing"

	"tabhome/internal/models"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	notifier := NewSettingsNotifier()

	first, second := 0, 0
	notifier.Subscribe(models.TopicProfileSettingsUpdated, func(topic string, payload interface{}) {
		first++
	})
	notifier.Subscribe(models.TopicProfileSettingsUpdated, func(topic string, payload interface{}) {
		second++
	})

	notifier.Publish(models.TopicProfileSettingsUpdated, nil)

	if first != 1 || second != 1 {
		t.Errorf("Both subscribers should fire once, got %d and %d", first, second)
	}
}

func TestPublishScopedToTopic(t *testing.T) {
	notifier := NewSettingsNotifier()

	fired := false
	notifier.Subscribe(models.TopicConfigImported, func(topic string, payload interface{}) {
		fired = true
	})

	notifier.Publish(models.TopicProfileSettingsUpdated, nil)

	if fired {
		t.Error("Subscriber must not receive events from other topics")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	notifier := NewSettingsNotifier()

	count := 0
	unsubscribe := notifier.Subscribe(models.TopicProfileSettingsUpdated, func(topic string, payload interface{}) {
		count++
	})

	notifier.Publish(models.TopicProfileSettingsUpdated, nil)
	unsubscribe()
	notifier.Publish(models.TopicProfileSettingsUpdated, nil)

	if count != 1 {
		t.Errorf("Expected exactly 1 delivery before unsubscribe, got %d", count)
	}
	if got := notifier.SubscriberCount(models.TopicProfileSettingsUpdated); got != 0 {
		t.Errorf("Expected 0 subscribers after unsubscribe, got %d", got)
	}
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	notifier := NewSettingsNotifier()

	notifier.Subscribe(models.TopicProfileSettingsUpdated, func(topic string, payload interface{}) {
		panic("bad subscriber")
	})

	survived := false
	notifier.Subscribe(models.TopicProfileSettingsUpdated, func(topic string, payload interface{}) {
		survived = true
	})

	notifier.Publish(models.TopicProfileSettingsUpdated, nil)

	if !survived {
		t.Error("A panicking handler must not block delivery to the rest")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	notifier := NewSettingsNotifier()
	// Must not panic or block
	notifier.Publish(models.TopicProfileSettingsUpdated, "payload")
}

func TestPayloadDelivered(t *testing.T) {
	notifier := NewSettingsNotifier()

	var got interface{}
	notifier.Subscribe(models.TopicConfigImported, func(topic string, payload interface{}) {
		got = payload
	})

	notifier.Publish(models.TopicConfigImported, "1.0.0")

	if got != "1.0.0" {
		t.Errorf("Expected payload %q, got %v", "1.0.0", got)
	}
}
