package server

import (
	"context"
	"sync"

	"github.com/WreckedIT/MoveMate/internal/inventory"
)

const (
	ActivityStreamEventName = "activity"
	streamEventHeartbeat    = "heartbeat"
)

// ActivityDispatcher fans freshly recorded activities out to every open
// stream. Delivery is best effort: a subscriber whose buffer is full misses
// the message rather than stalling the publisher.
type ActivityDispatcher struct {
	mu          sync.RWMutex
	subscribers map[int64]*activitySubscriber
	nextID      int64
	bufferSize  int
}

type activitySubscriber struct {
	id     int64
	stream chan inventory.Activity
}

func NewActivityDispatcher() *ActivityDispatcher {
	return &ActivityDispatcher{
		subscribers: make(map[int64]*activitySubscriber),
		bufferSize:  16,
	}
}

// Subscribe registers a listener and returns its stream together with a
// cleanup function. The subscription is also torn down when ctx ends, so
// callers may rely on either mechanism.
func (d *ActivityDispatcher) Subscribe(ctx context.Context) (<-chan inventory.Activity, func()) {
	subscriber := &activitySubscriber{
		id:     d.nextSequence(),
		stream: make(chan inventory.Activity, d.bufferSize),
	}
	d.registerSubscriber(subscriber)
	cleanup := func() {
		d.unregisterSubscriber(subscriber.id)
	}
	go func() {
		<-ctx.Done()
		cleanup()
	}()
	return subscriber.stream, cleanup
}

func (d *ActivityDispatcher) Publish(activity inventory.Activity) {
	d.mu.RLock()
	if len(d.subscribers) == 0 {
		d.mu.RUnlock()
		return
	}
	copies := make([]*activitySubscriber, 0, len(d.subscribers))
	for _, subscriber := range d.subscribers {
		copies = append(copies, subscriber)
	}
	d.mu.RUnlock()
	for _, subscriber := range copies {
		select {
		case subscriber.stream <- activity:
		default:
		}
	}
}

func (d *ActivityDispatcher) nextSequence() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return d.nextID
}

func (d *ActivityDispatcher) registerSubscriber(subscriber *activitySubscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[subscriber.id] = subscriber
}

func (d *ActivityDispatcher) unregisterSubscriber(subscriberID int64) {
	d.mu.Lock()
	delete(d.subscribers, subscriberID)
	d.mu.Unlock()
}
