package telegram

import (
	"sync"

	tele "gopkg.in/telebot.v3"
)

// SerialPoller wraps a poller and processes each sender's updates strictly in
// arrival order, one at a time. Different senders are processed concurrently.
// The bot must be created with Synchronous set so handlers run on the
// sender's queue goroutine.
type SerialPoller struct {
	Poller tele.Poller
}

// NewSerialPoller wraps p
func NewSerialPoller(p tele.Poller) *SerialPoller {
	return &SerialPoller{Poller: p}
}

// Poll implements tele.Poller. It returns once the wrapped poller has stopped
// and every queued update has been handled.
func (p *SerialPoller) Poll(b *tele.Bot, dest chan tele.Update, stop chan struct{}) {
	q := newQueues(b.ProcessUpdate)

	updates := make(chan tele.Update, cap(dest))
	innerStop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		p.Poller.Poll(b, updates, innerStop)
		close(done)
	}()

	for {
		select {
		case u := <-updates:
			q.push(u)
		case <-stop:
			close(innerStop)
			// Keep accepting so the wrapped poller never blocks on send
			for {
				select {
				case u := <-updates:
					q.push(u)
				case <-done:
					q.wait()
					return
				}
			}
		}
	}
}

// queues holds pending updates per sender; a key is present while its
// worker goroutine is running
type queues struct {
	process func(tele.Update)

	mu      sync.Mutex
	pending map[int64][]tele.Update
	wg      sync.WaitGroup
}

func newQueues(process func(tele.Update)) *queues {
	return &queues{
		process: process,
		pending: make(map[int64][]tele.Update),
	}
}

func (q *queues) push(u tele.Update) {
	key := senderID(u)

	q.mu.Lock()
	defer q.mu.Unlock()

	list, running := q.pending[key]
	q.pending[key] = append(list, u)
	if !running {
		q.wg.Add(1)
		go q.drain(key)
	}
}

func (q *queues) drain(key int64) {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		list := q.pending[key]
		if len(list) == 0 {
			delete(q.pending, key)
			q.mu.Unlock()
			return
		}
		u := list[0]
		q.pending[key] = list[1:]
		q.mu.Unlock()

		q.process(u)
	}
}

func (q *queues) wait() {
	q.wg.Wait()
}

// senderID picks the user an update belongs to. Updates without a sender
// share queue 0.
func senderID(u tele.Update) int64 {
	switch {
	case u.Message != nil && u.Message.Sender != nil:
		return u.Message.Sender.ID
	case u.EditedMessage != nil && u.EditedMessage.Sender != nil:
		return u.EditedMessage.Sender.ID
	case u.Callback != nil && u.Callback.Sender != nil:
		return u.Callback.Sender.ID
	}
	return 0
}
