package treemodel

import "sync"

type channelLocker struct {
	L chan struct{}
	U chan struct{}
}

func newChannelLocker() *channelLocker {
	return &channelLocker{
		L: make(chan struct{}),
		U: make(chan struct{}),
	}
}

func (cl *channelLocker) Lock() {
	cl.L <- struct{}{}
}

func (cl *channelLocker) Unlock() {
	cl.U <- struct{}{}
}

// RunLockable executes Run() in a separate goroutine and returns a sync.Locker, which
// can be used for mutually exclusive execution with Process(). That is, locking
// guarantees that Process() is not and will not run until unlocked.
//
// The dataset and model are only accessed during calls to Process, so they can be
// safely mutated, and the model notified, while holding this lock.
//
// RunLockable also returns a channel, which will receive one error value and close
// when the connection is closed.
func (c *Connection) RunLockable() (sync.Locker, <-chan error) {
	lock := newChannelLocker()
	errChannel := make(chan error, 1)

	c.ensureHandler()
	go func() {
		defer close(errChannel)
		for {
			select {
			case _, open := <-c.processSignal:
				if !open {
					c.runPosted()
					errChannel <- c.processErr()
					return
				} else if err := c.Process(); err != nil {
					errChannel <- err
					return
				}
			case fn := <-c.posted:
				fn()
			case <-lock.L:
				<-lock.U
			}
		}
	}()

	return lock, errChannel
}
