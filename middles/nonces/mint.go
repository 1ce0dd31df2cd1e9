// Package nonces issues single-use tokens embedded in forms, so a form
// action only accepts submissions of a form this server rendered.
package nonces

import (
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shoenig/go-conceal"
)

// Field is the name of the form field carrying the nonce.
const Field = "csrf"

var (
	ErrTokenNotValid = errors.New("nonces: token not valid")
)

type Mint interface {
	Create() *conceal.Text
	Consume(*conceal.Text) error
}

// New creates a Mint holding at most capacity outstanding nonces, each valid
// for ttl. Once full, issuing a nonce forgets the oldest outstanding one.
func New(capacity int, ttl time.Duration) Mint {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &mint{
		lock:   new(sync.Mutex),
		active: expirable.NewLRU[string, struct{}](max(capacity, 1), nil, ttl),
	}
}

type mint struct {
	lock   *sync.Mutex
	active *expirable.LRU[string, struct{}]
}

func (m *mint) Create() *conceal.Text {
	token := conceal.UUIDv4()
	m.active.Add(token.Unveil(), struct{}{})
	return token
}

func (m *mint) Consume(proposal *conceal.Text) error {
	if proposal == nil {
		return ErrTokenNotValid
	}

	key := proposal.Unveil()

	m.lock.Lock()
	defer m.lock.Unlock()

	// peek honors expiry, remove alone does not
	if _, ok := m.active.Peek(key); !ok {
		return ErrTokenNotValid
	}
	m.active.Remove(key)
	return nil
}
