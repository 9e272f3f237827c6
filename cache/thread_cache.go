// Package cache keeps built threads in memory between requests.
package cache

import (
	"sync"
	"time"

	"chat-thread/domain"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
)

type IThreadCache interface {
	Get(conversationID uuid.UUID) ([]domain.ThreadNode, bool)
	// Generation must be read before the messages behind a Set are fetched.
	Generation(conversationID uuid.UUID) uint64
	Set(conversationID uuid.UUID, generation uint64, threads []domain.ThreadNode) bool
	Invalidate(conversationID uuid.UUID)
	Close()
}

// ThreadCache holds the forest built for each conversation.
// Admission and eviction follow ristretto's TinyLFU policy, bounded by maxCost
// where the cost of an entry is its number of nodes. Entries also expire after ttl.
//
// Every Invalidate bumps the generation of its conversation. A Set carrying an
// older generation was built from messages read before that write and is dropped.
type ThreadCache struct {
	cache       *ristretto.Cache[string, []domain.ThreadNode]
	ttl         time.Duration
	mu          sync.Mutex
	generations map[uuid.UUID]uint64
}

func NewThreadCache(maxCost int64, ttl time.Duration) (*ThreadCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []domain.ThreadNode]{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ThreadCache{cache: c, ttl: ttl, generations: make(map[uuid.UUID]uint64)}, nil
}

func (t *ThreadCache) Get(conversationID uuid.UUID) ([]domain.ThreadNode, bool) {
	return t.cache.Get(conversationID.String())
}

func (t *ThreadCache) Generation(conversationID uuid.UUID) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generations[conversationID]
}

// Set stores threads unless the conversation was invalidated since generation
// was read. It waits for the write buffers to drain, so that a Get issued right
// after observes the entry unless it was rejected by admission.
func (t *ThreadCache) Set(conversationID uuid.UUID, generation uint64, threads []domain.ThreadNode) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.generations[conversationID] != generation {
		return false
	}
	t.cache.SetWithTTL(conversationID.String(), threads, cost(threads), t.ttl)
	t.cache.Wait()
	return true
}

func (t *ThreadCache) Invalidate(conversationID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generations[conversationID]++
	t.cache.Del(conversationID.String())
}

func (t *ThreadCache) Close() {
	t.cache.Close()
}

func cost(threads []domain.ThreadNode) int64 {
	var n int64 = 1
	var count func(nodes []domain.ThreadNode)
	count = func(nodes []domain.ThreadNode) {
		for _, node := range nodes {
			n++
			count(node.Replies)
		}
	}
	count(threads)
	return n
}
