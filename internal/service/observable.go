package service

import "sync"

// Readable 只读可观察状态
type Readable[T any] interface {
	Get() T
	Subscribe() (<-chan T, func())
}

// Observable 单写者可观察状态。
// 订阅时立即收到当前值；每个订阅者只有一个槽位，慢订阅者只会看到最新值。
type Observable[T any] struct {
	mu    sync.Mutex
	value T
	next  int
	subs  map[int]chan T
}

// NewObservable 创建可观察状态
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial, subs: make(map[int]chan T)}
}

// Get 当前值
func (o *Observable[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set 写入新值并通知订阅者
func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.setLocked(value)
}

// Update 原子地读改写
func (o *Observable[T]) Update(fn func(T) T) T {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.setLocked(fn(o.value))
	return o.value
}

// Subscribe 订阅变化，返回的 cancel 可重复调用
func (o *Observable[T]) Subscribe() (<-chan T, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.next
	o.next++
	ch := make(chan T, 1)
	ch <- o.value
	o.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if sub, ok := o.subs[id]; ok {
				delete(o.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Subscribers 当前订阅者数量
func (o *Observable[T]) Subscribers() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}

func (o *Observable[T]) setLocked(value T) {
	o.value = value
	for _, ch := range o.subs {
		select {
		case ch <- value:
		default:
			// 槽位已满：丢弃旧值后写入，持锁期间只有这里写入
			select {
			case <-ch:
			default:
			}
			ch <- value
		}
	}
}
