package container

import "container/heap"

// item 优先队列元素
type item[T any] struct {
	value    T
	priority float64 // 越小越优先
	index    int     // 堆中下标，由heap.Interface维护
}

// minHeap 以priority为键的最小堆
type minHeap[T any] []*item[T]

func (h minHeap[T]) Len() int { return len(h) }

func (h minHeap[T]) Less(i, j int) bool {
	return h[i].priority < h[j].priority
}

func (h minHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *minHeap[T]) Push(x any) {
	it := x.(*item[T])
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *minHeap[T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}

// PriorityQueue 优先队列
// 功能：按优先级数值从小到大弹出元素，用于最近邻搜索等按下界递增的遍历
type PriorityQueue[T any] struct {
	queue minHeap[T]
}

// NewPriorityQueue 创建优先队列
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{queue: make(minHeap[T], 0)}
}

// Len 队列长度
func (q *PriorityQueue[T]) Len() int {
	return len(q.queue)
}

// First 查看优先级数值最小的元素（不弹出）
func (q *PriorityQueue[T]) First() (value T, priority float64) {
	it := q.queue[0]
	return it.value, it.priority
}

// Push 批量加入元素
// 说明：不维护堆结构，全部加入后需调用Heapify
func (q *PriorityQueue[T]) Push(value T, priority float64) {
	q.queue = append(q.queue, &item[T]{value: value, priority: priority})
}

// Heapify 重建堆
func (q *PriorityQueue[T]) Heapify() {
	heap.Init(&q.queue)
}

// HeapPush 加入元素并维护堆结构
func (q *PriorityQueue[T]) HeapPush(value T, priority float64) {
	heap.Push(&q.queue, &item[T]{value: value, priority: priority})
}

// HeapPop 弹出优先级数值最小的元素
func (q *PriorityQueue[T]) HeapPop() (value T, priority float64) {
	it := heap.Pop(&q.queue).(*item[T])
	return it.value, it.priority
}
