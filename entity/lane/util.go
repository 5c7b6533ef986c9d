package lane

import (
	"sync"

	"github.com/tsinghua-fib-lab/crossroad-sim/utils/container"
)

// laneList 车道上按推进坐标排序的车辆链表
// 功能：并发安全地缓冲添加和删除操作，在prepare时统一生效并恢复有序
// 泛型参数：T-列表元素类型
type laneList[T any] struct {
	list              *container.List[T]
	addBuffer         []*container.ListNode[T]
	addBufferMutex    sync.Mutex
	removeBuffer      []*container.ListNode[T]
	removeBufferMutex sync.Mutex
}

// newLaneList 创建车道链表
// 参数：id-链表标识符，用于日志
func newLaneList[T any](id string) *laneList[T] {
	return &laneList[T]{
		list: &container.List[T]{
			ID: id,
		},
		addBuffer:    make([]*container.ListNode[T], 0),
		removeBuffer: make([]*container.ListNode[T], 0),
	}
}

// prepare 准备阶段，处理缓冲区的添加和删除操作
// 功能：先删除，再把键值逆序的节点与新加入的节点一起归并回主列表
// 说明：调用前所有节点的S必须已经更新为本步的值
func (l *laneList[T]) prepare() {
	for _, v := range l.removeBuffer {
		l.list.Remove(v)
	}
	unsorted := l.list.PopUnsorted()
	l.list.Merge(append(l.addBuffer, unsorted...))
	l.removeBuffer = l.removeBuffer[:0]
	l.addBuffer = l.addBuffer[:0]
}

// add 添加节点到缓冲区
// 功能：将节点添加到添加缓冲区，延迟到prepare阶段实际插入列表
// 参数：node-要添加的节点
// 说明：使用互斥锁保证线程安全，如果节点已有父节点则panic
func (l *laneList[T]) add(node *container.ListNode[T]) {
	if node.Parent() != nil {
		log.Panic("add node who has parent")
	}
	l.addBufferMutex.Lock()
	l.addBuffer = append(l.addBuffer, node)
	l.addBufferMutex.Unlock()
}

// remove 从缓冲区移除节点
// 功能：将节点添加到删除缓冲区，延迟到prepare阶段实际从列表移除
// 参数：node-要移除的节点
// 说明：使用互斥锁保证线程安全，验证节点的父节点关系
func (l *laneList[T]) remove(node *container.ListNode[T]) {
	if node.Parent() != l.list {
		log.Panicf("remove node %v (parent=%v) from wrong parent %+v", node, node.Parent(), l.list)
	}
	l.removeBufferMutex.Lock()
	l.removeBuffer = append(l.removeBuffer, node)
	l.removeBufferMutex.Unlock()
}
